package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/logger"
	"draytrack-backend/internal/perdiem"
	"draytrack-backend/internal/rates"
	"draytrack-backend/internal/repository"
)

type equipmentService struct {
	equipRepo repository.EquipmentStatusRepository
	rates     *rates.Table
}

func NewEquipmentService(equipRepo repository.EquipmentStatusRepository, rateTable *rates.Table) EquipmentService {
	return &equipmentService{equipRepo: equipRepo, rates: rateTable}
}

// PushEquipmentStatus is the entry point the feed adapter calls. Pure
// upsert; no validation beyond shape, since the adapter owns data quality.
func (s *equipmentService) PushEquipmentStatus(ctx context.Context, status *domain.EquipmentStatus) error {
	if status.EquipmentID == "" {
		return fmt.Errorf("%w: equipment_id is required", domain.ErrInvalidInput)
	}
	if status.LastStatusAt.IsZero() {
		status.LastStatusAt = time.Now().UTC()
	}
	if err := s.equipRepo.SetStatus(ctx, status); err != nil {
		return err
	}
	logger.Debug("Equipment status upserted",
		"equipment_id", status.EquipmentID, "custody_state", status.CustodyState, "location", status.Location)
	return nil
}

func (s *equipmentService) GetEquipmentStatus(ctx context.Context, equipmentID string) (*domain.EquipmentStatus, error) {
	return s.equipRepo.GetStatus(ctx, equipmentID)
}

// CalculatePerDiem answers "how much does this equipment owe right now" (or
// for a closed span when end is supplied). When the caller omits the
// operator code it is resolved from the status cache; untracked equipment
// falls back to the DEFAULT entry.
func (s *equipmentService) CalculatePerDiem(ctx context.Context, equipmentID, operatorCode string, start time.Time, end *time.Time) (*domain.PerDiemResult, error) {
	src := perdiem.RateSource(s.rates.Containers())

	status, err := s.equipRepo.GetStatus(ctx, equipmentID)
	switch {
	case err == nil:
		if status.Subtype == domain.EquipmentSubtypeChassis {
			src = s.rates.Chassis()
		}
		if operatorCode == "" {
			operatorCode = status.OperatorCode
		}
	case errors.Is(err, domain.ErrEquipmentNotFound):
		// Untracked equipment still gets an answer, on default terms.
	default:
		return nil, err
	}

	if operatorCode == "" {
		operatorCode = rates.DefaultCode
	}

	result := perdiem.Calculate(equipmentID, operatorCode, start, end, src)
	return &result, nil
}

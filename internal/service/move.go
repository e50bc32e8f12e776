package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/logger"
	"draytrack-backend/internal/perdiem"
	"draytrack-backend/internal/rates"
	"draytrack-backend/internal/repository"
)

type moveService struct {
	moveRepo  repository.MoveRepository
	equipRepo repository.EquipmentStatusRepository
	rates     *rates.Table

	// Per-equipment-id locks. CreateMove's custody check and cache update
	// must be atomic per equipment id or two concurrent dispatches could
	// double-assign a chassis.
	mu         sync.Mutex
	equipLocks map[string]*sync.Mutex
}

func NewMoveService(moveRepo repository.MoveRepository, equipRepo repository.EquipmentStatusRepository, rateTable *rates.Table) MoveService {
	return &moveService{
		moveRepo:   moveRepo,
		equipRepo:  equipRepo,
		rates:      rateTable,
		equipLocks: make(map[string]*sync.Mutex),
	}
}

// lockEquipment acquires the per-id locks for the given equipment ids in
// sorted order, so two calls touching the same pair never deadlock.
func (s *moveService) lockEquipment(ids ...string) func() {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	locks := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		s.mu.Lock()
		l, ok := s.equipLocks[id]
		if !ok {
			l = &sync.Mutex{}
			s.equipLocks[id] = l
		}
		s.mu.Unlock()
		l.Lock()
		locks = append(locks, l)
	}

	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func (s *moveService) CreateMove(ctx context.Context, req CreateMoveRequest) (*domain.Move, error) {
	if req.ContainerID == "" {
		return nil, fmt.Errorf("%w: container_id is required", domain.ErrInvalidInput)
	}
	if req.ChassisID == "" {
		return nil, fmt.Errorf("%w: chassis_id is required", domain.ErrInvalidInput)
	}
	if req.JobID == "" {
		return nil, fmt.Errorf("%w: job_id is required", domain.ErrInvalidInput)
	}
	switch req.MoveType {
	case domain.MoveTypePickup, domain.MoveTypeDelivery, domain.MoveTypeEmptyReturn:
	default:
		return nil, fmt.Errorf("%w: unknown move type %q", domain.ErrInvalidInput, req.MoveType)
	}

	unlock := s.lockEquipment(req.ContainerID, req.ChassisID)
	defer unlock()

	for _, id := range []string{req.ContainerID, req.ChassisID} {
		existing, err := s.moveRepo.FindActiveByEquipment(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicateCustodyAssignment
		}
	}

	// The container's line comes from the status feed; untracked equipment
	// bills against the DEFAULT entry.
	line := rates.DefaultCode
	containerStatus, err := s.equipRepo.GetStatus(ctx, req.ContainerID)
	switch {
	case err == nil:
		if containerStatus.OperatorCode != "" {
			line = containerStatus.OperatorCode
		}
	case errors.Is(err, domain.ErrEquipmentNotFound):
		logger.Debug("Container not yet tracked, using default line", "container_id", req.ContainerID)
	default:
		return nil, err
	}

	now := time.Now().UTC()
	mv := &domain.Move{
		ID:               uuid.NewString(),
		JobID:            req.JobID,
		ContainerID:      req.ContainerID,
		ChassisID:        req.ChassisID,
		ChassisProvider:  req.ChassisProvider,
		ContainerLine:    line,
		MoveType:         req.MoveType,
		PickupLocation:   req.PickupLocation,
		DeliveryLocation: req.DeliveryLocation,
		Driver:           req.Driver,
		StartedAt:        now,
		// Allowances snapshotted here; later rate-table updates must not
		// reprice this move.
		ContainerFreeDays: s.rates.FreeTimeDays(line),
		ChassisFreeDays:   s.rates.ChassisFreeTimeDays(req.ChassisProvider),
		Costs:             domain.MoveCosts{PortFeesCents: req.PortFeesCents},
		Status:            domain.MoveStatusActive,
		CreatedOn:         now,
		UpdatedOn:         now,
	}

	if err := s.moveRepo.Create(ctx, mv); err != nil {
		return nil, err
	}

	if err := s.assignEquipment(ctx, mv, now); err != nil {
		return nil, err
	}

	logger.Info("Move created",
		"move_id", mv.ID, "job_id", mv.JobID,
		"container_id", mv.ContainerID, "chassis_id", mv.ChassisID,
		"container_free_days", mv.ContainerFreeDays, "chassis_free_days", mv.ChassisFreeDays)
	return mv, nil
}

func (s *moveService) CompleteMove(ctx context.Context, moveID string) (*domain.Move, error) {
	mv, err := s.moveRepo.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockEquipment(mv.ContainerID, mv.ChassisID)
	defer unlock()

	// Re-read under the lock; a concurrent transition may have won.
	mv, err = s.moveRepo.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if mv.Status != domain.MoveStatusActive {
		return nil, domain.ErrInvalidMoveState
	}

	now := time.Now().UTC()
	elapsed := perdiem.ElapsedDays(mv.StartedAt, now)

	// Used days are the plain over-free-time signal, computed from the
	// allowances captured at creation. The weekend exemption belongs to the
	// standalone per-diem report, not to completion billing.
	mv.ContainerUsedDays = perdiem.UsedDays(elapsed, mv.ContainerFreeDays)
	mv.ChassisUsedDays = perdiem.UsedDays(elapsed, mv.ChassisFreeDays)

	mv.Costs.ContainerPerDiemCents = int64(mv.ContainerUsedDays) * s.rates.DailyRateCents(mv.ContainerLine)
	mv.Costs.ChassisRentalCents = int64(mv.ChassisUsedDays) * s.rates.ChassisDailyRateCents(mv.ChassisProvider)
	mv.Costs.FuelSurchargeCents = s.rates.ChassisFuelSurchargeCents(mv.ChassisProvider)
	mv.Costs.TotalCents = mv.Costs.ContainerPerDiemCents + mv.Costs.ChassisRentalCents +
		mv.Costs.PortFeesCents + mv.Costs.FuelSurchargeCents

	mv.EndedAt = &now
	mv.Status = domain.MoveStatusCompleted
	mv.UpdatedOn = now

	if err := s.moveRepo.Update(ctx, mv); err != nil {
		return nil, err
	}

	if err := s.releaseEquipment(ctx, mv, now); err != nil {
		return nil, err
	}

	logger.Info("Move completed",
		"move_id", mv.ID, "elapsed_days", elapsed,
		"container_used_days", mv.ContainerUsedDays, "chassis_used_days", mv.ChassisUsedDays,
		"total_cents", mv.Costs.TotalCents)
	return mv, nil
}

func (s *moveService) CancelMove(ctx context.Context, moveID string) (*domain.Move, error) {
	mv, err := s.moveRepo.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockEquipment(mv.ContainerID, mv.ChassisID)
	defer unlock()

	mv, err = s.moveRepo.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if mv.Status != domain.MoveStatusActive {
		return nil, domain.ErrInvalidMoveState
	}

	now := time.Now().UTC()
	// A dispatch error should not generate a bill: every cost component is
	// zeroed, port fees included.
	mv.Costs = domain.MoveCosts{}
	mv.ContainerUsedDays = 0
	mv.ChassisUsedDays = 0
	mv.EndedAt = &now
	mv.Status = domain.MoveStatusCancelled
	mv.UpdatedOn = now

	if err := s.moveRepo.Update(ctx, mv); err != nil {
		return nil, err
	}

	if err := s.releaseEquipment(ctx, mv, now); err != nil {
		return nil, err
	}

	logger.Info("Move cancelled", "move_id", mv.ID, "job_id", mv.JobID)
	return mv, nil
}

func (s *moveService) GetMove(ctx context.Context, moveID string) (*domain.Move, error) {
	return s.moveRepo.GetByID(ctx, moveID)
}

func (s *moveService) ListMoves(ctx context.Context, filter repository.MoveFilter) ([]domain.Move, error) {
	return s.moveRepo.List(ctx, filter)
}

// assignEquipment marks both pieces of equipment as paired in the status
// cache, synthesizing entries for equipment the feed has not reported yet.
func (s *moveService) assignEquipment(ctx context.Context, mv *domain.Move, now time.Time) error {
	pairs := []struct {
		id       string
		subtype  domain.EquipmentSubtype
		operator string
		partner  string
	}{
		{mv.ContainerID, domain.EquipmentSubtypeContainer, mv.ContainerLine, mv.ChassisID},
		{mv.ChassisID, domain.EquipmentSubtypeChassis, mv.ChassisProvider, mv.ContainerID},
	}

	for _, p := range pairs {
		status, err := s.equipRepo.GetStatus(ctx, p.id)
		if errors.Is(err, domain.ErrEquipmentNotFound) {
			status = &domain.EquipmentStatus{
				EquipmentID:  p.id,
				Subtype:      p.subtype,
				OperatorCode: p.operator,
			}
		} else if err != nil {
			return err
		}

		partner := p.partner
		status.AssignedTo = &partner
		status.CustodyState = domain.CustodyStateOutWithCustomer
		status.LastStatusAt = now

		if err := s.equipRepo.SetStatus(ctx, status); err != nil {
			return err
		}
	}
	return nil
}

// releaseEquipment clears the pairing for both pieces of equipment and
// stamps their last custody end. Completion and cancellation release
// identically.
func (s *moveService) releaseEquipment(ctx context.Context, mv *domain.Move, now time.Time) error {
	for _, id := range []string{mv.ContainerID, mv.ChassisID} {
		status, err := s.equipRepo.GetStatus(ctx, id)
		if errors.Is(err, domain.ErrEquipmentNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		status.AssignedTo = nil
		status.CustodyState = domain.CustodyStateReturned
		status.LastStatusAt = now
		end := now
		status.LastCustodyEnd = &end

		if err := s.equipRepo.SetStatus(ctx, status); err != nil {
			return err
		}
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/repository"
)

type moveRepository struct {
	db *sql.DB
}

func NewMoveRepository(db *sql.DB) repository.MoveRepository {
	return &moveRepository{db: db}
}

const moveColumns = `id, job_id, container_id, chassis_id, chassis_provider, container_line, move_type,
	pickup_facility_type, pickup_name, pickup_address,
	delivery_facility_type, delivery_name, delivery_address,
	driver_name, driver_license_id, driver_vehicle_id,
	started_at, ended_at, container_free_days, chassis_free_days,
	container_perdiem_cents, chassis_rental_cents, port_fees_cents, fuel_surcharge_cents, total_cents,
	container_used_days, chassis_used_days, status, created_on, updated_on`

func (r *moveRepository) Create(ctx context.Context, mv *domain.Move) error {
	query := `INSERT INTO moves (` + moveColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	_, err := r.db.ExecContext(ctx, query,
		mv.ID, mv.JobID, mv.ContainerID, mv.ChassisID, mv.ChassisProvider, mv.ContainerLine, mv.MoveType,
		mv.PickupLocation.FacilityType, mv.PickupLocation.Name, mv.PickupLocation.Address,
		mv.DeliveryLocation.FacilityType, mv.DeliveryLocation.Name, mv.DeliveryLocation.Address,
		mv.Driver.Name, mv.Driver.LicenseID, mv.Driver.VehicleID,
		mv.StartedAt, mv.EndedAt, mv.ContainerFreeDays, mv.ChassisFreeDays,
		mv.Costs.ContainerPerDiemCents, mv.Costs.ChassisRentalCents, mv.Costs.PortFeesCents, mv.Costs.FuelSurchargeCents, mv.Costs.TotalCents,
		mv.ContainerUsedDays, mv.ChassisUsedDays, mv.Status, mv.CreatedOn, mv.UpdatedOn)
	return err
}

func (r *moveRepository) GetByID(ctx context.Context, id string) (*domain.Move, error) {
	query := `SELECT ` + moveColumns + ` FROM moves WHERE id = $1`
	mv, err := scanMove(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMoveNotFound
	}
	return mv, err
}

func (r *moveRepository) Update(ctx context.Context, mv *domain.Move) error {
	query := `UPDATE moves SET ended_at=$1, container_perdiem_cents=$2, chassis_rental_cents=$3, port_fees_cents=$4,
	          fuel_surcharge_cents=$5, total_cents=$6, container_used_days=$7, chassis_used_days=$8, status=$9, updated_on=$10
	          WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query,
		mv.EndedAt, mv.Costs.ContainerPerDiemCents, mv.Costs.ChassisRentalCents, mv.Costs.PortFeesCents,
		mv.Costs.FuelSurchargeCents, mv.Costs.TotalCents, mv.ContainerUsedDays, mv.ChassisUsedDays, mv.Status, time.Now(),
		mv.ID)
	return err
}

func (r *moveRepository) List(ctx context.Context, filter repository.MoveFilter) ([]domain.Move, error) {
	query := `SELECT ` + moveColumns + ` FROM moves WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.JobID != "" {
		query += fmt.Sprintf(" AND job_id = $%d", argIdx)
		args = append(args, filter.JobID)
		argIdx++
	}
	if filter.ContainerID != "" {
		query += fmt.Sprintf(" AND container_id = $%d", argIdx)
		args = append(args, filter.ContainerID)
		argIdx++
	}
	if filter.ChassisID != "" {
		query += fmt.Sprintf(" AND chassis_id = $%d", argIdx)
		args = append(args, filter.ChassisID)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND started_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND started_at <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}
	query += " ORDER BY created_on DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []domain.Move
	for rows.Next() {
		mv, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		moves = append(moves, *mv)
	}
	return moves, rows.Err()
}

func (r *moveRepository) FindActiveByEquipment(ctx context.Context, equipmentID string) (*domain.Move, error) {
	query := `SELECT ` + moveColumns + ` FROM moves
	          WHERE status = $1 AND (container_id = $2 OR chassis_id = $2) LIMIT 1`
	mv, err := scanMove(r.db.QueryRowContext(ctx, query, domain.MoveStatusActive, equipmentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return mv, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMove(row rowScanner) (*domain.Move, error) {
	mv := &domain.Move{}
	err := row.Scan(
		&mv.ID, &mv.JobID, &mv.ContainerID, &mv.ChassisID, &mv.ChassisProvider, &mv.ContainerLine, &mv.MoveType,
		&mv.PickupLocation.FacilityType, &mv.PickupLocation.Name, &mv.PickupLocation.Address,
		&mv.DeliveryLocation.FacilityType, &mv.DeliveryLocation.Name, &mv.DeliveryLocation.Address,
		&mv.Driver.Name, &mv.Driver.LicenseID, &mv.Driver.VehicleID,
		&mv.StartedAt, &mv.EndedAt, &mv.ContainerFreeDays, &mv.ChassisFreeDays,
		&mv.Costs.ContainerPerDiemCents, &mv.Costs.ChassisRentalCents, &mv.Costs.PortFeesCents, &mv.Costs.FuelSurchargeCents, &mv.Costs.TotalCents,
		&mv.ContainerUsedDays, &mv.ChassisUsedDays, &mv.Status, &mv.CreatedOn, &mv.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return mv, nil
}

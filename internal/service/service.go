package service

import (
	"context"
	"time"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/repository"
)

// CreateMoveRequest carries everything a dispatcher supplies when pairing a
// container with a chassis. Port fees are known up front and carried on the
// move; everything else about cost is computed at completion.
type CreateMoveRequest struct {
	JobID            string           `json:"job_id"`
	ContainerID      string           `json:"container_id"`
	ChassisID        string           `json:"chassis_id"`
	ChassisProvider  string           `json:"chassis_provider"`
	MoveType         domain.MoveType  `json:"move_type"`
	PickupLocation   domain.Location  `json:"pickup_location"`
	DeliveryLocation domain.Location  `json:"delivery_location"`
	Driver           domain.DriverRef `json:"driver"`
	PortFeesCents    int64            `json:"port_fees_cents"`
}

type MoveService interface {
	CreateMove(ctx context.Context, req CreateMoveRequest) (*domain.Move, error)
	CompleteMove(ctx context.Context, moveID string) (*domain.Move, error)
	CancelMove(ctx context.Context, moveID string) (*domain.Move, error)
	GetMove(ctx context.Context, moveID string) (*domain.Move, error)
	ListMoves(ctx context.Context, filter repository.MoveFilter) ([]domain.Move, error)
}

type BillingService interface {
	GetJobCostBreakdown(ctx context.Context, jobID string) (*domain.JobCostBreakdown, error)
}

type EquipmentService interface {
	PushEquipmentStatus(ctx context.Context, status *domain.EquipmentStatus) error
	GetEquipmentStatus(ctx context.Context, equipmentID string) (*domain.EquipmentStatus, error)
	CalculatePerDiem(ctx context.Context, equipmentID, operatorCode string, start time.Time, end *time.Time) (*domain.PerDiemResult, error)
}

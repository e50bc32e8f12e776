package repository

import (
	"context"
	"time"

	"draytrack-backend/internal/domain"
)

// MoveFilter narrows a move listing. Zero-valued fields are ignored.
type MoveFilter struct {
	ContainerID string
	ChassisID   string
	JobID       string
	Status      domain.MoveStatus
	From        *time.Time // moves started at or after
	To          *time.Time // moves started at or before
}

type MoveRepository interface {
	Create(ctx context.Context, mv *domain.Move) error
	// GetByID returns domain.ErrMoveNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*domain.Move, error)
	Update(ctx context.Context, mv *domain.Move) error
	List(ctx context.Context, filter MoveFilter) ([]domain.Move, error)
	// FindActiveByEquipment returns the active move referencing the id as
	// container or chassis, or (nil, nil) when the equipment is free.
	FindActiveByEquipment(ctx context.Context, equipmentID string) (*domain.Move, error)
}

type EquipmentStatusRepository interface {
	// GetStatus returns domain.ErrEquipmentNotFound for equipment the feed
	// has not reported yet. That is an expected outcome, not a fault.
	GetStatus(ctx context.Context, equipmentID string) (*domain.EquipmentStatus, error)
	// SetStatus upserts, last write wins per equipment id.
	SetStatus(ctx context.Context, status *domain.EquipmentStatus) error
}

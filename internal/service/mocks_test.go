package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/repository"
)

// MockMoveRepo
type MockMoveRepo struct {
	mock.Mock
}

func (m *MockMoveRepo) Create(ctx context.Context, mv *domain.Move) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}
func (m *MockMoveRepo) GetByID(ctx context.Context, id string) (*domain.Move, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Move), args.Error(1)
}
func (m *MockMoveRepo) Update(ctx context.Context, mv *domain.Move) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}
func (m *MockMoveRepo) List(ctx context.Context, filter repository.MoveFilter) ([]domain.Move, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Move), args.Error(1)
}
func (m *MockMoveRepo) FindActiveByEquipment(ctx context.Context, equipmentID string) (*domain.Move, error) {
	args := m.Called(ctx, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Move), args.Error(1)
}

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) GetStatus(ctx context.Context, equipmentID string) (*domain.EquipmentStatus, error) {
	args := m.Called(ctx, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentStatus), args.Error(1)
}
func (m *MockEquipmentRepo) SetStatus(ctx context.Context, status *domain.EquipmentStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

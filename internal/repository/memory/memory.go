// Package memory provides in-process implementations of the repositories,
// selected by config for local development and used by tests that need a
// real store rather than a mock.
package memory

import (
	"context"
	"sync"

	"draytrack-backend/internal/domain"
	"draytrack-backend/internal/repository"
)

type MoveStore struct {
	mu    sync.RWMutex
	moves map[string]domain.Move
	order []string
}

func NewMoveStore() *MoveStore {
	return &MoveStore{moves: make(map[string]domain.Move)}
}

func (s *MoveStore) Create(ctx context.Context, mv *domain.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves[mv.ID] = *mv
	s.order = append(s.order, mv.ID)
	return nil
}

func (s *MoveStore) GetByID(ctx context.Context, id string) (*domain.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mv, ok := s.moves[id]
	if !ok {
		return nil, domain.ErrMoveNotFound
	}
	return &mv, nil
}

func (s *MoveStore) Update(ctx context.Context, mv *domain.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moves[mv.ID]; !ok {
		return domain.ErrMoveNotFound
	}
	s.moves[mv.ID] = *mv
	return nil
}

func (s *MoveStore) List(ctx context.Context, filter repository.MoveFilter) ([]domain.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Move
	for _, id := range s.order {
		mv := s.moves[id]
		if matches(mv, filter) {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (s *MoveStore) FindActiveByEquipment(ctx context.Context, equipmentID string) (*domain.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mv := range s.moves {
		if mv.Status != domain.MoveStatusActive {
			continue
		}
		if mv.ContainerID == equipmentID || mv.ChassisID == equipmentID {
			found := mv
			return &found, nil
		}
	}
	return nil, nil
}

func matches(mv domain.Move, f repository.MoveFilter) bool {
	if f.JobID != "" && mv.JobID != f.JobID {
		return false
	}
	if f.ContainerID != "" && mv.ContainerID != f.ContainerID {
		return false
	}
	if f.ChassisID != "" && mv.ChassisID != f.ChassisID {
		return false
	}
	if f.Status != "" && mv.Status != f.Status {
		return false
	}
	if f.From != nil && mv.StartedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && mv.StartedAt.After(*f.To) {
		return false
	}
	return true
}

type EquipmentStatusStore struct {
	mu       sync.RWMutex
	statuses map[string]domain.EquipmentStatus
}

func NewEquipmentStatusStore() *EquipmentStatusStore {
	return &EquipmentStatusStore{statuses: make(map[string]domain.EquipmentStatus)}
}

func (s *EquipmentStatusStore) GetStatus(ctx context.Context, equipmentID string) (*domain.EquipmentStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[equipmentID]
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}
	return &status, nil
}

func (s *EquipmentStatusStore) SetStatus(ctx context.Context, status *domain.EquipmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.EquipmentID] = *status
	return nil
}

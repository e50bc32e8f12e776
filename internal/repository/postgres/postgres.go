package postgres

import (
	"database/sql"

	"draytrack-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.MoveRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:             db,
		MoveRepository: NewMoveRepository(db),
	}
}

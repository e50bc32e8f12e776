package domain

import "errors"

var (
	// ErrDuplicateCustodyAssignment means the container or chassis is already
	// paired in an active move. Never retried; the conflict needs external
	// resolution first.
	ErrDuplicateCustodyAssignment = errors.New("equipment already assigned to an active move")

	// ErrInvalidMoveState means a transition was attempted on a move that is
	// not ACTIVE. Indicates a caller-side sequencing bug; surfaced loudly
	// rather than silently recomputed.
	ErrInvalidMoveState = errors.New("move is not active")

	// ErrInvalidInput wraps request validation failures so transports can
	// distinguish caller mistakes from server faults.
	ErrInvalidInput = errors.New("invalid input")

	ErrMoveNotFound      = errors.New("move not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
)

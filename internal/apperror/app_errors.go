package apperror

import "errors"

var (
	ErrOutOfRange      = errors.New("position is out of range")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrCorruptSnapshot = errors.New("snapshot violates history invariants")
)

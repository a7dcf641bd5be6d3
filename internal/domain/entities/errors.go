package entities

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrValidation marks a rejected user-supplied value.
	ErrValidation = errors.New("validation failed")

	// ErrDataCorrupted marks a persisted record that cannot be interpreted.
	ErrDataCorrupted = errors.New("corrupted regimen data")
)

// ValidationError describes why a single field value was rejected.
type ValidationError struct {
	Field   RegimenField
	Message string // user-facing hint
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DataError reports a stored regimen field that cannot be used for computation.
type DataError struct {
	RegimenID uuid.UUID
	Field     RegimenField
	Err       error
}

func (e *DataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("regimen %s: bad %s", e.RegimenID, e.Field)
	}
	return fmt.Sprintf("regimen %s: bad %s: %v", e.RegimenID, e.Field, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Is(target error) bool {
	return target == ErrDataCorrupted
}

package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error taxonomy shared by the services, the HTTP boundary and the client
var (
	// ErrNotFound means a referenced entity (often a parent) does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEntry means a uniqueness rule or the coarse duplicate check rejected the write
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrValidation means the submitted data is malformed or incomplete
	ErrValidation = errors.New("validation error")
	// ErrInconsistent means conflict recovery found no row to fall back to
	ErrInconsistent = errors.New("inconsistent store state")
	// ErrServiceUnavailable means the store or the remote service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func duplicate(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDuplicateEntry)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// storeError translates a gorm error into the taxonomy. what names the entity for messages.
func storeError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate("%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return notFound("%s references a missing parent", what)
	default:
		return fmt.Errorf("%s: %v: %w", what, err, ErrServiceUnavailable)
	}
}

package gateway

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Error kinds crossing the gateway boundary. Handlers map these to HTTP
// status codes; nothing below this package panics across it. NotFound and
// AccessDenied are deliberately merged: an owner-scoped query that matches
// nothing reveals nothing about why.
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrNotFound     = errors.New("record not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrTransient    = errors.New("backend unavailable")
)

// validationError carries a field-level message while matching ErrValidation.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &validationError{msg: msg}
}

// AsValidation folds free-form errors from the wizard layer into the
// validation kind; errors already carrying a taxonomy kind pass through.
func AsValidation(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrAuthRequired, ErrNotFound, ErrValidation, ErrConflict, ErrTransient} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return &validationError{msg: err.Error()}
}

// translate folds database errors into the gateway taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505") {
		return ErrConflict
	}
	return errors.Join(ErrTransient, err)
}

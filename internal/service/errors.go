package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrSessionExpired    = errors.New("session expired: please sign in again")
	ErrProfileIncomplete = errors.New("profile incomplete: date of birth is required")
	ErrFutureBirthDate   = errors.New("date of birth cannot be in the future")
	ErrUnderage          = errors.New("you must be at least 13 years old to use mealwise")
	ErrEmptyMeal         = errors.New("meal has no food items")
	ErrMealNotFound      = errors.New("meal not found")
	ErrProfileNotFound   = errors.New("profile not found")
)

// ValidationError is raised locally before any collaborator is called.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

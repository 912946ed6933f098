package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyRated      = errors.New("already rated")
	ErrNotCompleted      = errors.New("service not completed")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

var (
	ErrServiceUnavailable   = fmt.Errorf("%w: Service no longer available", ErrConflict)
	ErrAlreadyRegistered    = fmt.Errorf("%w: Professional profile already exists", ErrConflict)
	ErrUserNotFound         = fmt.Errorf("%w: User not found", ErrNotFound)
	ErrServiceNotFound      = fmt.Errorf("%w: Service not found", ErrNotFound)
	ErrProfessionalNotFound = fmt.Errorf("%w: Professional not found", ErrNotFound)
	ErrAccountDisabled      = fmt.Errorf("%w: Account is disabled", ErrForbidden)
	ErrNotificationNotFound = fmt.Errorf("%w: Notification not found", ErrNotFound)
)

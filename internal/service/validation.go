package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/oni-auth/internal/validators"
)

// validationError translates a validator failure into the service
// validation sentinels, keeping the detail in the chain.
func validationError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, validators.ErrInvalidEmail):
		return fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	case errors.Is(err, validators.ErrEmptyPassword), errors.Is(err, validators.ErrPasswordTooShort):
		return fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
}

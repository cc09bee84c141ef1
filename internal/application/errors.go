// Package application contains use-case orchestration services.
package application

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by application services. Store-level not-found
// errors come from the driven port package and pass through unchanged.
var (
	// ErrValidation indicates the caller supplied invalid or incomplete input.
	ErrValidation = errors.New("validation failed")

	// ErrVerificationUnsupported indicates the account type cannot be checked
	// against its provider, or no verifier is configured.
	ErrVerificationUnsupported = errors.New("verification not supported")
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

package receipt

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the package wraps exactly one
// of these sentinels, so callers can classify failures with errors.Is.
var (
	// ErrConfiguration covers construction-time problems: unknown printer
	// model, unknown codepage or mapping, invalid column count, invalid
	// chunk size.
	ErrConfiguration = errors.New("configuration error")

	// ErrContext covers operations invoked in a state that forbids them:
	// top-level-only operations inside an embedded encoder, font changes
	// mid-line.
	ErrContext = errors.New("context error")

	// ErrValidation covers malformed caller input: image geometry, style
	// multipliers out of range, barcode/QR/PDF417 parameters.
	ErrValidation = errors.New("validation error")

	// ErrCapability covers operations the active printer does not support.
	// Under the default relaxed strictness these are logged and skipped
	// rather than surfaced.
	ErrCapability = errors.New("capability error")
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func contextErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrContext, fmt.Sprintf(format, args...))
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func capabilityErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCapability, fmt.Sprintf(format, args...))
}

package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrLoadFailed       = errors.New("dataset load failed")
	ErrSourceNotFound   = fmt.Errorf("%w: source not found", ErrLoadFailed)
	ErrSourceUnreadable = fmt.Errorf("%w: source unreadable", ErrLoadFailed)
	ErrEmptySource      = fmt.Errorf("%w: source has no header row", ErrLoadFailed)

	// Schema errors
	ErrSchemaMismatch = errors.New("expected columns missing")

	// Configuration errors
	ErrUnknownKind = errors.New("unknown test kind")
)

// NewSourceNotFoundError names the logical source and the path that was tried
func NewSourceNotFoundError(source, path string) error {
	return fmt.Errorf("%w: %s (%s)", ErrSourceNotFound, source, path)
}

// NewSourceUnreadableError wraps the underlying read/parse failure
func NewSourceUnreadableError(source, path string, err error) error {
	return fmt.Errorf("%w: %s (%s): %v", ErrSourceUnreadable, source, path, err)
}

// IsLoadError reports whether err stems from reading a source
func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoadFailed)
}

// IsSchemaError reports whether err is a missing-column failure
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

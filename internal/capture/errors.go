package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrTooSmall rejects selections below MinDimension.
	ErrTooSmall = errors.New("Capture size is too small")

	// ErrInvalidDimensions rejects selections that are not finite numbers.
	ErrInvalidDimensions = errors.New("Capture dimensions are invalid")

	// ErrDisplayNotFound is returned when the requested display is gone.
	ErrDisplayNotFound = errors.New("Display not found")

	// ErrSourceNotFound is returned when no capture source matches the display.
	ErrSourceNotFound = errors.New("Unable to locate screen source")
)

// Error is a failed capture as reported to the UI.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

func captureErr(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Reason: err.Error(), Err: err}
}

func wrapf(err error, format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}

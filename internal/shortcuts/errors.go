package shortcuts

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is matched by errors.Is for an unknown action name
	ErrInvalidAction = errors.New("unsupported shortcut action")

	// ErrEmptyValue is returned when the resolved binding is blank
	ErrEmptyValue = errors.New("Shortcut value cannot be empty")

	// ErrRegistrationFailed is matched by errors.Is when the OS refused a binding
	ErrRegistrationFailed = errors.New("failed to register shortcut")
)

// InvalidActionError names the rejected action
type InvalidActionError struct {
	Name string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("Unsupported shortcut action: %s", e.Name)
}

func (e *InvalidActionError) Is(target error) bool {
	return target == ErrInvalidAction
}

// RegistrationFailedError carries the binding the OS refused
type RegistrationFailedError struct {
	Action Action
	Value  string
}

func (e *RegistrationFailedError) Error() string {
	return fmt.Sprintf("Failed to register shortcut: %s", e.Value)
}

func (e *RegistrationFailedError) Is(target error) bool {
	return target == ErrRegistrationFailed
}

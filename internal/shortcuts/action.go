package shortcuts

import (
	"fmt"
	"runtime"
)

// Action is a logical operation that can be bound to a global hotkey
type Action string

const (
	MoveUp           Action = "moveUp"
	MoveDown         Action = "moveDown"
	MoveLeft         Action = "moveLeft"
	MoveRight        Action = "moveRight"
	ToggleVisibility Action = "toggleVisibility"
	Screenshot       Action = "screenshot"
)

// Actions lists every action in registration order
var Actions = []Action{MoveUp, MoveDown, MoveLeft, MoveRight, ToggleVisibility, Screenshot}

// IsMovement reports whether the action moves the main window
func (a Action) IsMovement() bool {
	switch a {
	case MoveUp, MoveDown, MoveLeft, MoveRight:
		return true
	}
	return false
}

// Valid reports whether a is a known action
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAction converts a raw action name into an Action
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if !a.Valid() {
		return "", &InvalidActionError{Name: name}
	}
	return a, nil
}

// Defaults returns the built-in bindings for the running platform
func Defaults() map[Action]string {
	return defaultsFor(runtime.GOOS)
}

func defaultsFor(goos string) map[Action]string {
	mod := "Ctrl"
	if goos == "darwin" {
		mod = "Cmd"
	}
	return map[Action]string{
		MoveUp:           mod + "+Up",
		MoveDown:         mod + "+Down",
		MoveLeft:         mod + "+Left",
		MoveRight:        mod + "+Right",
		ToggleVisibility: mod + "+Space",
		Screenshot:       fmt.Sprintf("%s+Shift+S", mod),
	}
}

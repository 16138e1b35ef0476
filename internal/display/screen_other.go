//go:build !windows

package display

import "errors"

var errCursorUnsupported = errors.New("cursor position not available on this platform")

// describe keeps work area equal to bounds and scale at 1.
func describe(*Target) {}

func cursorPoint() (Point, error) {
	return Point{}, errCursorUnsupported
}

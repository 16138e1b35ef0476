// Package display models the monitors attached to the machine and answers
// "which display is this point on" questions. Displays are enumerated fresh on
// every call; nothing is cached.
package display

import (
	"errors"
	"math"
)

// ErrNoDisplays is returned when the OS reports no active displays.
var ErrNoDisplays = errors.New("no displays available")

// Point is a position in virtual-desktop logical pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned rectangle in logical pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// distanceSquared is zero for points inside r.
func (r Rect) distanceSquared(p Point) int {
	dx := 0
	if p.X < r.X {
		dx = r.X - p.X
	} else if p.X >= r.X+r.Width {
		dx = p.X - (r.X + r.Width - 1)
	}
	dy := 0
	if p.Y < r.Y {
		dy = r.Y - p.Y
	} else if p.Y >= r.Y+r.Height {
		dy = p.Y - (r.Y + r.Height - 1)
	}
	return dx*dx + dy*dy
}

// Target is one display as seen by the window and capture code.
type Target struct {
	ID          string  `json:"id"`
	Index       int     `json:"index"`
	Bounds      Rect    `json:"bounds"`
	WorkArea    Rect    `json:"workArea"`
	ScaleFactor float64 `json:"scaleFactor"`
}

// Scale returns the scale factor, treating non-positive values as 1.
func (t Target) Scale() float64 {
	if t.ScaleFactor <= 0 || math.IsNaN(t.ScaleFactor) {
		return 1
	}
	return t.ScaleFactor
}

// Provider enumerates displays and the pointer position.
type Provider interface {
	Displays() ([]Target, error)
	CursorPoint() (Point, error)
}

// Nearest returns the display whose bounds contain p, or failing that the one
// closest to it.
func Nearest(displays []Target, p Point) (Target, error) {
	if len(displays) == 0 {
		return Target{}, ErrNoDisplays
	}
	best := displays[0]
	bestDist := best.Bounds.distanceSquared(p)
	for _, d := range displays[1:] {
		if dist := d.Bounds.distanceSquared(p); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best, nil
}

// ByID finds a display by its identifier.
func ByID(displays []Target, id string) (Target, bool) {
	for _, d := range displays {
		if d.ID == id {
			return d, true
		}
	}
	return Target{}, false
}

// NearestTo queries p's display from provider.
func NearestTo(provider Provider, p Point) (Target, error) {
	displays, err := provider.Displays()
	if err != nil {
		return Target{}, err
	}
	return Nearest(displays, p)
}

// UnderCursor returns the display under the pointer. If the pointer position
// cannot be read, the first display is used.
func UnderCursor(provider Provider) (Target, error) {
	displays, err := provider.Displays()
	if err != nil {
		return Target{}, err
	}
	if len(displays) == 0 {
		return Target{}, ErrNoDisplays
	}
	p, err := provider.CursorPoint()
	if err != nil {
		return displays[0], nil
	}
	return Nearest(displays, p)
}

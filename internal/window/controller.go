// Package window places the floating bar: keyboard moves bounded by the
// display work area, free-form drags, content-driven height and visibility.
package window

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"sunless-desktop/internal/display"
	"sunless-desktop/internal/ipc"
)

// MinHeight is the smallest height the bar may be resized to.
const MinHeight = 60

// moveFraction of the smaller work-area side is travelled per keyboard move.
const moveFraction = 0.10

// Direction of a keyboard move.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Window is the native window the controller drives.
type Window interface {
	Position() (x, y int)
	SetPosition(x, y int)
	Size() (width, height int)
	SetSize(width, height int)
	IsVisible() bool
	Show()
	Hide()
	Focus()
	SetIgnoreMouseEvents(ignore bool)
}

// Controller applies move, drag, resize and visibility operations to the main window.
type Controller struct {
	win      Window
	displays display.Provider
	events   ipc.Publisher
	log      logrus.FieldLogger

	mu        sync.Mutex
	listeners []func(visible bool)
}

// NewController creates a controller for win.
func NewController(win Window, displays display.Provider, events ipc.Publisher, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		win:      win,
		displays: displays,
		events:   events,
		log:      log,
	}
}

// OnVisibilityChange registers fn to run after every Show or Hide.
func (c *Controller) OnVisibilityChange(fn func(visible bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Move shifts the window one step in dir, clamped to the work area of the
// display nearest its top-left corner. Hidden windows are left alone.
func (c *Controller) Move(dir Direction) error {
	if !c.win.IsVisible() {
		return nil
	}

	x, y := c.win.Position()
	w, h := c.win.Size()

	target, err := display.NearestTo(c.displays, display.Point{X: x, Y: y})
	if err != nil {
		return err
	}
	area := target.WorkArea
	step := Increment(area)

	switch dir {
	case Up:
		y -= step
	case Down:
		y += step
	case Left:
		x -= step
	case Right:
		x += step
	}

	nx := clamp(x, area.X, area.X+area.Width-w)
	ny := clamp(y, area.Y, area.Y+area.Height-h)
	c.win.SetPosition(nx, ny)

	c.log.WithFields(logrus.Fields{
		"direction": dir,
		"display":   target.ID,
		"x":         nx,
		"y":         ny,
	}).Debug("Window moved")
	return nil
}

// Increment is the distance of one keyboard move within area.
func Increment(area display.Rect) int {
	side := area.Width
	if area.Height < side {
		side = area.Height
	}
	return int(math.Floor(float64(side) * moveFraction))
}

// clamp keeps v in [lo, hi]. A window larger than the area is pinned to lo.
func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DragStart records where inside the window the pointer grabbed it and
// publishes the offset for the following DragMove calls.
func (c *Controller) DragStart(pointerX, pointerY int) ipc.DragOffset {
	x, y := c.win.Position()
	offset := ipc.DragOffset{X: pointerX - x, Y: pointerY - y}
	if c.events != nil {
		c.events.Publish(ipc.EventDragOffset, offset)
	}
	return offset
}

// DragMove places the window so the grab point follows the pointer.
func (c *Controller) DragMove(pointerX, pointerY, offsetX, offsetY int) {
	c.win.SetPosition(pointerX-offsetX, pointerY-offsetY)
}

// SetHeight resizes to the requested content height, never below MinHeight,
// keeping the top-left corner where it is.
func (c *Controller) SetHeight(height float64) {
	if math.IsNaN(height) || math.IsInf(height, 0) {
		return
	}
	next := int(math.Round(height))
	if next < MinHeight {
		next = MinHeight
	}

	w, current := c.win.Size()
	if next == current {
		return
	}
	x, y := c.win.Position()
	c.win.SetSize(w, next)
	c.win.SetPosition(x, y)
}

// SetIgnoreMouseEvents makes the window click-through or solid.
func (c *Controller) SetIgnoreMouseEvents(ignore bool) {
	c.win.SetIgnoreMouseEvents(ignore)
}

// IsVisible reports whether the main window is showing.
func (c *Controller) IsVisible() bool {
	return c.win.IsVisible()
}

// Toggle hides a visible window and shows a hidden one.
func (c *Controller) Toggle() {
	if c.win.IsVisible() {
		c.Hide()
		return
	}
	c.Show()
}

// Show brings the window up, focuses it and asks the UI to focus its input.
func (c *Controller) Show() {
	c.win.Show()
	c.win.Focus()
	if c.events != nil {
		c.events.Publish(ipc.EventFocusInput, nil)
	}
	c.notify(true)
}

// Hide hides the window.
func (c *Controller) Hide() {
	c.win.Hide()
	c.notify(false)
}

func (c *Controller) notify(visible bool) {
	c.mu.Lock()
	listeners := make([]func(bool), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(visible)
	}
}

// Bounds returns the current window geometry.
func (c *Controller) Bounds() display.Rect {
	x, y := c.win.Position()
	w, h := c.win.Size()
	return display.Rect{X: x, Y: y, Width: w, Height: h}
}

// Place restores a saved geometry, pulled back inside the work area of the
// nearest display in case that display has gone away.
func (c *Controller) Place(r display.Rect) error {
	target, err := display.NearestTo(c.displays, display.Point{X: r.X, Y: r.Y})
	if err != nil {
		return err
	}
	area := target.WorkArea

	w, h := r.Width, r.Height
	if h < MinHeight {
		h = MinHeight
	}
	if w > 0 {
		c.win.SetSize(w, h)
	} else {
		w, h = c.win.Size()
	}
	c.win.SetPosition(
		clamp(r.X, area.X, area.X+area.Width-w),
		clamp(r.Y, area.Y, area.Y+area.Height-h),
	)
	return nil
}

package capture

import (
	"image"
	"math"
)

// MinDimension is the smallest selection side, in logical pixels, that is
// submitted for capture. Anything smaller is treated as a cancelled drag.
const MinDimension = 5

// PrimaryButton is the only pointer button that draws a selection.
const PrimaryButton = 0

// Selection is a rectangle in logical (UI) pixels.
type Selection struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Usable reports whether both sides reach MinDimension.
func (s Selection) Usable() bool {
	return s.Width >= MinDimension && s.Height >= MinDimension
}

// Tracker follows a primary-button drag and produces the selected rectangle.
type Tracker struct {
	active bool
	anchor [2]float64
	sel    Selection
}

// Begin anchors a new selection at (x, y).
func (t *Tracker) Begin(x, y float64) {
	t.active = true
	t.anchor = [2]float64{x, y}
	t.sel = Selection{X: x, Y: y}
}

// Update stretches the selection to (x, y).
func (t *Tracker) Update(x, y float64) {
	if !t.active {
		return
	}
	t.sel = Selection{
		X:      math.Min(t.anchor[0], x),
		Y:      math.Min(t.anchor[1], y),
		Width:  math.Abs(x - t.anchor[0]),
		Height: math.Abs(y - t.anchor[1]),
	}
}

// End finishes the drag at (x, y). ok is false when no drag was in progress.
func (t *Tracker) End(x, y float64) (sel Selection, ok bool) {
	if !t.active {
		return Selection{}, false
	}
	t.Update(x, y)
	sel = t.sel
	t.Reset()
	return sel, true
}

// Active reports whether a drag is in progress.
func (t *Tracker) Active() bool {
	return t.active
}

// Current returns the selection so far.
func (t *Tracker) Current() Selection {
	return t.sel
}

// Reset drops any selection in progress.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

// Finite reports whether every field is a finite number.
func (s Selection) Finite() bool {
	for _, v := range []float64{s.X, s.Y, s.Width, s.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CropRect converts a logical selection into a device-pixel rectangle that
// lies entirely inside a thumbW×thumbH source image. Bounds are clamped
// before conversion to int so oversized inputs cannot overflow.
func CropRect(sel Selection, scale float64, thumbW, thumbH int) (image.Rectangle, error) {
	if thumbW <= 0 || thumbH <= 0 {
		return image.Rectangle{}, &Error{Reason: "Captured image is empty"}
	}
	if !sel.Finite() {
		return image.Rectangle{}, &Error{Reason: ErrInvalidDimensions.Error(), Err: ErrInvalidDimensions}
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}

	w := math.Round(sel.Width * scale)
	h := math.Round(sel.Height * scale)
	if !(w > 0) || !(h > 0) {
		return image.Rectangle{}, &Error{Reason: ErrTooSmall.Error(), Err: ErrTooSmall}
	}

	maxX, maxY := float64(thumbW), float64(thumbH)
	x := math.Min(nonNegative(math.Round(sel.X*scale)), maxX-1)
	y := math.Min(nonNegative(math.Round(sel.Y*scale)), maxY-1)
	w = math.Max(1, math.Min(w, maxX-x))
	h = math.Max(1, math.Min(h, maxY-y))

	cx, cy := int(x), int(y)
	return image.Rect(cx, cy, cx+int(w), cy+int(h)), nil
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

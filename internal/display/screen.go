package display

import (
	"fmt"
	"image"
	"strconv"

	"github.com/kbinani/screenshot"
)

// ScreenProvider enumerates displays through kbinani/screenshot. Work areas,
// scale factors and the cursor position come from platform hooks.
type ScreenProvider struct{}

// NewScreenProvider returns the OS-backed provider.
func NewScreenProvider() *ScreenProvider {
	return &ScreenProvider{}
}

// Displays returns the active displays, primary first.
func (p *ScreenProvider) Displays() ([]Target, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoDisplays
	}
	out := make([]Target, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		t := Target{
			ID:          strconv.Itoa(i),
			Index:       i,
			Bounds:      fromImageRect(bounds),
			ScaleFactor: 1,
		}
		t.WorkArea = t.Bounds
		describe(&t)
		out = append(out, t)
	}
	return out, nil
}

// CursorPoint returns the pointer position in virtual-desktop coordinates.
func (p *ScreenProvider) CursorPoint() (Point, error) {
	pt, err := cursorPoint()
	if err != nil {
		return Point{}, fmt.Errorf("read cursor position: %w", err)
	}
	return pt, nil
}

func fromImageRect(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

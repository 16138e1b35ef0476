package capture

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	var tr Tracker
	tr.Update(10, 10)
	assert.False(t, tr.Active())

	tr.Begin(100, 80)
	tr.Update(40, 120)
	assert.Equal(t, Selection{X: 40, Y: 80, Width: 60, Height: 40}, tr.Current())

	sel, ok := tr.End(160, 20)
	require.True(t, ok)
	assert.Equal(t, Selection{X: 100, Y: 20, Width: 60, Height: 60}, sel)
	assert.False(t, tr.Active())

	_, ok = tr.End(0, 0)
	assert.False(t, ok)
}

func TestSelectionUsable(t *testing.T) {
	assert.True(t, Selection{Width: 5, Height: 5}.Usable())
	assert.False(t, Selection{Width: 4.9, Height: 50}.Usable())
	assert.False(t, Selection{Width: 50, Height: 0}.Usable())
}

func TestCropRect(t *testing.T) {
	tests := []struct {
		name   string
		sel    Selection
		scale  float64
		thumbW int
		thumbH int
		want   image.Rectangle
	}{
		{
			name: "identity", sel: Selection{X: 10, Y: 20, Width: 30, Height: 40},
			scale: 1, thumbW: 100, thumbH: 100, want: image.Rect(10, 20, 40, 60),
		},
		{
			name: "scaled", sel: Selection{X: 10, Y: 20, Width: 30, Height: 40},
			scale: 2, thumbW: 400, thumbH: 400, want: image.Rect(20, 40, 80, 120),
		},
		{
			name: "fractional scale rounds", sel: Selection{X: 3, Y: 3, Width: 7, Height: 7},
			scale: 1.25, thumbW: 100, thumbH: 100, want: image.Rect(4, 4, 13, 13),
		},
		{
			name: "negative origin clamps to zero", sel: Selection{X: -10, Y: -5, Width: 20, Height: 20},
			scale: 1, thumbW: 100, thumbH: 100, want: image.Rect(0, 0, 20, 20),
		},
		{
			name: "overflow clamps to thumbnail", sel: Selection{X: 90, Y: 80, Width: 50, Height: 50},
			scale: 1, thumbW: 100, thumbH: 100, want: image.Rect(90, 80, 100, 100),
		},
		{
			name: "origin past thumbnail", sel: Selection{X: 500, Y: 500, Width: 10, Height: 10},
			scale: 1, thumbW: 100, thumbH: 100, want: image.Rect(99, 99, 100, 100),
		},
		{
			name: "zero scale means one", sel: Selection{X: 1, Y: 1, Width: 10, Height: 10},
			scale: 0, thumbW: 100, thumbH: 100, want: image.Rect(1, 1, 11, 11),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CropRect(tc.sel, tc.scale, tc.thumbW, tc.thumbH)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCropRect_AlwaysInsideThumbnail(t *testing.T) {
	const thumbW, thumbH = 320, 200
	for _, scale := range []float64{0.5, 1, 1.25, 1.5, 2, 3} {
		for x := -50.0; x <= 400; x += 37 {
			for w := 1.0; w <= 500; w += 61 {
				sel := Selection{X: x, Y: x / 2, Width: w, Height: w / 2}
				r, err := CropRect(sel, scale, thumbW, thumbH)
				if err != nil {
					continue
				}
				assert.GreaterOrEqual(t, r.Min.X, 0)
				assert.GreaterOrEqual(t, r.Min.Y, 0)
				assert.LessOrEqual(t, r.Max.X, thumbW, "sel=%+v scale=%v", sel, scale)
				assert.LessOrEqual(t, r.Max.Y, thumbH, "sel=%+v scale=%v", sel, scale)
				assert.Positive(t, r.Dx())
				assert.Positive(t, r.Dy())
			}
		}
	}

	oversized := []struct {
		sel   Selection
		scale float64
	}{
		{Selection{X: 1e300, Y: 10, Width: 50, Height: 50}, 1},
		{Selection{X: 1e19, Y: 1e19, Width: 50, Height: 50}, 1},
		{Selection{X: 10, Y: 10, Width: 1e300, Height: 1e300}, 1},
		{Selection{X: -1e300, Y: -1e300, Width: 1e300, Height: 20}, 1},
		{Selection{X: 10, Y: 10, Width: 20, Height: 20}, 1e300},
		{Selection{X: 10, Y: 10, Width: 20, Height: 20}, math.Inf(1)},
	}
	for _, tc := range oversized {
		r, err := CropRect(tc.sel, tc.scale, thumbW, thumbH)
		require.NoError(t, err, "sel=%+v scale=%v", tc.sel, tc.scale)
		assert.GreaterOrEqual(t, r.Min.X, 0, "sel=%+v", tc.sel)
		assert.GreaterOrEqual(t, r.Min.Y, 0, "sel=%+v", tc.sel)
		assert.LessOrEqual(t, r.Max.X, thumbW, "sel=%+v", tc.sel)
		assert.LessOrEqual(t, r.Max.Y, thumbH, "sel=%+v", tc.sel)
		assert.Positive(t, r.Dx())
		assert.Positive(t, r.Dy())
	}
}

func TestCropRect_Errors(t *testing.T) {
	_, err := CropRect(Selection{Width: 0, Height: 10}, 1, 100, 100)
	assert.True(t, errors.Is(err, ErrTooSmall))
	assert.EqualError(t, err, "Capture size is too small")

	_, err = CropRect(Selection{Width: 0.2, Height: 10}, 1, 100, 100)
	assert.ErrorIs(t, err, ErrTooSmall)

	_, err = CropRect(Selection{Width: 10, Height: 10}, 1, 0, 100)
	assert.Error(t, err)

	for _, sel := range []Selection{
		{Width: math.Inf(1), Height: 10},
		{Width: 10, Height: math.Inf(-1)},
		{X: math.NaN(), Width: 10, Height: 10},
		{Y: math.Inf(1), Width: 10, Height: 10},
	} {
		_, err = CropRect(sel, 1, 100, 100)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "sel=%+v", sel)
	}
}

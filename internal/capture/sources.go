package capture

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/kbinani/screenshot"
	"golang.org/x/image/draw"
)

// Source is one capturable screen.
type Source struct {
	// ID is a composite identifier such as "screen:1:0".
	ID        string
	DisplayID string
	Name      string

	thumbnail func() (image.Image, error)
}

// NewSource builds a source whose thumbnail is produced by grab on demand.
func NewSource(id, displayID, name string, grab func() (image.Image, error)) Source {
	return Source{ID: id, DisplayID: displayID, Name: name, thumbnail: grab}
}

// Thumbnail returns the source image at the size requested from the lister.
func (s Source) Thumbnail() (image.Image, error) {
	if s.thumbnail == nil {
		return nil, fmt.Errorf("source %s has no thumbnail", s.ID)
	}
	return s.thumbnail()
}

// SourceLister enumerates capture sources with thumbnails of the given size.
type SourceLister interface {
	Sources(ctx context.Context, thumbW, thumbH int) ([]Source, error)
}

// MatchSource picks the source for displayID: an exact display id match
// first, then any ':'-separated segment of the composite source id.
func MatchSource(sources []Source, displayID string) (Source, bool) {
	for _, s := range sources {
		if s.DisplayID != "" && s.DisplayID == displayID {
			return s, true
		}
	}
	for _, s := range sources {
		for _, part := range strings.Split(s.ID, ":") {
			if part == displayID {
				return s, true
			}
		}
	}
	return Source{}, false
}

// ScreenSources captures displays with kbinani/screenshot.
type ScreenSources struct{}

// Sources lists one source per active display. Pixels are grabbed lazily when
// a thumbnail is requested.
func (ScreenSources) Sources(ctx context.Context, thumbW, thumbH int) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	out := make([]Source, 0, n)
	for i := 0; i < n; i++ {
		index := i
		id := strconv.Itoa(index)
		out = append(out, NewSource(
			fmt.Sprintf("screen:%d:0", index),
			id,
			fmt.Sprintf("Screen %d", index+1),
			func() (image.Image, error) {
				img, err := screenshot.CaptureDisplay(index)
				if err != nil {
					return nil, fmt.Errorf("capture display %d: %w", index, err)
				}
				return resize(img, thumbW, thumbH), nil
			},
		))
	}
	return out, nil
}

// resize scales img to w×h unless it already has that size.
func resize(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() == w && b.Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// crop copies r out of img into a new image anchored at the origin.
func crop(img image.Image, r image.Rectangle) *image.RGBA {
	b := img.Bounds()
	src := r.Add(b.Min)
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	return dst
}

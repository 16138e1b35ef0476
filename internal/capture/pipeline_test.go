package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunless-desktop/internal/display"
	"sunless-desktop/internal/ipc"
)

type stubDisplays struct {
	targets []display.Target
	cursor  display.Point
}

func (s stubDisplays) Displays() ([]display.Target, error) { return s.targets, nil }

func (s stubDisplays) CursorPoint() (display.Point, error) { return s.cursor, nil }

type stubSources struct {
	sources      []Source
	err          error
	thumbW       int
	thumbH       int
	requestCount int
}

func (s *stubSources) Sources(_ context.Context, w, h int) ([]Source, error) {
	s.requestCount++
	s.thumbW, s.thumbH = w, h
	return s.sources, s.err
}

type stubClipboard struct {
	writes [][]byte
	err    error
}

func (c *stubClipboard) WriteImage(png []byte) error {
	c.writes = append(c.writes, png)
	return c.err
}

type stubOverlay struct {
	focused int
	closed  int
}

func (o *stubOverlay) Focus() { o.focused++ }

func (o *stubOverlay) Close() error {
	o.closed++
	return nil
}

type stubOpener struct {
	opened  []display.Target
	overlay *stubOverlay
	err     error
}

func (s *stubOpener) OpenOverlay(_ string, target display.Target) (Overlay, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.opened = append(s.opened, target)
	s.overlay = &stubOverlay{}
	return s.overlay, nil
}

type stubMain struct {
	visible bool
	shows   int
	hides   int
}

func (m *stubMain) IsVisible() bool { return m.visible }

func (m *stubMain) Hide() {
	m.visible = false
	m.hides++
}

func (m *stubMain) Show() {
	m.visible = true
	m.shows++
}

type events struct {
	published []string
	payloads  []any
}

func (e *events) Publish(channel string, payload any) {
	e.published = append(e.published, channel)
	e.payloads = append(e.payloads, payload)
}

var (
	leftDisplay = display.Target{
		ID: "0", Bounds: display.Rect{Width: 100, Height: 80},
		WorkArea: display.Rect{Width: 100, Height: 80}, ScaleFactor: 1,
	}
	rightDisplay = display.Target{
		ID: "1", Index: 1, Bounds: display.Rect{X: 100, Width: 100, Height: 80},
		WorkArea: display.Rect{X: 100, Width: 100, Height: 80}, ScaleFactor: 2,
	}
)

type fixture struct {
	pipeline  *Pipeline
	sources   *stubSources
	clipboard *stubClipboard
	opener    *stubOpener
	main      *stubMain
	events    *events
}

func solid(w, h int) func() (image.Image, error) {
	return func() (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Set(x, y, color.RGBA{B: 200, A: 255})
			}
		}
		return img, nil
	}
}

func newFixture(cursor display.Point, mainVisible bool) *fixture {
	f := &fixture{
		sources: &stubSources{sources: []Source{
			NewSource("screen:0:0", "0", "Screen 1", solid(100, 80)),
			NewSource("screen:1:0", "", "Screen 2", solid(200, 160)),
		}},
		clipboard: &stubClipboard{},
		opener:    &stubOpener{},
		main:      &stubMain{visible: mainVisible},
		events:    &events{},
	}
	f.pipeline = NewPipeline(Deps{
		Displays:  stubDisplays{targets: []display.Target{leftDisplay, rightDisplay}, cursor: cursor},
		Sources:   f.sources,
		Clipboard: f.clipboard,
		Overlays:  f.opener,
		Main:      f.main,
		Events:    f.events,
	})
	return f
}

func TestPipeline_StartOpensOverlayOnCursorDisplay(t *testing.T) {
	f := newFixture(display.Point{X: 150, Y: 10}, true)

	session, err := f.pipeline.Start()
	require.NoError(t, err)

	assert.Equal(t, "1", session.Display.ID)
	assert.NotEmpty(t, session.ID)
	require.Len(t, f.opener.opened, 1)
	assert.Equal(t, rightDisplay, f.opener.opened[0])
	assert.Equal(t, OverlayOpen, f.pipeline.State())
	assert.False(t, f.main.visible)
}

func TestPipeline_StartTwiceFocusesExisting(t *testing.T) {
	f := newFixture(display.Point{}, false)

	first, err := f.pipeline.Start()
	require.NoError(t, err)
	second, err := f.pipeline.Start()
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.opener.opened, 1)
	assert.Equal(t, 1, f.opener.overlay.focused)
}

func TestPipeline_StartFailureRestoresMain(t *testing.T) {
	f := newFixture(display.Point{}, true)
	f.opener.err = errors.New("no window")

	_, err := f.pipeline.Start()
	require.Error(t, err)

	assert.True(t, f.main.visible)
	assert.Equal(t, Idle, f.pipeline.State())
}

func TestPipeline_CloseRestoresMainOnlyIfHidden(t *testing.T) {
	t.Run("was visible", func(t *testing.T) {
		f := newFixture(display.Point{}, true)
		_, err := f.pipeline.Start()
		require.NoError(t, err)

		f.pipeline.Close()

		assert.True(t, f.main.visible)
		assert.Equal(t, 1, f.main.shows)
		assert.Equal(t, 1, f.opener.overlay.closed)
		assert.Equal(t, Idle, f.pipeline.State())

		f.pipeline.Close()
		assert.Equal(t, 1, f.main.shows, "second close must not show again")
	})

	t.Run("was hidden", func(t *testing.T) {
		f := newFixture(display.Point{}, false)
		_, err := f.pipeline.Start()
		require.NoError(t, err)

		f.pipeline.Cancel()

		assert.False(t, f.main.visible)
		assert.Zero(t, f.main.shows)
		assert.Equal(t, 1, f.opener.overlay.closed)
	})
}

func TestPipeline_CancelWhenIdleIsNoop(t *testing.T) {
	f := newFixture(display.Point{}, true)

	f.pipeline.Cancel()
	f.pipeline.Close()

	assert.Equal(t, Idle, f.pipeline.State())
	assert.Zero(t, f.main.shows)
}

func TestPipeline_CaptureSuccess(t *testing.T) {
	f := newFixture(display.Point{X: 10, Y: 10}, true)
	_, err := f.pipeline.Start()
	require.NoError(t, err)

	res, err := f.pipeline.Capture(context.Background(), Request{
		DisplayID: "0", X: 10, Y: 10, Width: 20, Height: 15, ScaleFactor: 1,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.DataURL, "data:image/png;base64,"))
	require.Len(t, f.clipboard.writes, 1)
	assert.Equal(t, DataURL("image/png", f.clipboard.writes[0]), res.DataURL)

	require.Equal(t, []string{ipc.EventScreenshotResult}, f.events.published)
	assert.Equal(t, ipc.ScreenshotResult{DataURL: res.DataURL}, f.events.payloads[0])

	assert.Equal(t, 1, f.opener.overlay.closed)
	assert.True(t, f.main.visible)
	assert.Equal(t, Idle, f.pipeline.State())
}

func TestPipeline_CaptureUsesDisplayScaleForThumbnail(t *testing.T) {
	f := newFixture(display.Point{}, false)

	_, err := f.pipeline.Capture(context.Background(), Request{
		DisplayID: "1", X: 0, Y: 0, Width: 50, Height: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 200, f.sources.thumbW)
	assert.Equal(t, 160, f.sources.thumbH)
}

func TestPipeline_CaptureErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		setup   func(f *fixture)
		wantErr error
		wantMsg string
	}{
		{
			name:    "zero width",
			req:     Request{DisplayID: "0", Width: 0, Height: 20},
			wantErr: ErrTooSmall,
			wantMsg: "Capture size is too small",
		},
		{
			name:    "below threshold",
			req:     Request{DisplayID: "0", Width: 4, Height: 20},
			wantErr: ErrTooSmall,
		},
		{
			name:    "infinite width",
			req:     Request{DisplayID: "0", Width: math.Inf(1), Height: 20},
			wantErr: ErrInvalidDimensions,
			wantMsg: "Capture dimensions are invalid",
		},
		{
			name:    "infinite origin",
			req:     Request{DisplayID: "0", X: math.Inf(-1), Width: 20, Height: 20},
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "unknown display",
			req:     Request{DisplayID: "9", Width: 20, Height: 20},
			wantErr: ErrDisplayNotFound,
		},
		{
			name: "no matching source",
			req:  Request{DisplayID: "0", Width: 20, Height: 20},
			setup: func(f *fixture) {
				f.sources.sources = []Source{NewSource("window:7:3", "7", "", solid(10, 10))}
			},
			wantErr: ErrSourceNotFound,
		},
		{
			name: "lister failure",
			req:  Request{DisplayID: "0", Width: 20, Height: 20},
			setup: func(f *fixture) {
				f.sources.err = errors.New("permission denied")
			},
			wantMsg: "Unable to capture screen: permission denied",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(display.Point{}, true)
			if tc.setup != nil {
				tc.setup(f)
			}
			_, err := f.pipeline.Start()
			require.NoError(t, err)

			_, err = f.pipeline.Capture(context.Background(), tc.req)
			require.Error(t, err)

			var ce *Error
			assert.ErrorAs(t, err, &ce)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.wantMsg != "" {
				assert.EqualError(t, err, tc.wantMsg)
			}

			assert.Empty(t, f.events.published)
			assert.Empty(t, f.clipboard.writes)
			assert.Equal(t, 1, f.opener.overlay.closed)
			assert.True(t, f.main.visible)
			assert.Equal(t, Idle, f.pipeline.State())
		})
	}
}

func TestPipeline_CaptureOversizedSelectionStaysInBounds(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "huge width", req: Request{DisplayID: "0", X: 10, Y: 10, Width: 1e300, Height: 20, ScaleFactor: 1}},
		{name: "huge origin", req: Request{DisplayID: "0", X: 1e19, Y: 10, Width: 50, Height: 50, ScaleFactor: 1}},
		{name: "huge scale", req: Request{DisplayID: "0", X: 10, Y: 10, Width: 20, Height: 20, ScaleFactor: 1e300}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(display.Point{}, true)
			_, err := f.pipeline.Start()
			require.NoError(t, err)

			res, err := f.pipeline.Capture(context.Background(), tc.req)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(res.DataURL, "data:image/png;base64,"))

			assert.Equal(t, 1, f.opener.overlay.closed)
			assert.True(t, f.main.visible)
			assert.Equal(t, Idle, f.pipeline.State())
		})
	}
}

func TestPipeline_CapturePanicStillClosesOverlay(t *testing.T) {
	f := newFixture(display.Point{}, true)
	f.sources.sources = []Source{NewSource("screen:0:0", "0", "Screen 1", func() (image.Image, error) {
		panic("grab failed")
	})}
	_, err := f.pipeline.Start()
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = f.pipeline.Capture(context.Background(), Request{DisplayID: "0", Width: 20, Height: 20})
	})

	assert.Equal(t, 1, f.opener.overlay.closed)
	assert.True(t, f.main.visible)
	assert.Equal(t, Idle, f.pipeline.State())
}

func TestPipeline_ClipboardFailureStillDelivers(t *testing.T) {
	f := newFixture(display.Point{}, false)
	f.clipboard.err = errors.New("clipboard busy")

	res, err := f.pipeline.Capture(context.Background(), Request{DisplayID: "0", Width: 10, Height: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, res.DataURL)
	assert.Equal(t, []string{ipc.EventScreenshotResult}, f.events.published)
}

func TestPipeline_PointerFlow(t *testing.T) {
	f := newFixture(display.Point{X: 150}, true)
	_, err := f.pipeline.Start()
	require.NoError(t, err)

	f.pipeline.PointerDown(2, 10, 10)
	assert.Equal(t, OverlayOpen, f.pipeline.State(), "secondary button ignored")

	f.pipeline.PointerDown(PrimaryButton, 40, 30)
	assert.Equal(t, Selecting, f.pipeline.State())
	f.pipeline.PointerMove(10, 50)

	req, ok := f.pipeline.PointerUp(PrimaryButton, 10, 60)
	require.True(t, ok)
	assert.Equal(t, Request{DisplayID: "1", X: 10, Y: 30, Width: 30, Height: 30, ScaleFactor: 2}, req)
	assert.Equal(t, Finalizing, f.pipeline.State())

	_, err = f.pipeline.Capture(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Idle, f.pipeline.State())
}

func TestPipeline_TinySelectionCancels(t *testing.T) {
	f := newFixture(display.Point{}, true)
	_, err := f.pipeline.Start()
	require.NoError(t, err)

	f.pipeline.PointerDown(PrimaryButton, 10, 10)
	_, ok := f.pipeline.PointerUp(PrimaryButton, 12, 40)

	assert.False(t, ok)
	assert.Equal(t, Idle, f.pipeline.State())
	assert.Equal(t, 1, f.opener.overlay.closed)
	assert.True(t, f.main.visible)
	assert.Empty(t, f.events.published)
	assert.Zero(t, f.sources.requestCount)
}

func TestPipeline_PointerUpWithoutDownIsIgnored(t *testing.T) {
	f := newFixture(display.Point{}, true)
	_, err := f.pipeline.Start()
	require.NoError(t, err)

	_, ok := f.pipeline.PointerUp(PrimaryButton, 50, 50)
	assert.False(t, ok)
	assert.Equal(t, OverlayOpen, f.pipeline.State())
}

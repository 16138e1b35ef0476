package platform

import (
	"sync"

	"github.com/sirupsen/logrus"

	"sunless-desktop/internal/capture"
	"sunless-desktop/internal/display"
	"sunless-desktop/internal/ipc"
)

// Overlays turns the app window into the capture surface. Wails v2 runs a
// single window, so opening an overlay stretches it over the target display
// and switches the webview into its selection view; closing puts it back.
type Overlays struct {
	win    *Window
	events ipc.Publisher
	log    logrus.FieldLogger
}

// NewOverlays creates an opener that borrows win for each session.
func NewOverlays(win *Window, events ipc.Publisher, log logrus.FieldLogger) *Overlays {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Overlays{win: win, events: events, log: log}
}

// OpenOverlay covers target with the window and announces the session.
func (o *Overlays) OpenOverlay(sessionID string, target display.Target) (capture.Overlay, error) {
	x, y := o.win.Position()
	w, h := o.win.Size()
	ignored := o.win.ClickThrough()

	o.win.SetIgnoreMouseEvents(false)
	o.win.SetAlwaysOnTop(true)
	o.win.SetPosition(target.Bounds.X, target.Bounds.Y)
	o.win.SetSize(target.Bounds.Width, target.Bounds.Height)
	o.win.showSurface()

	o.publish(ipc.ScreenshotOverlay{
		Open:        true,
		SessionID:   sessionID,
		DisplayID:   target.ID,
		ScaleFactor: target.Scale(),
	})

	o.log.WithFields(logrus.Fields{
		"session": sessionID,
		"display": target.ID,
		"bounds":  target.Bounds,
	}).Debug("Capture surface shown")

	return &overlaySurface{
		owner:   o,
		id:      sessionID,
		x:       x,
		y:       y,
		width:   w,
		height:  h,
		ignored: ignored,
	}, nil
}

func (o *Overlays) publish(payload ipc.ScreenshotOverlay) {
	if o.events != nil {
		o.events.Publish(ipc.EventScreenshotOverlay, payload)
	}
}

// overlaySurface remembers the bar geometry to restore on close.
type overlaySurface struct {
	owner *Overlays
	id    string

	x, y          int
	width, height int
	ignored       bool

	closeOnce sync.Once
}

func (s *overlaySurface) Focus() {
	s.owner.win.Focus()
}

// Close hides the surface and restores the bar geometry. It is idempotent.
func (s *overlaySurface) Close() error {
	s.closeOnce.Do(func() {
		win := s.owner.win
		s.owner.publish(ipc.ScreenshotOverlay{Open: false, SessionID: s.id})
		win.hideSurface()
		win.SetSize(s.width, s.height)
		win.SetPosition(s.x, s.y)
		win.SetIgnoreMouseEvents(s.ignored)
	})
	return nil
}

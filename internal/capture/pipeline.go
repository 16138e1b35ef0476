// Package capture runs the region screenshot flow: open a selection overlay
// on the display under the pointer, turn the user's rectangle into device
// pixels, crop the screen image and hand the result to the clipboard and UI.
package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sunless-desktop/internal/display"
	"sunless-desktop/internal/ipc"
)

// State of the capture session.
type State int

const (
	Idle State = iota
	OverlayOpen
	Selecting
	Finalizing
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case OverlayOpen:
		return "overlay-open"
	case Selecting:
		return "selecting"
	case Finalizing:
		return "finalizing"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// MainWindow is the floating bar that is tucked away while capturing.
type MainWindow interface {
	IsVisible() bool
	Hide()
	Show()
}

// Overlay is the open selection surface.
type Overlay interface {
	Focus()
	Close() error
}

// OverlayOpener shows a borderless, transparent, always-on-top surface
// covering target.
type OverlayOpener interface {
	OpenOverlay(sessionID string, target display.Target) (Overlay, error)
}

// Request is a selection submitted for capture.
type Request struct {
	DisplayID   string  `json:"displayId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	ScaleFactor float64 `json:"scaleFactor"`
}

// Selection returns the logical rectangle of the request.
func (r Request) Selection() Selection {
	return Selection{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Result is a delivered capture.
type Result struct {
	DataURL string `json:"dataUrl"`
}

// Session is the single live capture session.
type Session struct {
	ID          string
	Display     display.Target
	overlay     Overlay
	restoreMain bool
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Displays  display.Provider
	Sources   SourceLister
	Clipboard Clipboard
	Overlays  OverlayOpener
	Main      MainWindow
	Events    ipc.Publisher
	Log       logrus.FieldLogger
}

// Pipeline owns the capture state machine. At most one session is alive.
type Pipeline struct {
	// captureMu serializes Capture and lets Close wait for it.
	captureMu sync.Mutex

	mu      sync.Mutex
	state   State
	session *Session
	tracker Tracker

	deps Deps
	log  logrus.FieldLogger
}

// NewPipeline creates an idle pipeline.
func NewPipeline(deps Deps) *Pipeline {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{deps: deps, log: log}
}

// State returns the current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Session returns a copy of the live session, if any.
func (p *Pipeline) Session() (Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return Session{}, false
	}
	return *p.session, true
}

// Start opens the overlay on the display under the pointer. If a session is
// already open its overlay is focused instead.
func (p *Pipeline) Start() (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		p.session.overlay.Focus()
		return *p.session, nil
	}

	target, err := display.UnderCursor(p.deps.Displays)
	if err != nil {
		return Session{}, wrapf(err, "Unable to resolve display")
	}

	restore := p.deps.Main != nil && p.deps.Main.IsVisible()
	if restore {
		p.deps.Main.Hide()
	}

	id := uuid.NewString()
	overlay, err := p.deps.Overlays.OpenOverlay(id, target)
	if err != nil {
		if restore {
			p.deps.Main.Show()
		}
		return Session{}, wrapf(err, "Unable to open capture overlay")
	}

	p.session = &Session{
		ID:          id,
		Display:     target,
		overlay:     overlay,
		restoreMain: restore,
	}
	p.state = OverlayOpen
	p.tracker.Reset()

	p.log.WithFields(logrus.Fields{
		"session": id,
		"display": target.ID,
	}).Info("Capture overlay opened")
	return *p.session, nil
}

// PointerDown anchors a selection. Only the primary button counts.
func (p *Pipeline) PointerDown(button int, x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if button != PrimaryButton || (p.state != OverlayOpen && p.state != Selecting) {
		return
	}
	p.tracker.Begin(x, y)
	p.state = Selecting
}

// PointerMove stretches the selection in progress.
func (p *Pipeline) PointerMove(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Selecting {
		return
	}
	p.tracker.Update(x, y)
}

// PointerUp finishes the drag. A missing or undersized selection cancels the
// session; otherwise the request to capture is returned with ok set.
func (p *Pipeline) PointerUp(button int, x, y float64) (req Request, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if button != PrimaryButton || p.state != Selecting {
		return Request{}, false
	}

	sel, tracked := p.tracker.End(x, y)
	p.state = Finalizing
	if !tracked || !sel.Usable() {
		p.cancelLocked()
		return Request{}, false
	}

	return Request{
		DisplayID:   p.session.Display.ID,
		X:           sel.X,
		Y:           sel.Y,
		Width:       sel.Width,
		Height:      sel.Height,
		ScaleFactor: p.session.Display.Scale(),
	}, true
}

// Capture crops the requested region, writes it to the clipboard and
// publishes it to the UI. The overlay is closed on every exit path.
func (p *Pipeline) Capture(ctx context.Context, req Request) (Result, error) {
	p.captureMu.Lock()
	defer p.captureMu.Unlock()

	var sessionID string
	p.mu.Lock()
	if p.session != nil {
		p.state = Finalizing
		sessionID = p.session.ID
		if req.DisplayID == "" {
			req.DisplayID = p.session.Display.ID
		}
	}
	p.mu.Unlock()

	entry := p.log.WithFields(logrus.Fields{"session": sessionID, "display": req.DisplayID})

	defer p.closeSession()

	res, err := p.capture(ctx, req)
	if err != nil {
		entry.WithError(err).Warn("Screen capture failed")
		return Result{}, captureErr(err)
	}

	if p.deps.Events != nil {
		p.deps.Events.Publish(ipc.EventScreenshotResult, ipc.ScreenshotResult{DataURL: res.DataURL})
	}
	entry.Info("Screen captured")
	return res, nil
}

func (p *Pipeline) capture(ctx context.Context, req Request) (Result, error) {
	sel := req.Selection()
	if !sel.Finite() {
		return Result{}, &Error{Reason: ErrInvalidDimensions.Error(), Err: ErrInvalidDimensions}
	}
	if !sel.Usable() {
		return Result{}, &Error{Reason: ErrTooSmall.Error(), Err: ErrTooSmall}
	}

	displays, err := p.deps.Displays.Displays()
	if err != nil {
		return Result{}, wrapf(err, "Unable to list displays")
	}
	target, ok := display.ByID(displays, req.DisplayID)
	if !ok {
		return Result{}, &Error{Reason: ErrDisplayNotFound.Error(), Err: ErrDisplayNotFound}
	}

	scale := req.ScaleFactor
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = target.Scale()
	}

	thumbW := maxInt(1, int(math.Round(float64(target.Bounds.Width)*target.Scale())))
	thumbH := maxInt(1, int(math.Round(float64(target.Bounds.Height)*target.Scale())))

	sources, err := p.deps.Sources.Sources(ctx, thumbW, thumbH)
	if err != nil {
		return Result{}, wrapf(err, "Unable to capture screen")
	}
	source, ok := MatchSource(sources, target.ID)
	if !ok {
		return Result{}, &Error{Reason: ErrSourceNotFound.Error(), Err: ErrSourceNotFound}
	}

	thumb, err := source.Thumbnail()
	if err != nil {
		return Result{}, wrapf(err, "Unable to capture screen")
	}

	rect, err := CropRect(sel, scale, thumb.Bounds().Dx(), thumb.Bounds().Dy())
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop(thumb, rect)); err != nil {
		return Result{}, wrapf(err, "Unable to encode capture")
	}

	if p.deps.Clipboard != nil {
		if err := p.deps.Clipboard.WriteImage(buf.Bytes()); err != nil {
			p.log.WithError(err).Warn("Failed to copy capture to clipboard")
		}
	}

	return Result{DataURL: DataURL("image/png", buf.Bytes())}, nil
}

// Cancel abandons the session without delivering an image. An in-flight
// capture is allowed to finish first.
func (p *Pipeline) Cancel() {
	p.captureMu.Lock()
	defer p.captureMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

// Close tears down the session, waiting for an in-flight capture to finish.
func (p *Pipeline) Close() {
	p.captureMu.Lock()
	defer p.captureMu.Unlock()
	p.closeSession()
}

func (p *Pipeline) closeSession() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Pipeline) cancelLocked() {
	if p.session == nil {
		p.state = Idle
		return
	}
	p.state = Cancelled
	p.log.WithField("session", p.session.ID).Info("Capture cancelled")
	p.closeLocked()
}

func (p *Pipeline) closeLocked() {
	p.tracker.Reset()
	session := p.session
	p.session = nil
	p.state = Idle
	if session == nil {
		return
	}

	if err := session.overlay.Close(); err != nil {
		p.log.WithField("session", session.ID).WithError(err).Warn("Failed to close capture overlay")
	}
	if session.restoreMain && p.deps.Main != nil {
		p.deps.Main.Show()
	}
}

// DataURL encodes data as a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

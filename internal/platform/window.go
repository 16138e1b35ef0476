package platform

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Window drives the single Wails window. Wails v2 cannot report whether the
// window is showing, so visibility is tracked here from Show and Hide.
type Window struct {
	native *nativeWindow
	log    logrus.FieldLogger

	mu           sync.RWMutex
	ctx          context.Context
	visible      bool
	clickThrough bool
}

// NewWindow wraps the window titled title. visible is the state the window
// starts in.
func NewWindow(title string, visible bool, log logrus.FieldLogger) *Window {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Window{
		native:  &nativeWindow{title: title},
		log:     log,
		visible: visible,
	}
}

// Attach stores the runtime context handed to OnStartup. Calls made before
// Attach are dropped.
func (w *Window) Attach(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

// runtimeContext returns the Wails context, or nil before startup.
func (w *Window) runtimeContext() context.Context {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ctx
}

func (w *Window) withContext(op string, fn func(ctx context.Context)) bool {
	ctx := w.runtimeContext()
	if ctx == nil {
		w.log.WithField("op", op).Warn("Window call dropped before startup")
		return false
	}
	fn(ctx)
	return true
}

// Position returns the top-left corner in desktop coordinates.
func (w *Window) Position() (x, y int) {
	if nx, ny, ok := w.native.position(); ok {
		return nx, ny
	}
	w.withContext("position", func(ctx context.Context) {
		x, y = runtimeWindowGetPositionFn(ctx)
	})
	return x, y
}

// SetPosition moves the top-left corner to x, y.
func (w *Window) SetPosition(x, y int) {
	if w.native.setPosition(x, y) {
		return
	}
	w.withContext("set-position", func(ctx context.Context) {
		runtimeWindowSetPositionFn(ctx, x, y)
	})
}

// Size returns the window size.
func (w *Window) Size() (width, height int) {
	w.withContext("size", func(ctx context.Context) {
		width, height = runtimeWindowGetSizeFn(ctx)
	})
	return width, height
}

// SetSize resizes the window.
func (w *Window) SetSize(width, height int) {
	w.withContext("set-size", func(ctx context.Context) {
		runtimeWindowSetSizeFn(ctx, width, height)
	})
}

// IsVisible reports whether the window was last shown.
func (w *Window) IsVisible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

// Show makes the window visible.
func (w *Window) Show() {
	if w.withContext("show", func(ctx context.Context) {
		runtimeWindowUnminimiseFn(ctx)
		runtimeWindowShowFn(ctx)
	}) {
		w.setVisible(true)
	}
}

// Hide hides the window.
func (w *Window) Hide() {
	if w.withContext("hide", runtimeWindowHideFn) {
		w.setVisible(false)
	}
}

// showSurface and hideSurface put the window on or off screen without
// changing the tracked main-window visibility. The capture overlay borrows
// the window this way.
func (w *Window) showSurface() {
	w.withContext("show-surface", func(ctx context.Context) {
		runtimeWindowUnminimiseFn(ctx)
		runtimeWindowShowFn(ctx)
	})
}

func (w *Window) hideSurface() {
	w.withContext("hide-surface", runtimeWindowHideFn)
}

// Focus raises the window above its siblings. Wails v2 focuses on Show.
func (w *Window) Focus() {
	w.withContext("focus", runtimeWindowShowFn)
}

// SetAlwaysOnTop pins or unpins the window.
func (w *Window) SetAlwaysOnTop(onTop bool) {
	w.withContext("always-on-top", func(ctx context.Context) {
		runtimeWindowSetAlwaysOnTopFn(ctx, onTop)
	})
}

// SetIgnoreMouseEvents lets clicks pass through the window while ignore is set.
func (w *Window) SetIgnoreMouseEvents(ignore bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clickThrough == ignore {
		return
	}
	if !w.native.setClickThrough(ignore) {
		w.log.WithField("ignore", ignore).Debug("Click-through not supported on this platform")
		return
	}
	w.clickThrough = ignore
}

// ClickThrough reports whether mouse events currently pass through.
func (w *Window) ClickThrough() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clickThrough
}

func (w *Window) setVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = visible
}

// Package controller is the privileged side of the app. It owns the shortcut
// registry, window controller, capture pipeline, auth glue and attachment
// loader, wires them to each other and maps IPC channels onto them.
package controller

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sunless-desktop/internal/attachments"
	"sunless-desktop/internal/auth"
	"sunless-desktop/internal/capture"
	"sunless-desktop/internal/config"
	"sunless-desktop/internal/display"
	"sunless-desktop/internal/ipc"
	"sunless-desktop/internal/shortcuts"
	"sunless-desktop/internal/window"
)

// Options are the services a Controller coordinates. Config may be nil.
type Options struct {
	Config      *config.Service
	Shortcuts   *shortcuts.Registry
	Window      *window.Controller
	Capture     *capture.Pipeline
	Auth        *auth.Service
	Attachments *attachments.Service
	Bus         *ipc.Bus
	Log         logrus.FieldLogger
}

// Controller routes UI requests and hotkeys to the app services.
type Controller struct {
	config      *config.Service
	shortcuts   *shortcuts.Registry
	window      *window.Controller
	capture     *capture.Pipeline
	auth        *auth.Service
	attachments *attachments.Service
	bus         *ipc.Bus
	router      *ipc.Router
	log         logrus.FieldLogger

	now func() time.Time

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New wires the services together. Nothing is registered with the OS until
// Start.
func New(opts Options) *Controller {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &Controller{
		config:      opts.Config,
		shortcuts:   opts.Shortcuts,
		window:      opts.Window,
		capture:     opts.Capture,
		auth:        opts.Auth,
		attachments: opts.Attachments,
		bus:         opts.Bus,
		router:      ipc.NewRouter(),
		log:         log,
		now:         time.Now,
	}

	c.bindShortcuts()
	c.window.OnVisibilityChange(c.shortcuts.SetMovementEnabled)
	c.registerRoutes()
	return c
}

func (c *Controller) bindShortcuts() {
	moves := map[shortcuts.Action]window.Direction{
		shortcuts.MoveUp:    window.Up,
		shortcuts.MoveDown:  window.Down,
		shortcuts.MoveLeft:  window.Left,
		shortcuts.MoveRight: window.Right,
	}
	for action, dir := range moves {
		action, dir := action, dir
		c.shortcuts.Bind(action, func() {
			if c.capturing() {
				return
			}
			if err := c.window.Move(dir); err != nil {
				c.log.WithField("action", action).WithError(err).Warn("Window move failed")
			}
		})
	}
	c.shortcuts.Bind(shortcuts.ToggleVisibility, c.toggle)
	c.shortcuts.Bind(shortcuts.Screenshot, c.startCapture)
}

// capturing reports whether the window is currently lent to a capture overlay.
func (c *Controller) capturing() bool {
	_, ok := c.capture.Session()
	return ok
}

// toggle shows or hides the bar. While a capture is open it cancels the
// capture instead, which puts the bar back the way it was.
func (c *Controller) toggle() {
	if c.capturing() {
		c.capture.Cancel()
		return
	}
	c.window.Toggle()
}

func (c *Controller) startCapture() {
	if _, err := c.capture.Start(); err != nil {
		c.log.WithError(err).Error("Failed to start screen capture")
	}
}

// Invoke handles a request channel and returns its result.
func (c *Controller) Invoke(ctx context.Context, channel string, payload json.RawMessage) (any, error) {
	res, err := c.router.Invoke(ctx, channel, payload)
	if err != nil {
		c.log.WithField("channel", channel).WithError(err).Warn("Request failed")
	}
	return res, err
}

// Send handles a fire-and-forget channel.
func (c *Controller) Send(ctx context.Context, channel string, payload json.RawMessage) error {
	err := c.router.Send(ctx, channel, payload)
	if err != nil {
		c.log.WithField("channel", channel).WithError(err).Warn("Message failed")
	}
	return err
}

// Start restores the bar, registers hotkeys, starts the correlation-token
// sweeper and greets the UI. Protocol URLs found in args are handled last.
// Calling Start again only re-greets the UI.
func (c *Controller) Start(ctx context.Context, args []string) {
	c.mu.Lock()
	first := !c.started
	if first {
		c.started = true
		c.restoreGeometry()
		c.shortcuts.SetMovementEnabled(c.window.IsVisible())
		c.shortcuts.Apply()

		sweepCtx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.auth.States().Run(sweepCtx)
		}()
	}
	c.mu.Unlock()

	c.bus.Publish(ipc.EventMainProcessMessage, c.now().Format(time.DateTime))

	if first {
		c.HandleLaunchArgs(ctx, args)
	}
}

// HandleLaunchArgs routes the first sunless:// URL in args.
func (c *Controller) HandleLaunchArgs(ctx context.Context, args []string) bool {
	raw, ok := auth.FindProtocolURL(args)
	if !ok {
		return false
	}
	return c.auth.HandleProtocolURL(ctx, raw)
}

// HandleSecondInstance brings the running app forward when the user launches
// it again, and completes any auth callback the new process was started with.
func (c *Controller) HandleSecondInstance(ctx context.Context, args []string) {
	c.log.WithField("args", len(args)).Info("Second instance launched")
	c.window.Show()
	c.HandleLaunchArgs(ctx, args)
}

// Stop releases OS hotkeys, closes any capture overlay, stops background work
// and saves the bar geometry.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	c.capture.Close()
	c.shortcuts.Close()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	c.saveGeometry()
}

func (c *Controller) restoreGeometry() {
	if c.config == nil {
		return
	}
	saved := c.config.Get().Window
	if !saved.HasPosition {
		return
	}
	r := display.Rect{X: saved.X, Y: saved.Y, Width: saved.Width, Height: saved.Height}
	if err := c.window.Place(r); err != nil {
		c.log.WithError(err).Warn("Failed to restore window position")
	}
}

func (c *Controller) saveGeometry() {
	if c.config == nil {
		return
	}
	b := c.window.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		return
	}
	err := c.config.UpdateWindow(config.WindowConfig{
		X:           b.X,
		Y:           b.Y,
		Width:       b.Width,
		Height:      b.Height,
		HasPosition: true,
	})
	if err != nil {
		c.log.WithError(err).Warn("Failed to save window position")
	}
}

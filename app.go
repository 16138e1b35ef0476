package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2/pkg/options"

	"sunless-desktop/internal/attachments"
	"sunless-desktop/internal/auth"
	"sunless-desktop/internal/cache"
	"sunless-desktop/internal/capture"
	"sunless-desktop/internal/config"
	"sunless-desktop/internal/controller"
	"sunless-desktop/internal/display"
	"sunless-desktop/internal/hotkeys"
	"sunless-desktop/internal/ipc"
	"sunless-desktop/internal/platform"
	"sunless-desktop/internal/shortcuts"
	"sunless-desktop/internal/window"
)

// App struct
type App struct {
	ctx       context.Context
	config    *config.Service
	log       *logrus.Logger
	logCloser io.Closer

	win        *platform.Window
	bus        *ipc.Bus
	ctrl       *controller.Controller
	stopEvents func()
}

// NewApp creates a new App application struct
func NewApp(cfg *config.Service, log *logrus.Logger, logCloser io.Closer) *App {
	bus := ipc.NewBus(log.WithField("component", "bus"))
	win := platform.NewWindow(appTitle, true, log.WithField("component", "window"))
	displays := display.NewScreenProvider()

	winCtrl := window.NewController(win, displays, bus, log.WithField("component", "window"))

	registry := shortcuts.NewRegistry(
		hotkeys.NewManager(log.WithField("component", "hotkeys")),
		shortcuts.NewFileStore(cfg.Dir()),
		log.WithField("component", "shortcuts"),
	)

	pipeline := capture.NewPipeline(capture.Deps{
		Displays:  displays,
		Sources:   capture.ScreenSources{},
		Clipboard: &capture.SystemClipboard{},
		Overlays:  platform.NewOverlays(win, bus, log.WithField("component", "overlay")),
		Main:      winCtrl,
		Events:    bus,
		Log:       log.WithField("component", "capture"),
	})

	authSvc := auth.New(auth.Options{
		BackendURL: cfg.BackendURL(),
		ClientID:   cfg.Get().OAuthClientID,
		Browser:    platform.NewBrowser(win),
		Window:     winCtrl,
		Sessions:   auth.KeyringStore{},
		Events:     bus,
		Log:        log.WithField("component", "auth"),
	})

	attachmentsSvc := attachments.New(
		platform.NewFilePicker(win),
		cache.New(100),
		log.WithField("component", "attachments"),
	)

	return &App{
		config:    cfg,
		log:       log,
		logCloser: logCloser,
		win:       win,
		bus:       bus,
		ctrl: controller.New(controller.Options{
			Config:      cfg,
			Shortcuts:   registry,
			Window:      winCtrl,
			Capture:     pipeline,
			Auth:        authSvc,
			Attachments: attachmentsSvc,
			Bus:         bus,
			Log:         log.WithField("component", "controller"),
		}),
	}
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx
	a.win.Attach(ctx)
	a.stopEvents = platform.ForwardEvents(a.bus, a.win, a.log.WithField("component", "events"))
	a.log.WithFields(logrus.Fields{
		"backend": a.config.BackendURL(),
		"config":  a.config.Path(),
	}).Info("Sunless starting")
}

// OnDomReady registers hotkeys and greets the UI once the webview is loaded
func (a *App) OnDomReady(ctx context.Context) {
	a.ctrl.Start(ctx, os.Args[1:])
}

// OnShutdown is called when the app is shutting down
func (a *App) OnShutdown(ctx context.Context) {
	a.ctrl.Stop()
	if a.stopEvents != nil {
		a.stopEvents()
	}
	if err := a.config.Save(); err != nil {
		a.log.WithError(err).Warn("Failed to save config")
	}
	a.log.Info("Sunless stopped")
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// OnSecondInstanceLaunch hands a relaunch over to the running instance
func (a *App) OnSecondInstanceLaunch(data options.SecondInstanceData) {
	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	a.ctrl.HandleSecondInstance(ctx, data.Args)
}

// Invoke handles a request channel from the UI. Errors reject the promise
// with their message.
func (a *App) Invoke(channel string, payload json.RawMessage) (any, error) {
	return a.ctrl.Invoke(a.context(), channel, payload)
}

// Send handles a fire-and-forget channel from the UI
func (a *App) Send(channel string, payload json.RawMessage) {
	_ = a.ctrl.Send(a.context(), channel, payload)
}

// Events lists the event names the UI can subscribe to
func (a *App) Events() []string {
	return append([]string(nil), ipc.Events...)
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

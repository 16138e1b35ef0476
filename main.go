package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"

	"sunless-desktop/internal/config"
	"sunless-desktop/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

// appTitle is also used to find the native window handle.
const appTitle = "Sunless"

// singleInstanceID keys the OS lock that routes relaunches and sunless://
// callbacks to the running instance.
const singleInstanceID = "app.sunless.desktop"

func main() {
	config.LoadEnv()

	cfg, err := config.New()
	if err != nil {
		fmt.Printf("Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	log, logCloser, err := logging.Setup(cfg.LogLevel(), cfg.LogPath())
	if err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	// Create an instance of the app structure
	app := NewApp(cfg, log, logCloser)

	// Create application with options
	err = wails.Run(&options.App{
		Title:  appTitle,
		Width:  config.DefaultBarWidth,
		Height: config.DefaultBarHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Frameless:        true,
		AlwaysOnTop:      true,
		DisableResize:    true,
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0}, // Transparent
		Windows: &wailswindows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               singleInstanceID,
			OnSecondInstanceLaunch: app.OnSecondInstanceLaunch,
		},
		Logger:     logging.NewWailsLogger(log),
		OnStartup:  app.OnStartup,
		OnDomReady: app.OnDomReady,
		OnShutdown: app.OnShutdown,
		Bind:       []interface{}{app},
	})

	if err != nil {
		log.WithError(err).Error("Error starting application")
		os.Exit(1)
	}
}

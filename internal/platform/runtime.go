// Package platform adapts the Wails runtime and native window APIs to the
// small interfaces the rest of the app depends on.
package platform

import (
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Wails runtime entry points. Tests swap these out; production code never
// reassigns them after init.
var (
	runtimeEventsEmitFn              = runtime.EventsEmit
	runtimeWindowShowFn              = runtime.WindowShow
	runtimeWindowHideFn              = runtime.WindowHide
	runtimeWindowUnminimiseFn        = runtime.WindowUnminimise
	runtimeWindowSetAlwaysOnTopFn    = runtime.WindowSetAlwaysOnTop
	runtimeWindowGetPositionFn       = runtime.WindowGetPosition
	runtimeWindowSetPositionFn       = runtime.WindowSetPosition
	runtimeWindowGetSizeFn           = runtime.WindowGetSize
	runtimeWindowSetSizeFn           = runtime.WindowSetSize
	runtimeBrowserOpenURLFn          = runtime.BrowserOpenURL
	runtimeOpenMultipleFilesDialogFn = runtime.OpenMultipleFilesDialog
)

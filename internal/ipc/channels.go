// Package ipc defines the message contract between the privileged controller
// and the webview: channel names, event payloads, an ordered publish/subscribe
// bus for controller-initiated events and a router for UI-initiated requests.
package ipc

// Request channels. The UI awaits a result or a rejection.
const (
	ChannelShortcutsGet           = "shortcuts:get"
	ChannelShortcutsUpdate        = "shortcuts:update"
	ChannelAttachmentsPick        = "attachments:pick"
	ChannelCaptureScreenSelection = "capture-screen-selection"
	ChannelAuthGoogle             = "auth:google"
	ChannelAuthLogout             = "auth:logout"
	ChannelAuthLogoutEverywhere   = "auth:logout-everywhere"
)

// Fire-and-forget channels sent by the UI.
const (
	ChannelWindowDragStart      = "window-drag-start"
	ChannelWindowDragMove       = "window-drag-move"
	ChannelSetIgnoreMouseEvents = "set-ignore-mouse-events"
	ChannelSetWindowHeight      = "set-window-height"
	ChannelToggleVisibility     = "toggle-visibility"
	ChannelStartScreenshot      = "start-screenshot"
	ChannelScreenshotCancel     = "screenshot-cancel"
	ChannelScreenshotClose      = "screenshot-close"
	ChannelScreenshotPointer    = "screenshot-pointer"
)

// Events emitted by the controller.
const (
	EventDragOffset         = "drag-offset"
	EventFocusInput         = "focus-input"
	EventScreenshotResult   = "screenshot-result"
	EventScreenshotOverlay  = "screenshot-overlay"
	EventAuthSessionUpdated = "auth-session-updated"
	EventMainProcessMessage = "main-process-message"
)

// Events lists every controller-initiated channel, in a stable order.
var Events = []string{
	EventDragOffset,
	EventFocusInput,
	EventScreenshotResult,
	EventScreenshotOverlay,
	EventAuthSessionUpdated,
	EventMainProcessMessage,
}

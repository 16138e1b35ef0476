package ipc

// DragOffset is the payload of EventDragOffset.
type DragOffset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScreenshotResult is the payload of EventScreenshotResult.
type ScreenshotResult struct {
	DataURL string `json:"dataUrl"`
}

// ScreenshotOverlay tells the webview to switch into or out of the capture view.
type ScreenshotOverlay struct {
	Open        bool    `json:"open"`
	SessionID   string  `json:"sessionId,omitempty"`
	DisplayID   string  `json:"displayId,omitempty"`
	ScaleFactor float64 `json:"scaleFactor,omitempty"`
}

// AuthSessionUpdate is the payload of EventAuthSessionUpdated.
type AuthSessionUpdate struct {
	Success       bool   `json:"success"`
	FirebaseToken string `json:"firebaseToken,omitempty"`
	Error         string `json:"error,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// Publisher emits controller-initiated events.
type Publisher interface {
	Publish(channel string, payload any)
}

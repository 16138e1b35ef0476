package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sunless-desktop/internal/auth"
	"sunless-desktop/internal/capture"
	"sunless-desktop/internal/ipc"
)

// ErrActionRequired is returned by shortcuts:update without an action.
var ErrActionRequired = errors.New("Shortcut action is required")

// ShortcutUpdate is the shortcuts:update payload. A null shortcut resets the
// action to its default.
type ShortcutUpdate struct {
	Action   string  `json:"action"`
	Shortcut *string `json:"shortcut"`
}

// DragStart is the window-drag-start payload.
type DragStart struct {
	MouseX int `json:"mouseX"`
	MouseY int `json:"mouseY"`
}

// DragMove is the window-drag-move payload.
type DragMove struct {
	MouseX  int `json:"mouseX"`
	MouseY  int `json:"mouseY"`
	OffsetX int `json:"offsetX"`
	OffsetY int `json:"offsetY"`
}

// Pointer phases sent on screenshot-pointer.
const (
	PointerDown = "down"
	PointerMove = "move"
	PointerUp   = "up"
)

// PointerEvent is the screenshot-pointer payload, in overlay-local logical px.
type PointerEvent struct {
	Phase  string  `json:"phase"`
	Button int     `json:"button"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (c *Controller) registerRoutes() {
	r := c.router

	r.Handle(ipc.ChannelShortcutsGet, func(context.Context, json.RawMessage) (any, error) {
		return c.shortcuts.State(), nil
	})
	r.Handle(ipc.ChannelShortcutsUpdate, c.updateShortcut)
	r.Handle(ipc.ChannelAttachmentsPick, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return c.attachments.Pick(ctx)
	})
	r.Handle(ipc.ChannelCaptureScreenSelection, c.captureSelection)
	r.Handle(ipc.ChannelAuthGoogle, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return c.auth.StartOAuth(ctx, auth.ProviderGoogle), nil
	})
	r.Handle(ipc.ChannelAuthLogout, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return c.auth.Logout(ctx), nil
	})
	r.Handle(ipc.ChannelAuthLogoutEverywhere, func(ctx context.Context, raw json.RawMessage) (any, error) {
		idToken, err := ipc.Decode[string](raw)
		if err != nil {
			return nil, err
		}
		return c.auth.LogoutEverywhere(ctx, idToken), nil
	})

	r.On(ipc.ChannelWindowDragStart, func(_ context.Context, raw json.RawMessage) error {
		p, err := ipc.Decode[DragStart](raw)
		if err != nil {
			return err
		}
		if c.capturing() {
			return nil
		}
		c.window.DragStart(p.MouseX, p.MouseY)
		return nil
	})
	r.On(ipc.ChannelWindowDragMove, func(_ context.Context, raw json.RawMessage) error {
		p, err := ipc.Decode[DragMove](raw)
		if err != nil {
			return err
		}
		if c.capturing() {
			return nil
		}
		c.window.DragMove(p.MouseX, p.MouseY, p.OffsetX, p.OffsetY)
		return nil
	})
	r.On(ipc.ChannelSetIgnoreMouseEvents, func(_ context.Context, raw json.RawMessage) error {
		ignore, err := ipc.Decode[bool](raw)
		if err != nil {
			return err
		}
		c.window.SetIgnoreMouseEvents(ignore)
		return nil
	})
	r.On(ipc.ChannelSetWindowHeight, func(_ context.Context, raw json.RawMessage) error {
		height, err := ipc.Decode[float64](raw)
		if err != nil {
			return err
		}
		if c.capturing() {
			return nil
		}
		c.window.SetHeight(height)
		return nil
	})
	r.On(ipc.ChannelToggleVisibility, func(context.Context, json.RawMessage) error {
		c.toggle()
		return nil
	})
	r.On(ipc.ChannelStartScreenshot, func(context.Context, json.RawMessage) error {
		_, err := c.capture.Start()
		return err
	})
	r.On(ipc.ChannelScreenshotCancel, func(context.Context, json.RawMessage) error {
		c.capture.Cancel()
		return nil
	})
	r.On(ipc.ChannelScreenshotClose, func(context.Context, json.RawMessage) error {
		c.capture.Close()
		return nil
	})
	r.On(ipc.ChannelScreenshotPointer, c.pointer)
}

func (c *Controller) updateShortcut(_ context.Context, raw json.RawMessage) (any, error) {
	p, err := ipc.Decode[ShortcutUpdate](raw)
	if err != nil {
		return nil, err
	}
	if p.Action == "" {
		return nil, ErrActionRequired
	}
	return c.shortcuts.Update(p.Action, p.Shortcut)
}

func (c *Controller) captureSelection(ctx context.Context, raw json.RawMessage) (any, error) {
	req, err := ipc.Decode[capture.Request](raw)
	if err != nil {
		return nil, err
	}
	return c.capture.Capture(ctx, req)
}

// pointer feeds overlay mouse input to the pipeline and captures once a
// usable selection is released.
func (c *Controller) pointer(ctx context.Context, raw json.RawMessage) error {
	p, err := ipc.Decode[PointerEvent](raw)
	if err != nil {
		return err
	}

	switch p.Phase {
	case PointerDown:
		c.capture.PointerDown(p.Button, p.X, p.Y)
	case PointerMove:
		c.capture.PointerMove(p.X, p.Y)
	case PointerUp:
		req, ok := c.capture.PointerUp(p.Button, p.X, p.Y)
		if !ok {
			return nil
		}
		if _, err := c.capture.Capture(ctx, req); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown pointer phase %q", p.Phase)
	}
	return nil
}

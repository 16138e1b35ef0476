package platform

import (
	"context"
	"errors"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// AttachmentsDialogTitle is shown on the native file picker.
const AttachmentsDialogTitle = "Select attachments"

// ErrNotStarted is returned by runtime calls made before the window exists.
var ErrNotStarted = errors.New("Main window is not available")

// Browser opens links in the user's default browser.
type Browser struct {
	win *Window
}

// NewBrowser creates a browser opener bound to win's runtime.
func NewBrowser(win *Window) *Browser {
	return &Browser{win: win}
}

// OpenURL opens url externally.
func (b *Browser) OpenURL(url string) error {
	ctx := b.win.runtimeContext()
	if ctx == nil {
		return ErrNotStarted
	}
	runtimeBrowserOpenURLFn(ctx, url)
	return nil
}

// FilePicker asks the user for attachment files.
type FilePicker struct {
	win *Window
}

// NewFilePicker creates a picker parented to win.
func NewFilePicker(win *Window) *FilePicker {
	return &FilePicker{win: win}
}

// PickFiles opens a multi-select file dialog. Cancelling yields no paths.
func (p *FilePicker) PickFiles(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rctx := p.win.runtimeContext()
	if rctx == nil {
		return nil, ErrNotStarted
	}
	return runtimeOpenMultipleFilesDialogFn(rctx, runtime.OpenDialogOptions{
		Title: AttachmentsDialogTitle,
	})
}

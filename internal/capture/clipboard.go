package capture

import (
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard receives captured images.
type Clipboard interface {
	WriteImage(png []byte) error
}

// SystemClipboard writes to the OS clipboard through golang.design/x/clipboard.
type SystemClipboard struct {
	initOnce sync.Once
	initErr  error
	writeMu  sync.Mutex
}

// WriteImage places PNG bytes on the clipboard.
func (c *SystemClipboard) WriteImage(png []byte) error {
	c.initOnce.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return c.initErr
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

//go:build !windows

package platform

// nativeWindow has no native hooks outside Windows; every call falls back to
// the Wails runtime.
type nativeWindow struct {
	title string
}

func (n *nativeWindow) position() (x, y int, ok bool) { return 0, 0, false }

func (n *nativeWindow) setPosition(x, y int) bool { return false }

// setClickThrough is unsupported: Wails v2 exposes no ignore-mouse API here.
func (n *nativeWindow) setClickThrough(enable bool) bool { return false }

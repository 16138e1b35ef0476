//go:build windows

package platform

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows constants for extended window styles
const (
	_GWL_EXSTYLE       int32 = -20
	_WS_EX_TRANSPARENT int32 = 0x00000020
	_WS_EX_LAYERED     int32 = 0x00080000

	_SWP_NOSIZE     = 0x0001
	_SWP_NOZORDER   = 0x0004
	_SWP_NOACTIVATE = 0x0010
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW    = user32.NewProc("FindWindowW")
	procGetWindowLongW = user32.NewProc("GetWindowLongW")
	procSetWindowLongW = user32.NewProc("SetWindowLongW")
	procGetWindowRect  = user32.NewProc("GetWindowRect")
	procSetWindowPos   = user32.NewProc("SetWindowPos")
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// nativeWindow addresses the Wails window through its HWND, which is looked
// up by title on first use.
type nativeWindow struct {
	title string

	once sync.Once
	hwnd uintptr
}

// handle finds and caches the HWND of the window by its title
func (n *nativeWindow) handle() uintptr {
	n.once.Do(func() {
		title, err := windows.UTF16PtrFromString(n.title)
		if err != nil {
			return
		}
		hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
		n.hwnd = hwnd
	})
	return n.hwnd
}

// position reads the window origin in virtual-screen pixels. Wails reports
// positions relative to the current monitor, which cannot be compared with
// display bounds.
func (n *nativeWindow) position() (x, y int, ok bool) {
	hwnd := n.handle()
	if hwnd == 0 {
		return 0, 0, false
	}
	var r rect
	ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return 0, 0, false
	}
	return int(r.Left), int(r.Top), true
}

func (n *nativeWindow) setPosition(x, y int) bool {
	hwnd := n.handle()
	if hwnd == 0 {
		return false
	}
	ret, _, _ := procSetWindowPos.Call(hwnd, 0, uintptr(int32(x)), uintptr(int32(y)), 0, 0,
		_SWP_NOSIZE|_SWP_NOZORDER|_SWP_NOACTIVATE)
	return ret != 0
}

// setClickThrough toggles WS_EX_TRANSPARENT so mouse events pass through the window
func (n *nativeWindow) setClickThrough(enable bool) bool {
	hwnd := n.handle()
	if hwnd == 0 {
		return false
	}

	idx := _GWL_EXSTYLE
	exStyle, _, _ := procGetWindowLongW.Call(hwnd, uintptr(idx))
	cur := int32(exStyle)
	newStyle := cur | _WS_EX_LAYERED
	if enable {
		newStyle = newStyle | _WS_EX_TRANSPARENT
	} else {
		newStyle = newStyle &^ _WS_EX_TRANSPARENT
	}

	procSetWindowLongW.Call(hwnd, uintptr(idx), uintptr(newStyle))
	return true
}

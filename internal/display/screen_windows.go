//go:build windows

package display

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	shcore               = windows.NewLazySystemDLL("shcore.dll")
	procMonitorFromRect  = user32.NewProc("MonitorFromRect")
	procGetMonitorInfoW  = user32.NewProc("GetMonitorInfoW")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procGetDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
)

const (
	monitorDefaultToNearest = 0x00000002
	mdtEffectiveDPI         = 0
)

type win32Point struct {
	X, Y int32
}

type win32Rect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfo struct {
	CbSize    uint32
	RcMonitor win32Rect
	RcWork    win32Rect
	DwFlags   uint32
}

// describe fills in the work area and DPI scale of the monitor containing t.
func describe(t *Target) {
	rc := win32Rect{
		Left:   int32(t.Bounds.X),
		Top:    int32(t.Bounds.Y),
		Right:  int32(t.Bounds.X + t.Bounds.Width),
		Bottom: int32(t.Bounds.Y + t.Bounds.Height),
	}
	hmon, _, _ := procMonitorFromRect.Call(uintptr(unsafe.Pointer(&rc)), monitorDefaultToNearest)
	if hmon == 0 {
		return
	}

	info := monitorInfo{CbSize: uint32(unsafe.Sizeof(monitorInfo{}))}
	if ret, _, _ := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&info))); ret != 0 {
		t.WorkArea = Rect{
			X:      int(info.RcWork.Left),
			Y:      int(info.RcWork.Top),
			Width:  int(info.RcWork.Right - info.RcWork.Left),
			Height: int(info.RcWork.Bottom - info.RcWork.Top),
		}
	}

	if procGetDpiForMonitor.Find() != nil {
		return
	}
	var dpiX, dpiY uint32
	if ret, _, _ := procGetDpiForMonitor.Call(
		hmon,
		mdtEffectiveDPI,
		uintptr(unsafe.Pointer(&dpiX)),
		uintptr(unsafe.Pointer(&dpiY)),
	); ret == 0 && dpiX > 0 {
		t.ScaleFactor = float64(dpiX) / 96.0
	}
}

func cursorPoint() (Point, error) {
	var pt win32Point
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return Point{}, err
	}
	return Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

//go:build windows

package hotkeys

import "golang.design/x/hotkey"

const (
	cmdOrCtrl = ModCtrl
	superName = "Win"
)

var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModAlt,
	ModSuper: hotkey.ModWin,
}

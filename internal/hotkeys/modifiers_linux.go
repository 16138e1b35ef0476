//go:build linux

package hotkeys

import "golang.design/x/hotkey"

const (
	cmdOrCtrl = ModCtrl
	superName = "Super"
)

// Alt and Super are Mod1 and Mod4 on X11.
var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.Mod1,
	ModSuper: hotkey.Mod4,
}

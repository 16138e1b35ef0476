//go:build darwin

package hotkeys

import "golang.design/x/hotkey"

const (
	cmdOrCtrl = ModSuper
	superName = "Cmd"
)

var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModOption,
	ModSuper: hotkey.ModCmd,
}

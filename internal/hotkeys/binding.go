// Package hotkeys registers system-wide keyboard shortcuts described by
// accelerator strings such as "Ctrl+Shift+S".
package hotkeys

import (
	"fmt"
	"strings"
)

// Modifier is a platform-neutral modifier bit.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

var modifierOrder = []Modifier{ModCtrl, ModAlt, ModShift, ModSuper}

var modifierByName = map[string]Modifier{
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"SHIFT":   ModShift,
	"ALT":     ModAlt,
	"OPTION":  ModAlt,
	"CMD":     ModSuper,
	"COMMAND": ModSuper,
	"SUPER":   ModSuper,
	"WIN":     ModSuper,
	"META":    ModSuper,
}

var namedKeys = map[string]string{
	"SPACE":  "Space",
	"TAB":    "Tab",
	"ENTER":  "Enter",
	"RETURN": "Enter",
	"ESC":    "Escape",
	"ESCAPE": "Escape",
	"DELETE": "Delete",
	"DEL":    "Delete",
	"UP":     "Up",
	"DOWN":   "Down",
	"LEFT":   "Left",
	"RIGHT":  "Right",
}

// Binding describes a parsed accelerator.
// Construct only via ParseAccelerator.
type Binding struct {
	modifiers  Modifier
	key        string
	normalized string
}

// Modifiers returns the modifier bitmask.
func (b Binding) Modifiers() Modifier { return b.modifiers }

// Key returns the canonical key name.
func (b Binding) Key() string { return b.key }

// Normalized returns the canonical accelerator string. Two accelerators that
// describe the same key combination normalize to the same string.
func (b Binding) Normalized() string { return b.normalized }

// ParseAccelerator parses an accelerator like "CmdOrCtrl+Shift+S".
func ParseAccelerator(accelerator string) (Binding, error) {
	raw := strings.TrimSpace(accelerator)
	if raw == "" {
		return Binding{}, fmt.Errorf("accelerator is empty")
	}

	parts := strings.Split(raw, "+")
	var modifiers Modifier
	for _, token := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(token))
		if name == "CMDORCTRL" || name == "COMMANDORCONTROL" {
			modifiers |= cmdOrCtrl
			continue
		}
		mod, ok := modifierByName[name]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in accelerator %q", token, raw)
		}
		modifiers |= mod
	}

	key, err := parseKey(parts[len(parts)-1])
	if err != nil {
		return Binding{}, fmt.Errorf("%w in accelerator %q", err, raw)
	}

	names := make([]string, 0, len(modifierOrder)+1)
	for _, mod := range modifierOrder {
		if modifiers&mod != 0 {
			names = append(names, modifierName(mod))
		}
	}
	names = append(names, key)

	return Binding{
		modifiers:  modifiers,
		key:        key,
		normalized: strings.Join(names, "+"),
	}, nil
}

func parseKey(raw string) (string, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return "", fmt.Errorf("missing key")
	}
	if name, ok := namedKeys[token]; ok {
		return name, nil
	}
	if len(token) == 1 {
		ch := token[0]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return token, nil
		}
	}
	if _, ok := functionKeyNumber(token); ok {
		return token, nil
	}
	if _, ok := modifierByName[token]; ok {
		return "", fmt.Errorf("modifier %q used as key", raw)
	}
	return "", fmt.Errorf("unsupported key %q", raw)
}

func functionKeyNumber(token string) (int, bool) {
	if len(token) < 2 || token[0] != 'F' {
		return 0, false
	}
	n := 0
	for _, ch := range token[1:] {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
	}
	if n < 1 || n > 20 || (token[1] == '0') {
		return 0, false
	}
	return n, true
}

func modifierName(mod Modifier) string {
	switch mod {
	case ModCtrl:
		return "Ctrl"
	case ModAlt:
		return "Alt"
	case ModShift:
		return "Shift"
	default:
		return superName
	}
}

package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseKey resolves the configured shortcut key to the rawcodes the hook reports
// for it. Names follow the Windows virtual-key table; a bare number is taken as
// a rawcode for platforms whose hook reports other codes.
func ParseKey(name string) ([]uint16, error) {
	name = normalizeKeyName(name)
	if name == "" {
		return nil, fmt.Errorf("empty shortcut key")
	}
	if n, err := strconv.ParseUint(name, 10, 16); err == nil {
		return []uint16{uint16(n)}, nil
	}
	codes := keyNameToRawcodes(name)
	if len(codes) == 0 {
		return nil, fmt.Errorf("unknown shortcut key %q", name)
	}
	return codes, nil
}

func normalizeKeyName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "win", "cmd", "super":
		return "cmd"
	case "control":
		return "ctrl"
	case "option":
		return "alt"
	case "return":
		return "enter"
	case "escape":
		return "esc"
	}
	return name
}

// keyNameToRawcodes maps a key name to its Windows virtual key code rawcodes.
// Modifiers without a side return both left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	switch keyName {
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "lshift", "shiftleft":
		return []uint16{160}
	case "rshift", "shiftright":
		return []uint16{161}
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "lctrl":
		return []uint16{162}
	case "rctrl":
		return []uint16{163}
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "lalt":
		return []uint16{164}
	case "ralt":
		return []uint16{165}
	case "cmd":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "capslock":
		return []uint16{20}
	case "space":
		return []uint16{32}
	case "enter":
		return []uint16{13}
	case "esc":
		return []uint16{27}
	case "tab":
		return []uint16{9}
	}

	// Letters A-Z are 0x41-0x5A, digits 0-9 are 0x30-0x39.
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}

	// F1-F24 are 112-135.
	if strings.HasPrefix(keyName, "f") {
		if n, err := strconv.Atoi(keyName[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}
		}
	}

	return nil
}

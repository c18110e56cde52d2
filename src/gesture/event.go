package gesture

import "fmt"

// Kind is the type of a raw input event delivered by the input hook.
type Kind int

const (
	Other Kind = iota
	KeyRelease
	ButtonPress
	ButtonRelease
)

func (k Kind) String() string {
	switch k {
	case KeyRelease:
		return "key-release"
	case ButtonPress:
		return "button-press"
	case ButtonRelease:
		return "button-release"
	default:
		return "other"
	}
}

type Button int

const (
	NoButton Button = iota
	Left
	Right
	Middle
)

// Event is one raw hook event. Code is the platform rawcode for key events;
// Button is set for button events.
type Event struct {
	Kind   Kind
	Code   uint16
	Button Button
}

func (e Event) String() string {
	if e.Kind == KeyRelease {
		return fmt.Sprintf("%s(%d)", e.Kind, e.Code)
	}
	return fmt.Sprintf("%s(button=%d)", e.Kind, e.Button)
}

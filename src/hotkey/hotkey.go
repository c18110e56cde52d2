package hotkey

import (
	"context"
	"errors"
	"fmt"

	gohook "github.com/robotn/gohook"
	"go.uber.org/zap"

	"pop-translate/src/gesture"
	"pop-translate/src/logutil"
)

// gohook button ids (gohook.MouseMap).
const (
	buttonLeft   = 1
	buttonRight  = 2
	buttonCenter = 3
)

// ErrHookUnavailable is returned when the global hook could not be started.
var ErrHookUnavailable = errors.New("global input hook unavailable")

// Handler consumes one translated event. A non-nil error stops the listener.
type Handler func(gesture.Event) error

// Source feeds global keyboard and mouse events from gohook into a Handler.
type Source struct {
	start func() chan gohook.Event
	end   func()
	log   *zap.Logger
}

func NewSource() *Source {
	return &Source{start: gohook.Start, end: gohook.End, log: logutil.Named("hotkey")}
}

// Listen runs the hook event loop until ctx is cancelled, the hook channel
// closes, or the handler fails. The handler is invoked on this goroutine and
// must return quickly.
func (s *Source) Listen(ctx context.Context, handle Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in hook loop", zap.Any("panic", r))
			err = fmt.Errorf("hook loop panic: %v", r)
		}
	}()

	s.log.Info("starting gohook event loop")
	evChan := s.start()
	if evChan == nil {
		return ErrHookUnavailable
	}
	defer s.end()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("hook listener stopping")
			return nil
		case ev, ok := <-evChan:
			if !ok {
				s.log.Warn("hook event channel closed")
				return nil
			}
			ge, relevant := Translate(ev)
			if !relevant {
				continue
			}
			if err := handle(ge); err != nil {
				return fmt.Errorf("gesture handler stopped: %w", err)
			}
		}
	}
}

// Translate maps a gohook event onto the gesture event model. libuiohook reports
// a button press as MouseHold and a release as MouseDown; MouseUp is the click
// synthesized after the release and is ignored.
func Translate(ev gohook.Event) (gesture.Event, bool) {
	switch ev.Kind {
	case gohook.KeyUp:
		return gesture.Event{Kind: gesture.KeyRelease, Code: ev.Rawcode}, true
	case gohook.MouseHold:
		return gesture.Event{Kind: gesture.ButtonPress, Button: button(ev.Button)}, true
	case gohook.MouseDown:
		return gesture.Event{Kind: gesture.ButtonRelease, Button: button(ev.Button)}, true
	default:
		return gesture.Event{}, false
	}
}

func button(id uint16) gesture.Button {
	switch id {
	case buttonLeft:
		return gesture.Left
	case buttonRight:
		return gesture.Right
	case buttonCenter:
		return gesture.Middle
	default:
		return gesture.NoButton
	}
}

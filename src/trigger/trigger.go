package trigger

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"pop-translate/src/logutil"
)

// ErrClosed is returned when a trigger is emitted after the consumers went away.
var ErrClosed = errors.New("trigger channel closed")

// Kind identifies which gesture produced a trigger.
type Kind int

const (
	Shortcut Kind = iota
	Selection
)

func (k Kind) String() string {
	switch k {
	case Shortcut:
		return "shortcut"
	case Selection:
		return "selection"
	default:
		return "unknown"
	}
}

// Channels is the pair of single-slot hand-off queues between the gesture
// detector and the trigger workers. A trigger emitted while another of the same
// kind is still pending is coalesced into it, so the hook thread never blocks.
type Channels struct {
	shortcut  chan struct{}
	selection chan struct{}
	closed    atomic.Bool
	done      chan struct{}
	log       *zap.Logger
}

func New() *Channels {
	return &Channels{
		shortcut:  make(chan struct{}, 1),
		selection: make(chan struct{}, 1),
		done:      make(chan struct{}),
		log:       logutil.Named("trigger"),
	}
}

// Shortcut emits a shortcut trigger.
func (c *Channels) Shortcut() error { return c.emit(Shortcut, c.shortcut) }

// Selection emits a selection trigger.
func (c *Channels) Selection() error { return c.emit(Selection, c.selection) }

func (c *Channels) emit(kind Kind, ch chan struct{}) error {
	if c.closed.Load() {
		c.log.Error("trigger emitted after close", zap.Stringer("kind", kind))
		return ErrClosed
	}
	select {
	case ch <- struct{}{}:
	default:
		c.log.Debug("trigger already pending, coalesced", zap.Stringer("kind", kind))
	}
	return nil
}

// ShortcutC is the receive side of the shortcut queue.
func (c *Channels) ShortcutC() <-chan struct{} { return c.shortcut }

// SelectionC is the receive side of the selection queue.
func (c *Channels) SelectionC() <-chan struct{} { return c.selection }

// Done is closed by Close; consumers stop waiting when it fires.
func (c *Channels) Done() <-chan struct{} { return c.done }

// Close marks the queues dead. Further emits return ErrClosed. Safe to call twice.
func (c *Channels) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
	}
}

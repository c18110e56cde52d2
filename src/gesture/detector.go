package gesture

import (
	"time"

	"go.uber.org/zap"

	"pop-translate/src/logutil"
)

const (
	DefaultDoubleTapWindow   = 1000 * time.Millisecond
	DefaultDragThreshold     = 500 * time.Millisecond
	DefaultDoubleClickWindow = 500 * time.Millisecond
)

// Emitter receives classified gestures. trigger.Channels implements it.
type Emitter interface {
	Shortcut() error
	Selection() error
}

// PinReader exposes the persistent pin that gates the selection gestures.
type PinReader interface {
	PersistentPin() bool
}

// CursorFunc returns the current screen coordinates of the pointer.
type CursorFunc func() (x, y int, err error)

type Options struct {
	// ShortcutCodes are the rawcodes of the key whose double tap opens the panel.
	ShortcutCodes     []uint16
	DoubleTapWindow   time.Duration
	DragThreshold     time.Duration
	DoubleClickWindow time.Duration
	Cursor            CursorFunc
	// Now defaults to time.Now.
	Now func() time.Time
}

// Detector turns raw hook events into at most one trigger per event.
// It is driven from the hook goroutine only and must never block; every
// decision is a comparison of millisecond timestamps and coordinates.
type Detector struct {
	emit   Emitter
	pins   PinReader
	cursor CursorFunc
	now    func() time.Time
	log    *zap.Logger

	shortcut    map[uint16]struct{}
	doubleTap   int64
	drag        int64
	doubleClick int64

	lastShortcutRelease int64
	lastPress           int64
	lastClick           int64
	lastX, lastY        int
}

func NewDetector(emit Emitter, pins PinReader, opts Options) *Detector {
	d := &Detector{
		emit:        emit,
		pins:        pins,
		cursor:      opts.Cursor,
		now:         opts.Now,
		log:         logutil.Named("gesture"),
		shortcut:    make(map[uint16]struct{}, len(opts.ShortcutCodes)),
		doubleTap:   millis(opts.DoubleTapWindow, DefaultDoubleTapWindow),
		drag:        millis(opts.DragThreshold, DefaultDragThreshold),
		doubleClick: millis(opts.DoubleClickWindow, DefaultDoubleClickWindow),
	}
	if d.now == nil {
		d.now = time.Now
	}
	for _, c := range opts.ShortcutCodes {
		d.shortcut[c] = struct{}{}
	}
	return d
}

func millis(d, def time.Duration) int64 {
	if d <= 0 {
		d = def
	}
	return d.Milliseconds()
}

// Handle classifies one event. The only error it returns is a dead emitter,
// after which the caller should stop feeding events.
func (d *Detector) Handle(ev Event) error {
	switch ev.Kind {
	case KeyRelease:
		if _, ok := d.shortcut[ev.Code]; !ok {
			// Only consecutive releases of the shortcut key count as a double tap.
			d.lastShortcutRelease = 0
			return nil
		}
		return d.shortcutReleased()
	case ButtonPress:
		if ev.Button != Left || !d.pins.PersistentPin() {
			return nil
		}
		if now, ok := d.timestamp(); ok {
			d.lastPress = now
		}
	case ButtonRelease:
		if ev.Button != Left || !d.pins.PersistentPin() {
			return nil
		}
		return d.leftReleased()
	}
	return nil
}

func (d *Detector) shortcutReleased() error {
	now, ok := d.timestamp()
	if !ok {
		return nil
	}
	if now < d.lastShortcutRelease+d.doubleTap {
		d.lastShortcutRelease = 0
		d.log.Debug("double tap detected")
		return d.send(d.emit.Shortcut)
	}
	d.lastShortcutRelease = now
	return nil
}

func (d *Detector) leftReleased() error {
	now, ok := d.timestamp()
	if !ok {
		return nil
	}

	// Held long enough to be a drag selection; double-click state is not consulted.
	if now >= d.lastPress+d.drag {
		d.log.Debug("drag selection detected", zap.Int64("held_ms", now-d.lastPress))
		return d.send(d.emit.Selection)
	}

	if d.cursor == nil {
		return nil
	}
	x, y, err := d.cursor()
	if err != nil {
		d.log.Warn("failed to get cursor position", zap.Error(err))
		return nil
	}

	if now < d.lastClick+d.doubleClick && x == d.lastX && y == d.lastY {
		d.log.Debug("double click detected", zap.Int("x", x), zap.Int("y", y))
		return d.send(d.emit.Selection)
	}
	d.lastClick = now
	d.lastX, d.lastY = x, y
	return nil
}

// timestamp returns milliseconds since the Unix epoch. A clock reading before
// the epoch skips the gesture instead of aborting.
func (d *Detector) timestamp() (int64, bool) {
	now := d.now().UnixMilli()
	if now < 0 {
		d.log.Warn("system clock is before the Unix epoch, skipping event")
		return 0, false
	}
	return now, true
}

func (d *Detector) send(fn func() error) error {
	if err := fn(); err != nil {
		d.log.Error("failed to emit trigger", zap.Error(err))
		return err
	}
	return nil
}

package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pop-translate/src/logutil"
	"pop-translate/src/state"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	// CleanEvent tells the panel content to drop its current result.
	CleanEvent = "clean"
)

// FocusWindow reports whether the panel has input focus.
type FocusWindow interface {
	IsFocused() bool
}

// MovableWindow notifies when the panel is moved.
type MovableWindow interface {
	FocusWindow
	OnMoved(fn func())
}

// HideableWindow is the part of the window manager the idle poller drives.
type HideableWindow interface {
	FocusWindow
	IsVisible() bool
	Hide() error
	Emit(event string, payload any) error
}

// Latch pins the panel when the user drags it while it has focus.
// It only ever sets the persistent pin.
type Latch struct {
	state *state.Shared
	win   MovableWindow
	log   *zap.Logger
}

func NewLatch(st *state.Shared, win MovableWindow) *Latch {
	return &Latch{state: st, win: win, log: logutil.Named("lifecycle.latch")}
}

// Attach subscribes to the window's move notifications.
func (l *Latch) Attach() {
	l.win.OnMoved(l.moved)
}

func (l *Latch) moved() {
	if !l.win.IsFocused() {
		return
	}
	if !l.state.PersistentPin() {
		l.log.Info("panel moved while focused, pinning")
	}
	l.state.SetPersistentPin(true)
}

type HiderOptions struct {
	Interval time.Duration
	// ReleaseTransientOnFocus clears the transient pin once the panel has been
	// focused, so that losing focus afterwards hides it. Without it the
	// transient pin, once set, keeps the panel from ever auto-hiding.
	ReleaseTransientOnFocus bool
}

// Hider hides the panel once it is neither pinned nor focused.
type Hider struct {
	state    *state.Shared
	win      HideableWindow
	interval time.Duration
	release  bool
	log      *zap.Logger
}

func NewHider(st *state.Shared, win HideableWindow, opts HiderOptions) *Hider {
	h := &Hider{
		state:    st,
		win:      win,
		interval: opts.Interval,
		release:  opts.ReleaseTransientOnFocus,
		log:      logutil.Named("lifecycle.hider"),
	}
	if h.interval <= 0 {
		h.interval = DefaultPollInterval
	}
	return h
}

// Run polls until ctx is cancelled.
func (h *Hider) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Tick()
		}
	}
}

// Tick runs one hide decision and reports whether the panel was hidden.
func (h *Hider) Tick() bool {
	focused := h.win.IsFocused()
	if focused && h.release && h.state.TransientPin() {
		h.log.Debug("panel focused, releasing transient pin")
		h.state.SetTransientPin(false)
	}

	if h.state.TransientPin() || h.state.PersistentPin() || focused {
		return false
	}
	// Hidden already; the hide request and clean notification went out when it was hidden.
	if !h.win.IsVisible() {
		return false
	}

	if err := h.win.Hide(); err != nil {
		h.log.Warn("failed to hide panel", zap.Error(err))
	}
	if err := h.win.Emit(CleanEvent, nil); err != nil {
		h.log.Warn("failed to clear panel", zap.Error(err))
	}
	h.state.SetPersistentPin(false)
	h.log.Debug("panel hidden")
	return true
}

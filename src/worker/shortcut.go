package worker

import (
	"context"

	"go.uber.org/zap"

	"pop-translate/src/logutil"
	"pop-translate/src/state"
	"pop-translate/src/trigger"
)

// Shortcut opens the panel on a double tap of the shortcut key, with clipboard
// fallback, unless the panel is already pinned open (the selection path owns it then).
type Shortcut struct {
	queue   *trigger.Channels
	state   *state.Shared
	resolve Resolver
	win     Shower
	log     *zap.Logger
}

func NewShortcut(queue *trigger.Channels, st *state.Shared, r Resolver, win Shower) *Shortcut {
	return &Shortcut{queue: queue, state: st, resolve: r, win: win, log: logutil.Named("worker.shortcut")}
}

// Run blocks until ctx is cancelled or the trigger queues are closed.
func (w *Shortcut) Run(ctx context.Context) error {
	return loop(ctx, w.log, w.queue.ShortcutC(), w.queue.Done(), w.handle)
}

func (w *Shortcut) handle() {
	if w.state.PersistentPin() {
		w.log.Debug("panel pinned, shortcut dropped")
		return
	}

	text := w.resolve.Resolve(true)
	w.state.SetTransientPin(true)
	if err := w.win.Show(text); err != nil {
		w.log.Error("failed to show panel", zap.Error(err))
	}
}

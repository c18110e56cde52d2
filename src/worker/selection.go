package worker

import (
	"context"

	"go.uber.org/zap"

	"pop-translate/src/logutil"
	"pop-translate/src/state"
	"pop-translate/src/trigger"
)

// Selection refreshes a pinned panel with newly selected text.
type Selection struct {
	queue   *trigger.Channels
	state   *state.Shared
	resolve Resolver
	win     Shower
	log     *zap.Logger
}

func NewSelection(queue *trigger.Channels, st *state.Shared, r Resolver, win Shower) *Selection {
	return &Selection{queue: queue, state: st, resolve: r, win: win, log: logutil.Named("worker.selection")}
}

// Run blocks until ctx is cancelled or the trigger queues are closed.
func (w *Selection) Run(ctx context.Context) error {
	return loop(ctx, w.log, w.queue.SelectionC(), w.queue.Done(), w.handle)
}

func (w *Selection) handle() {
	// The detector only emits while pinned, but the pin may have been released since.
	if !w.state.PersistentPin() {
		return
	}

	text := w.resolve.Resolve(false)
	if !w.state.SwapIfChanged(text) {
		w.log.Debug("selection unchanged, skipped")
		return
	}
	if err := w.win.Show(text); err != nil {
		w.log.Error("failed to show panel", zap.Error(err))
	}
}

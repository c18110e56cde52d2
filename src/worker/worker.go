package worker

import (
	"context"

	"go.uber.org/zap"
)

// Resolver fetches the text to act on. Implemented by content.Resolver.
type Resolver interface {
	Resolve(allowClipboardFallback bool) string
}

// Shower asks the window manager to show the panel with content.
type Shower interface {
	Show(content string) error
}

// loop waits on one trigger queue and invokes handle for every trigger until
// ctx is cancelled or the queues are closed. A panic in handle is logged and
// the loop continues with the next trigger.
func loop(ctx context.Context, log *zap.Logger, in, done <-chan struct{}, handle func()) error {
	log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping", zap.Error(ctx.Err()))
			return nil
		case <-done:
			log.Info("trigger queue closed, worker stopping")
			return nil
		case <-in:
			invoke(log, handle)
		}
	}
}

func invoke(log *zap.Logger, handle func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling trigger", zap.Any("panic", r))
		}
	}()
	handle()
}

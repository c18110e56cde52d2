package eventloop

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pop-translate/src/config"
	"pop-translate/src/content"
	"pop-translate/src/gesture"
	"pop-translate/src/hotkey"
	"pop-translate/src/lifecycle"
	"pop-translate/src/logutil"
	"pop-translate/src/singleinstance"
	"pop-translate/src/state"
	"pop-translate/src/trigger"
	"pop-translate/src/worker"
)

// Window is everything the loop needs from the panel. Implemented by popup.Panel.
type Window interface {
	worker.Shower
	lifecycle.HideableWindow
	lifecycle.MovableWindow
}

// InputSource delivers global input events. Implemented by hotkey.Source.
type InputSource interface {
	Listen(ctx context.Context, handle hotkey.Handler) error
}

type Deps struct {
	Window    Window
	Input     InputSource
	Clipboard content.Clipboard
	// Copy overrides the simulated copy chord.
	Copy content.CopyFunc
	// Cursor reports the pointer position for double-click detection.
	Cursor gesture.CursorFunc
	// Server is optional; when set, SHOW requests from other launches run the shortcut flow.
	Server singleinstance.Server
	// Watch optionally runs alongside the loop, e.g. the panel move watcher.
	Watch func(ctx context.Context) error
}

// Loop owns the shared state and runs every background task of the resident.
type Loop struct {
	state     *state.Shared
	queue     *trigger.Channels
	detector  *gesture.Detector
	shortcut  *worker.Shortcut
	selection *worker.Selection
	latch     *lifecycle.Latch
	hider     *lifecycle.Hider
	input     InputSource
	srv       singleinstance.Server
	watch     func(ctx context.Context) error
	log       *zap.Logger
}

// New wires the components described by cfg. It fails if the shortcut key is unknown
// or a required dependency is missing.
func New(cfg *config.Config, deps Deps) (*Loop, error) {
	if cfg == nil {
		return nil, errors.New("eventloop: nil config")
	}
	if deps.Window == nil || deps.Input == nil || deps.Clipboard == nil {
		return nil, errors.New("eventloop: window, input and clipboard are required")
	}
	codes, err := hotkey.ParseKey(cfg.ShortcutKey)
	if err != nil {
		return nil, fmt.Errorf("shortcut key: %w", err)
	}

	st := state.New()
	queue := trigger.New()
	resolver := content.New(deps.Clipboard, content.Options{
		Copy:        deps.Copy,
		CopyTimeout: cfg.CopyTimeout,
	})

	return &Loop{
		state: st,
		queue: queue,
		detector: gesture.NewDetector(queue, st, gesture.Options{
			ShortcutCodes:     codes,
			DoubleTapWindow:   cfg.DoubleTapWindow,
			DragThreshold:     cfg.DragThreshold,
			DoubleClickWindow: cfg.DoubleClickWindow,
			Cursor:            deps.Cursor,
		}),
		shortcut:  worker.NewShortcut(queue, st, resolver, deps.Window),
		selection: worker.NewSelection(queue, st, resolver, deps.Window),
		latch:     lifecycle.NewLatch(st, deps.Window),
		hider: lifecycle.NewHider(st, deps.Window, lifecycle.HiderOptions{
			Interval:                cfg.HidePollInterval,
			ReleaseTransientOnFocus: cfg.ReleaseTransientPinOnFocus,
		}),
		input: deps.Input,
		srv:   deps.Server,
		watch: deps.Watch,
		log:   logutil.Named("eventloop"),
	}, nil
}

// State exposes the pins for the tray and the panel close button.
func (l *Loop) State() *state.Shared { return l.state }

// Run starts every task and blocks until ctx is cancelled and all of them have
// returned. A failing task is logged and stops on its own; the others keep running.
func (l *Loop) Run(ctx context.Context) error {
	defer l.queue.Close()

	if l.srv != nil {
		if err := l.srv.Start(ctx); err != nil {
			return fmt.Errorf("single instance: %w", err)
		}
		defer l.srv.Close()
	}
	l.latch.Attach()

	if err := l.runTasks(ctx); err != nil {
		l.log.Warn("event loop stopped with failed tasks", zap.Error(err))
		return nil
	}
	l.log.Info("event loop stopped")
	return nil
}

// runTasks blocks until every task has returned and reports the first failure.
// A plain Group: a failed task never cancels its siblings.
func (l *Loop) runTasks(ctx context.Context) error {
	var g errgroup.Group
	l.spawn(ctx, &g, "input", func(ctx context.Context) error {
		return l.input.Listen(ctx, l.detector.Handle)
	})
	l.spawn(ctx, &g, "shortcut-worker", l.shortcut.Run)
	l.spawn(ctx, &g, "selection-worker", l.selection.Run)
	l.spawn(ctx, &g, "idle-hider", l.hider.Run)
	if l.watch != nil {
		l.spawn(ctx, &g, "panel-watch", l.watch)
	}
	if l.srv != nil {
		l.spawn(ctx, &g, "single-instance", l.serve)
	}
	l.log.Info("event loop running")
	return g.Wait()
}

func (l *Loop) spawn(ctx context.Context, g *errgroup.Group, name string, task func(context.Context) error) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				l.log.Error("task panicked", zap.String("task", name), zap.Any("panic", r))
				err = fmt.Errorf("%s: panic: %v", name, r)
			}
		}()
		if taskErr := task(ctx); taskErr != nil && ctx.Err() == nil {
			l.log.Error("task stopped", zap.String("task", name), zap.Error(taskErr))
			return fmt.Errorf("%s: %w", name, taskErr)
		}
		return nil
	})
}

// serve forwards delegated SHOW requests onto the shortcut queue.
func (l *Loop) serve(ctx context.Context) error {
	for {
		conn, err := l.srv.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		l.handleConn(conn)
	}
}

func (l *Loop) handleConn(conn singleinstance.Conn) {
	defer conn.Close()
	log := l.log.With(zap.String("request_id", conn.ID()))
	switch conn.Request() {
	case singleinstance.RequestShow:
		if err := l.queue.Shortcut(); err != nil {
			log.Warn("delegated show rejected", zap.Error(err))
			_ = conn.RespondError(err.Error())
			return
		}
		log.Debug("delegated show queued")
		if err := conn.RespondSuccess(); err != nil {
			log.Warn("failed to answer delegated request", zap.Error(err))
		}
	default:
		_ = conn.RespondError(singleinstance.ErrUnknownRequest.Error())
	}
}

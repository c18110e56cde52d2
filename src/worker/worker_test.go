package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pop-translate/src/state"
	"pop-translate/src/trigger"
)

type fakeResolver struct {
	mu        sync.Mutex
	text      string
	fallbacks []bool
	panicNext bool
}

func (r *fakeResolver) Resolve(allowClipboardFallback bool) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicNext {
		r.panicNext = false
		panic("resolver exploded")
	}
	r.fallbacks = append(r.fallbacks, allowClipboardFallback)
	return r.text
}

func (r *fakeResolver) setText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = text
}

func (r *fakeResolver) calls() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.fallbacks...)
}

type fakeWindow struct {
	mu    sync.Mutex
	shown []string
	err   error
}

func (w *fakeWindow) Show(content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shown = append(w.shown, content)
	return w.err
}

func (w *fakeWindow) shows() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.shown...)
}

func start(t *testing.T, run func(context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("worker did not stop")
		}
	})
}

// emitAndDrain sends one trigger and waits until the worker took it off the queue.
func emitAndDrain(t *testing.T, emit func() error, queue <-chan struct{}) {
	t.Helper()
	require.NoError(t, emit())
	require.Eventually(t, func() bool { return len(queue) == 0 }, time.Second, 5*time.Millisecond)
}

func TestShortcutShowsWithFallback(t *testing.T) {
	q := trigger.New()
	st := state.New()
	res := &fakeResolver{text: "hello"}
	win := &fakeWindow{}
	start(t, NewShortcut(q, st, res, win).Run)

	require.NoError(t, q.Shortcut())

	require.Eventually(t, func() bool { return len(win.shows()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hello"}, win.shows())
	assert.Equal(t, []bool{true}, res.calls())
	assert.True(t, st.TransientPin())
}

func TestShortcutDroppedWhilePinned(t *testing.T) {
	q := trigger.New()
	st := state.New()
	st.SetPersistentPin(true)
	res := &fakeResolver{text: "hello"}
	win := &fakeWindow{}
	start(t, NewShortcut(q, st, res, win).Run)

	emitAndDrain(t, q.Shortcut, q.ShortcutC())
	time.Sleep(20 * time.Millisecond)

	assert.Empty(t, win.shows())
	assert.Empty(t, res.calls())
	assert.False(t, st.TransientPin())
}

func TestShortcutShowFailureKeepsWorkerAlive(t *testing.T) {
	q := trigger.New()
	st := state.New()
	res := &fakeResolver{text: "hello"}
	win := &fakeWindow{err: errors.New("window gone")}
	start(t, NewShortcut(q, st, res, win).Run)

	emitAndDrain(t, q.Shortcut, q.ShortcutC())
	require.Eventually(t, func() bool { return len(win.shows()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Shortcut())
	require.Eventually(t, func() bool { return len(win.shows()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestShortcutRecoversFromPanic(t *testing.T) {
	q := trigger.New()
	res := &fakeResolver{text: "after", panicNext: true}
	win := &fakeWindow{}
	start(t, NewShortcut(q, state.New(), res, win).Run)

	emitAndDrain(t, q.Shortcut, q.ShortcutC())
	require.NoError(t, q.Shortcut())

	require.Eventually(t, func() bool { return len(win.shows()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"after"}, win.shows())
}

func TestSelectionShowsWithoutFallback(t *testing.T) {
	q := trigger.New()
	st := state.New()
	st.SetPersistentPin(true)
	res := &fakeResolver{text: "selected"}
	win := &fakeWindow{}
	start(t, NewSelection(q, st, res, win).Run)

	require.NoError(t, q.Selection())

	require.Eventually(t, func() bool { return len(win.shows()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []bool{false}, res.calls())
	assert.Equal(t, "selected", st.LastContent())
}

func TestSelectionSuppressesDuplicates(t *testing.T) {
	q := trigger.New()
	st := state.New()
	st.SetPersistentPin(true)
	res := &fakeResolver{text: "same"}
	win := &fakeWindow{}
	start(t, NewSelection(q, st, res, win).Run)

	emitAndDrain(t, q.Selection, q.SelectionC())
	require.Eventually(t, func() bool { return len(res.calls()) == 1 }, time.Second, 5*time.Millisecond)
	emitAndDrain(t, q.Selection, q.SelectionC())
	require.Eventually(t, func() bool { return len(res.calls()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"same"}, win.shows(), "unchanged selection must not show twice")

	res.setText("different")
	require.NoError(t, q.Selection())
	require.Eventually(t, func() bool { return len(win.shows()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"same", "different"}, win.shows())
}

func TestSelectionRequiresPin(t *testing.T) {
	q := trigger.New()
	res := &fakeResolver{text: "selected"}
	win := &fakeWindow{}
	start(t, NewSelection(q, state.New(), res, win).Run)

	emitAndDrain(t, q.Selection, q.SelectionC())
	time.Sleep(20 * time.Millisecond)

	assert.Empty(t, res.calls())
	assert.Empty(t, win.shows())
}

func TestSelectionTreatsEmptyContentAsChange(t *testing.T) {
	q := trigger.New()
	st := state.New()
	st.SetPersistentPin(true)
	res := &fakeResolver{text: "A"}
	win := &fakeWindow{}
	start(t, NewSelection(q, st, res, win).Run)

	for i, text := range []string{"A", "", "A"} {
		res.setText(text)
		emitAndDrain(t, q.Selection, q.SelectionC())
		require.Eventually(t, func() bool { return len(win.shows()) == i+1 }, time.Second, 5*time.Millisecond)
	}

	assert.Equal(t, []string{"A", "", "A"}, win.shows())
	assert.Equal(t, "A", st.LastContent())
}

func TestWorkersStopWhenQueuesClose(t *testing.T) {
	q := trigger.New()
	st := state.New()
	done := make(chan error, 2)
	go func() { done <- NewShortcut(q, st, &fakeResolver{}, &fakeWindow{}).Run(context.Background()) }()
	go func() { done <- NewSelection(q, st, &fakeResolver{}, &fakeWindow{}).Run(context.Background()) }()

	q.Close()

	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop after close")
		}
	}
}

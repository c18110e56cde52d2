package gesture

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shiftCode = 160
	otherCode = 65
)

var base = time.UnixMilli(1_700_000_000_000)

type fakeEmitter struct {
	shortcuts  int
	selections int
	err        error
}

func (f *fakeEmitter) Shortcut() error {
	if f.err != nil {
		return f.err
	}
	f.shortcuts++
	return nil
}

func (f *fakeEmitter) Selection() error {
	if f.err != nil {
		return f.err
	}
	f.selections++
	return nil
}

type fakePins struct{ pinned bool }

func (p *fakePins) PersistentPin() bool { return p.pinned }

type fakeCursor struct {
	x, y int
	err  error
}

func (c *fakeCursor) position() (int, int, error) { return c.x, c.y, c.err }

type harness struct {
	d      *Detector
	emit   *fakeEmitter
	pins   *fakePins
	cursor *fakeCursor
	now    time.Time
}

func newHarness(pinned bool) *harness {
	h := &harness{
		emit:   &fakeEmitter{},
		pins:   &fakePins{pinned: pinned},
		cursor: &fakeCursor{x: 10, y: 20},
		now:    base,
	}
	h.d = NewDetector(h.emit, h.pins, Options{
		ShortcutCodes: []uint16{shiftCode, 161},
		Cursor:        h.cursor.position,
		Now:           func() time.Time { return h.now },
	})
	return h
}

func (h *harness) at(ms int64) *harness {
	h.now = base.Add(time.Duration(ms) * time.Millisecond)
	return h
}

func (h *harness) key(t *testing.T, code uint16) {
	t.Helper()
	require.NoError(t, h.d.Handle(Event{Kind: KeyRelease, Code: code}))
}

func (h *harness) press(t *testing.T) {
	t.Helper()
	require.NoError(t, h.d.Handle(Event{Kind: ButtonPress, Button: Left}))
}

func (h *harness) release(t *testing.T) {
	t.Helper()
	require.NoError(t, h.d.Handle(Event{Kind: ButtonRelease, Button: Left}))
}

func TestDoubleTapShortcut(t *testing.T) {
	tests := []struct {
		name  string
		steps func(t *testing.T, h *harness)
		want  int
	}{
		{
			name: "Two releases within window",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, shiftCode)
				h.at(400).key(t, shiftCode)
			},
			want: 1,
		},
		{
			name: "Intervening key breaks the tap",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, shiftCode)
				h.at(200).key(t, otherCode)
				h.at(400).key(t, shiftCode)
			},
			want: 0,
		},
		{
			name: "Gap of exactly one second does not trigger",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, shiftCode)
				h.at(1000).key(t, shiftCode)
			},
			want: 0,
		},
		{
			name: "Late release becomes the new reference",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, shiftCode)
				h.at(1000).key(t, shiftCode)
				h.at(1999).key(t, shiftCode)
			},
			want: 1,
		},
		{
			name: "Triple tap emits once and resets",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, shiftCode)
				h.at(100).key(t, shiftCode)
				h.at(200).key(t, shiftCode)
			},
			want: 1,
		},
		{
			name: "Four quick taps emit twice",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, shiftCode)
				h.at(100).key(t, shiftCode)
				h.at(200).key(t, shiftCode)
				h.at(300).key(t, shiftCode)
			},
			want: 2,
		},
		{
			name: "Left and right variants both count",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, shiftCode)
				h.at(300).key(t, 161)
			},
			want: 1,
		},
		{
			name: "Other keys alone never trigger",
			steps: func(t *testing.T, h *harness) {
				h.at(0).key(t, otherCode)
				h.at(100).key(t, otherCode)
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(false)
			tt.steps(t, h)
			assert.Equal(t, tt.want, h.emit.shortcuts)
			assert.Zero(t, h.emit.selections)
		})
	}
}

func TestShortcutWorksWhilePinned(t *testing.T) {
	h := newHarness(true)
	h.at(0).key(t, shiftCode)
	h.at(400).key(t, shiftCode)

	assert.Equal(t, 1, h.emit.shortcuts, "the detector does not gate the shortcut on the pin")
}

func TestMouseIgnoredWhenNotPinned(t *testing.T) {
	h := newHarness(false)
	h.at(0).press(t)
	h.at(600).release(t)
	h.at(700).press(t)
	h.at(750).release(t)
	h.at(800).press(t)
	h.at(850).release(t)

	assert.Zero(t, h.emit.selections)
}

func TestDragSelection(t *testing.T) {
	tests := []struct {
		name    string
		holdMs  int64
		trigger bool
	}{
		{"Long hold", 600, true},
		{"Exactly at threshold", 500, true},
		{"Just below threshold", 499, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			h.at(0).press(t)
			h.at(tt.holdMs).release(t)

			if tt.trigger {
				assert.Equal(t, 1, h.emit.selections)
			} else {
				assert.Zero(t, h.emit.selections)
			}
		})
	}
}

func TestDragIgnoresDoubleClickState(t *testing.T) {
	h := newHarness(true)
	h.at(0).press(t)
	h.at(100).release(t)

	h.cursor.x, h.cursor.y = 500, 500
	h.at(150).press(t)
	h.at(800).release(t)

	assert.Equal(t, 1, h.emit.selections)
}

func TestDoubleClickInPlace(t *testing.T) {
	h := newHarness(true)
	h.at(0).press(t)
	h.at(100).release(t)
	assert.Zero(t, h.emit.selections, "first click only sets the reference")

	h.at(150).press(t)
	h.at(300).release(t)
	assert.Equal(t, 1, h.emit.selections)
}

func TestDoubleClickRequiresSamePosition(t *testing.T) {
	h := newHarness(true)
	h.at(0).press(t)
	h.at(100).release(t)

	h.cursor.x = 11
	h.at(150).press(t)
	h.at(300).release(t)
	assert.Zero(t, h.emit.selections)

	// The moved click became the new reference point.
	h.at(350).press(t)
	h.at(400).release(t)
	assert.Equal(t, 1, h.emit.selections)
}

func TestDoubleClickGapBoundary(t *testing.T) {
	h := newHarness(true)
	h.at(0).press(t)
	h.at(100).release(t)

	h.at(550).press(t)
	h.at(600).release(t)
	assert.Zero(t, h.emit.selections, "a gap of exactly 500ms is not a double click")

	h.at(1050).press(t)
	h.at(1099).release(t)
	assert.Equal(t, 1, h.emit.selections)
}

func TestCursorFailureLeavesStateUntouched(t *testing.T) {
	h := newHarness(true)
	h.at(0).press(t)
	h.at(100).release(t)

	h.cursor.err = errors.New("no pointer")
	h.at(150).press(t)
	h.at(200).release(t)
	assert.Zero(t, h.emit.selections)

	h.cursor.err = nil
	h.at(250).press(t)
	h.at(300).release(t)
	assert.Equal(t, 1, h.emit.selections, "reference from the first click must survive the failed query")
}

func TestNonLeftButtonsIgnored(t *testing.T) {
	h := newHarness(true)
	require.NoError(t, h.at(0).d.Handle(Event{Kind: ButtonPress, Button: Right}))
	require.NoError(t, h.at(900).d.Handle(Event{Kind: ButtonRelease, Button: Right}))
	require.NoError(t, h.at(950).d.Handle(Event{Kind: Other}))

	assert.Zero(t, h.emit.selections)
	assert.Zero(t, h.emit.shortcuts)
}

func TestClockBeforeEpochSkipsEvent(t *testing.T) {
	h := newHarness(true)
	h.now = time.UnixMilli(-5000)

	h.key(t, shiftCode)
	h.key(t, shiftCode)
	h.press(t)
	h.release(t)

	assert.Zero(t, h.emit.shortcuts)
	assert.Zero(t, h.emit.selections)
}

func TestEmitterFailureIsReturned(t *testing.T) {
	h := newHarness(true)
	h.emit.err = errors.New("closed")

	require.NoError(t, h.at(0).d.Handle(Event{Kind: KeyRelease, Code: shiftCode}))
	err := h.at(100).d.Handle(Event{Kind: KeyRelease, Code: shiftCode})
	assert.Error(t, err)

	require.NoError(t, h.at(200).d.Handle(Event{Kind: ButtonPress, Button: Left}))
	err = h.at(900).d.Handle(Event{Kind: ButtonRelease, Button: Left})
	assert.Error(t, err)
}

func TestCustomThresholds(t *testing.T) {
	emit := &fakeEmitter{}
	now := base
	d := NewDetector(emit, &fakePins{}, Options{
		ShortcutCodes:   []uint16{shiftCode},
		DoubleTapWindow: 300 * time.Millisecond,
		Now:             func() time.Time { return now },
	})

	require.NoError(t, d.Handle(Event{Kind: KeyRelease, Code: shiftCode}))
	now = base.Add(400 * time.Millisecond)
	require.NoError(t, d.Handle(Event{Kind: KeyRelease, Code: shiftCode}))

	assert.Zero(t, emit.shortcuts)
}

func TestLeftShiftOnlyIgnoresRightShift(t *testing.T) {
	emit := &fakeEmitter{}
	now := base
	d := NewDetector(emit, &fakePins{}, Options{
		ShortcutCodes: []uint16{shiftCode},
		Now:           func() time.Time { return now },
	})
	release := func(ms int64, code uint16) {
		now = base.Add(time.Duration(ms) * time.Millisecond)
		require.NoError(t, d.Handle(Event{Kind: KeyRelease, Code: code}))
	}

	release(0, shiftCode)
	release(100, 161)
	assert.Zero(t, emit.shortcuts, "left then right shift is not a double tap")

	release(200, shiftCode)
	assert.Zero(t, emit.shortcuts, "right shift reset the tap window")

	release(300, shiftCode)
	assert.Equal(t, 1, emit.shortcuts)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "key-release(160)", Event{Kind: KeyRelease, Code: 160}.String())
	assert.Equal(t, "button-press(button=1)", Event{Kind: ButtonPress, Button: Left}.String())
}

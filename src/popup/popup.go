package popup

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"pop-translate/src/display"
	"pop-translate/src/lifecycle"
	"pop-translate/src/logutil"
)

const (
	CleanEvent   = lifecycle.CleanEvent
	ContentEvent = "content"

	movePollInterval = 50 * time.Millisecond
)

// tracker reads and positions the native window behind the fyne window.
// Platforms without native access report ok=false and the panel falls back
// to fyne lifecycle focus events and never reports moves.
type tracker interface {
	Focused() (focused, ok bool)
	Rect() (image.Rectangle, bool)
	MoveTo(origin image.Point) error
}

type noTracker struct{}

func (noTracker) Focused() (bool, bool)         { return false, false }
func (noTracker) Rect() (image.Rectangle, bool) { return image.Rectangle{}, false }
func (noTracker) MoveTo(image.Point) error      { return nil }

// LocateFunc returns the pointer position and the display layout.
type LocateFunc func() (cursor image.Point, displays []image.Rectangle, err error)

type Options struct {
	Title  string
	Width  float32
	Height float32
	Locate LocateFunc
}

// Panel is the floating result window.
type Panel struct {
	win     fyne.Window
	text    *widget.Label
	native  tracker
	locate  LocateFunc
	log     *zap.Logger
	focused atomic.Bool
	visible atomic.Bool

	mu      sync.Mutex
	moved   []func()
	closed  []func()
	last    image.Point
	hasLast bool
}

// New creates the panel window on app. It starts hidden.
func New(app fyne.App, opts Options) *Panel {
	if opts.Title == "" {
		opts.Title = "Pop Translate"
	}
	if opts.Locate == nil {
		opts.Locate = locateCursor
	}

	p := &Panel{
		win:    app.NewWindow(opts.Title),
		text:   widget.NewLabel(""),
		locate: opts.Locate,
		log:    logutil.Named("popup"),
	}
	p.native = newTracker(opts.Title)
	p.text.Wrapping = fyne.TextWrapWord

	p.win.SetContent(container.NewVScroll(p.text))
	p.win.Resize(fyne.NewSize(opts.Width, opts.Height))
	p.win.SetCloseIntercept(p.userClosed)

	lc := app.Lifecycle()
	lc.SetOnEnteredForeground(func() { p.focused.Store(true) })
	lc.SetOnExitedForeground(func() { p.focused.Store(false) })
	return p
}

// Show displays content and raises the panel next to the pointer.
func (p *Panel) Show(content string) error {
	p.visible.Store(true)
	fyne.DoAndWait(func() {
		p.text.SetText(content)
		p.win.Show()
		p.win.RequestFocus()
	})
	if err := p.placeNearCursor(); err != nil {
		p.log.Warn("failed to position panel", zap.Error(err))
	}
	p.log.Debug("panel shown", zap.String("content", logutil.Truncate(content, 50)))
	return nil
}

// Hide hides the panel.
func (p *Panel) Hide() error {
	p.visible.Store(false)
	p.mu.Lock()
	p.hasLast = false
	p.mu.Unlock()
	fyne.Do(p.win.Hide)
	return nil
}

// IsFocused reports whether the panel window has input focus.
func (p *Panel) IsFocused() bool {
	if f, ok := p.native.Focused(); ok {
		return f
	}
	return p.focused.Load()
}

// IsVisible reports whether the panel is currently shown.
func (p *Panel) IsVisible() bool { return p.visible.Load() }

// Emit delivers an event to the panel content. "clean" clears the text and
// "content" replaces it with a string payload. Other events are ignored.
func (p *Panel) Emit(event string, payload any) error {
	switch event {
	case CleanEvent:
		fyne.Do(func() { p.text.SetText("") })
		return nil
	case ContentEvent:
		s, ok := payload.(string)
		if !ok {
			return fmt.Errorf("content payload must be a string, got %T", payload)
		}
		fyne.Do(func() { p.text.SetText(s) })
		return nil
	default:
		p.log.Warn("ignoring unknown panel event", zap.String("event", event))
		return nil
	}
}

// OnMoved registers fn to run whenever the user moves the visible panel.
func (p *Panel) OnMoved(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moved = append(p.moved, fn)
}

// OnClosed registers fn to run when the user closes the panel from its title bar.
func (p *Panel) OnClosed(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, fn)
}

// Text returns the text currently shown.
func (p *Panel) Text() string { return p.text.Text }

// Watch samples the native window position and reports moves until ctx is cancelled.
func (p *Panel) Watch(ctx context.Context) error {
	ticker := time.NewTicker(movePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.sample()
		}
	}
}

func (p *Panel) sample() {
	if !p.visible.Load() {
		return
	}
	// Rect is read under mu so a concurrent placement is either fully before or fully after it.
	p.mu.Lock()
	r, ok := p.native.Rect()
	if !ok {
		p.mu.Unlock()
		return
	}
	moved := p.hasLast && r.Min != p.last
	p.last, p.hasLast = r.Min, true
	var callbacks []func()
	if moved {
		callbacks = append(callbacks, p.moved...)
	}
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (p *Panel) placeNearCursor() error {
	r, ok := p.native.Rect()
	if !ok {
		return nil
	}
	cursor, displays, err := p.locate()
	if err != nil {
		return err
	}
	origin := display.Place(displays, cursor, r.Size())

	// Held across the move so the watcher does not report our own repositioning.
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.native.MoveTo(origin); err != nil {
		return err
	}
	p.last, p.hasLast = origin, true
	return nil
}

func (p *Panel) userClosed() {
	_ = p.Hide()
	p.mu.Lock()
	callbacks := append([]func(){}, p.closed...)
	p.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

func locateCursor() (image.Point, []image.Rectangle, error) {
	x, y, err := display.CursorPosition()
	if err != nil {
		return image.Point{}, nil, err
	}
	return image.Pt(x, y), display.Bounds(), nil
}

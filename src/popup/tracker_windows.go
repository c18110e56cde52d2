//go:build windows

package popup

import (
	"fmt"
	"image"
	"sync"
	"syscall"

	"github.com/lxn/win"
)

// winTracker finds the panel's HWND by title and queries it through user32.
type winTracker struct {
	title *uint16

	mu   sync.Mutex
	hwnd win.HWND
}

func newTracker(title string) tracker {
	ptr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return noTracker{}
	}
	return &winTracker{title: ptr}
}

func (t *winTracker) handle() (win.HWND, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hwnd != 0 && win.IsWindow(t.hwnd) {
		return t.hwnd, true
	}
	t.hwnd = win.FindWindow(nil, t.title)
	return t.hwnd, t.hwnd != 0
}

func (t *winTracker) Focused() (bool, bool) {
	hwnd, ok := t.handle()
	if !ok {
		return false, false
	}
	return win.GetForegroundWindow() == hwnd, true
}

func (t *winTracker) Rect() (image.Rectangle, bool) {
	hwnd, ok := t.handle()
	if !ok {
		return image.Rectangle{}, false
	}
	var r win.RECT
	if !win.GetWindowRect(hwnd, &r) {
		return image.Rectangle{}, false
	}
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)), true
}

func (t *winTracker) MoveTo(origin image.Point) error {
	hwnd, ok := t.handle()
	if !ok {
		return fmt.Errorf("panel window not found")
	}
	if !win.SetWindowPos(hwnd, win.HWND_TOPMOST, int32(origin.X), int32(origin.Y), 0, 0, win.SWP_NOSIZE) {
		return fmt.Errorf("SetWindowPos failed")
	}
	return nil
}

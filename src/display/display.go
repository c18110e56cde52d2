package display

import (
	"errors"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when no active display is attached.
var ErrNoDisplay = errors.New("no active displays found")

// cursorOffset keeps the panel from covering the text under the pointer.
var cursorOffset = image.Pt(12, 16)

// Bounds returns the bounds of every active display in virtual-screen coordinates.
func Bounds() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	bounds := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return bounds
}

// CursorPosition returns the pointer location in virtual-screen coordinates.
func CursorPosition() (int, int, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return 0, 0, ErrNoDisplay
	}
	x, y := robotgo.Location()
	return x, y, nil
}

// Place returns the top-left corner for a panel of the given size shown next
// to cursor. The panel flips to the other side of the pointer when it would
// overflow the display containing the pointer and is clamped to that display.
func Place(displays []image.Rectangle, cursor, size image.Point) image.Point {
	origin := cursor.Add(cursorOffset)
	screen, ok := containing(displays, cursor)
	if !ok {
		return origin
	}

	if origin.X+size.X > screen.Max.X {
		origin.X = cursor.X - cursorOffset.X - size.X
	}
	if origin.Y+size.Y > screen.Max.Y {
		origin.Y = cursor.Y - cursorOffset.Y - size.Y
	}
	origin.X = clamp(origin.X, screen.Min.X, screen.Max.X-size.X)
	origin.Y = clamp(origin.Y, screen.Min.Y, screen.Max.Y-size.Y)
	return origin
}

func containing(displays []image.Rectangle, p image.Point) (image.Rectangle, bool) {
	for _, d := range displays {
		if p.In(d) {
			return d, true
		}
	}
	if len(displays) > 0 {
		return displays[0], true
	}
	return image.Rectangle{}, false
}

// clamp prefers lo when the range is empty (panel larger than the display).
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

//go:build !windows

package popup

// Without native window access focus comes from fyne lifecycle events and
// moves are not reported.
func newTracker(string) tracker { return noTracker{} }

package clipboard

import (
	"testing"
)

func TestWriteRead(t *testing.T) {
	// Requires a desktop session; skip where the clipboard cannot be initialised.
	if err := Init(); err != nil {
		t.Skipf("clipboard unavailable: %v", err)
	}
	if err := Write("pop-translate test"); err != nil {
		t.Fatalf("Failed to write to clipboard: %v", err)
	}
	if got := (System{}).Read(); got != "pop-translate test" {
		t.Logf("clipboard read back %q (another process may own the clipboard)", got)
	}
}

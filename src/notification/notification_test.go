package notification

import (
	"runtime"
	"testing"
)

func TestShowBlockingError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("blocks on a modal dialog on Windows")
	}
	ShowBlockingError("Startup failed", "test message")
}

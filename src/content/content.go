package content

import (
	"runtime"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"pop-translate/src/logutil"
)

const (
	DefaultCopyTimeout = 300 * time.Millisecond
	pollInterval       = 15 * time.Millisecond
)

// Clipboard is the text clipboard used to receive the simulated copy.
type Clipboard interface {
	Read() string
	Write(text string) error
}

// CopyFunc presses the platform copy chord in the focused application.
type CopyFunc func() error

type Options struct {
	Copy        CopyFunc
	CopyTimeout time.Duration
}

// Resolver retrieves the text the user is pointing at by simulating a copy.
// Calls are slow (up to CopyTimeout) and must not run on the hook goroutine.
type Resolver struct {
	clip    Clipboard
	copy    CopyFunc
	timeout time.Duration
	log     *zap.Logger
}

func New(clip Clipboard, opts Options) *Resolver {
	r := &Resolver{
		clip:    clip,
		copy:    opts.Copy,
		timeout: opts.CopyTimeout,
		log:     logutil.Named("content"),
	}
	if r.copy == nil {
		r.copy = SimulateCopy
	}
	if r.timeout <= 0 {
		r.timeout = DefaultCopyTimeout
	}
	return r
}

// Resolve returns the current selection. The clipboard is cleared, the copy
// chord pressed and the clipboard polled until text shows up; the previous
// clipboard content is put back afterwards. When nothing was copied and
// allowClipboardFallback is set, the previous clipboard text is returned.
func (r *Resolver) Resolve(allowClipboardFallback bool) string {
	prev := r.clip.Read()
	if err := r.clip.Write(""); err != nil {
		r.log.Warn("failed to clear clipboard", zap.Error(err))
	}

	var copied string
	if err := r.copy(); err != nil {
		r.log.Warn("failed to simulate copy", zap.Error(err))
	} else {
		copied = r.await()
	}

	if err := r.clip.Write(prev); err != nil {
		r.log.Warn("failed to restore clipboard", zap.Error(err))
	}

	if text := strings.TrimSpace(copied); text != "" {
		r.log.Debug("resolved selection", zap.String("text", logutil.Truncate(text, 50)))
		return text
	}
	if allowClipboardFallback {
		r.log.Debug("nothing selected, using clipboard", zap.Int("len", len(prev)))
		return strings.TrimSpace(prev)
	}
	return ""
}

func (r *Resolver) await() string {
	deadline := time.Now().Add(r.timeout)
	for {
		if text := r.clip.Read(); text != "" {
			return text
		}
		if time.Now().After(deadline) {
			return ""
		}
		time.Sleep(pollInterval)
	}
}

// SimulateCopy taps Cmd+C on macOS and Ctrl+C elsewhere.
func SimulateCopy() error {
	mod := "ctrl"
	if runtime.GOOS == "darwin" {
		mod = "cmd"
	}
	return robotgo.KeyTap("c", mod)
}

package state

import (
	"sync"
	"sync/atomic"
)

// Shared holds the process-wide panel state read and written by every task.
// Pins are single-word flags; the last selection content needs a lock because
// it is compared and then replaced.
type Shared struct {
	persistentPin atomic.Bool
	transientPin  atomic.Bool

	mu          sync.Mutex
	lastContent string
}

// New returns a Shared with both pins unset and no remembered content.
func New() *Shared { return &Shared{} }

// PersistentPin reports whether the user asked to keep the panel open.
func (s *Shared) PersistentPin() bool { return s.persistentPin.Load() }

func (s *Shared) SetPersistentPin(v bool) { s.persistentPin.Store(v) }

// TransientPin reports whether the panel was just opened by the shortcut.
func (s *Shared) TransientPin() bool { return s.transientPin.Load() }

func (s *Shared) SetTransientPin(v bool) { s.transientPin.Store(v) }

// ResetPins clears both pins. Used by the tray "Unpin" action.
func (s *Shared) ResetPins() {
	s.persistentPin.Store(false)
	s.transientPin.Store(false)
}

// SwapIfChanged stores content as the last resolved selection and returns true,
// unless it equals the stored value, in which case nothing changes and it returns false.
func (s *Shared) SwapIfChanged(content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content == s.lastContent {
		return false
	}
	s.lastContent = content
	return true
}

// LastContent returns the last resolved selection content.
func (s *Shared) LastContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastContent
}

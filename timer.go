package cascade

import "sync"

// timerState tracks the single in-flight timer an attachment may own.
// The central invariant for Debounce and Rebound lives here: a new
// timer always cancels the prior one before replacing it, and a
// superseded timer can never emit even if its clock channel has already
// fired.
type timerState struct {
	mu     sync.Mutex
	cancel chan struct{}
}

// replace cancels any pending timer and installs a new cancel channel,
// reporting whether a pending timer was displaced.
func (s *timerState) replace() (chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	displaced := s.cancel != nil
	if displaced {
		close(s.cancel)
	}
	s.cancel = make(chan struct{})
	return s.cancel, displaced
}

// claim releases timer ownership if cancel is still the live handle.
// A false result means the timer was superseded between its clock
// firing and this check, and it must not emit.
func (s *timerState) claim(cancel chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != cancel {
		return false
	}
	s.cancel = nil
	return true
}

package auth

import "sync"

// SessionStatus is the resolution state of the caller's session for one render.
type SessionStatus string

const (
	StatusLoading         SessionStatus = "loading"
	StatusAuthenticated   SessionStatus = "authenticated"
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// Terminal reports whether s is a resolved status.
func (s SessionStatus) Terminal() bool {
	return s == StatusAuthenticated || s == StatusUnauthenticated
}

// StatusOf maps a session lookup result to a terminal status.
func StatusOf(s *Session) SessionStatus {
	if s == nil {
		return StatusUnauthenticated
	}
	return StatusAuthenticated
}

// StatusTracker records the status observed by one mount.
// Once a terminal status has been seen, loading is never reported again.
type StatusTracker struct {
	mu          sync.Mutex
	current     SessionStatus
	transitions int
}

// NewStatusTracker starts a tracker in the loading state.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{current: StatusLoading}
}

// Observe feeds an upstream status and returns the effective one.
func (t *StatusTracker) Observe(s SessionStatus) SessionStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !s.Terminal() {
		// upstream may re-report loading while refetching; keep the resolved value
		return t.current
	}
	if !t.current.Terminal() {
		t.transitions++
	}
	t.current = s
	return t.current
}

// Current returns the effective status.
func (t *StatusTracker) Current() SessionStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Resolved reports how many loading -> terminal transitions happened (0 or 1).
func (t *StatusTracker) Resolved() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitions
}

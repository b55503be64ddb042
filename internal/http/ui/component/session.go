package component

import (
	"context"
	"fmt"
	"io"
	"sync"

	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
)

// SessionResolver looks up the caller's session; nil with a nil error means none.
type SessionResolver func(ctx context.Context) (*domainauth.Session, error)

// SessionProvider resolves the session once per render and hands the effective status
// and snapshot to Child. The snapshot is nil unless the status is authenticated.
// The provider owns one StatusTracker for its lifetime, so once resolved it never
// reports loading again.
type SessionProvider struct {
	Resolve SessionResolver
	Child   func(status domainauth.SessionStatus, snap *domainauth.Snapshot) Component

	once    sync.Once
	tracker *domainauth.StatusTracker
}

// Status is the effective status: loading until the first render resolves it.
func (p *SessionProvider) Status() domainauth.SessionStatus {
	return p.statusTracker().Current()
}

func (p *SessionProvider) statusTracker() *domainauth.StatusTracker {
	p.once.Do(func() { p.tracker = domainauth.NewStatusTracker() })
	return p.tracker
}

func (p *SessionProvider) Render(ctx context.Context, w io.Writer) error {
	tracker := p.statusTracker()

	var sess *domainauth.Session
	if p.Resolve != nil {
		s, err := p.Resolve(ctx)
		if err != nil {
			return fmt.Errorf("resolve session: %w", err)
		}
		sess = s
	}

	status := tracker.Observe(domainauth.StatusOf(sess))
	var snap *domainauth.Snapshot
	if status == domainauth.StatusAuthenticated && sess != nil {
		s := sess.Snapshot()
		snap = &s
	}
	if p.Child == nil {
		return nil
	}
	return orNothing(p.Child(status, snap)).Render(ctx, w)
}

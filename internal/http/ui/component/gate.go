package component

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
)

// DefaultLoginPath is used when a Gate has no LoginPath.
const DefaultLoginPath = "/auth/signin"

// Navigator moves the client to another location.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string) error

func (f NavigatorFunc) Navigate(ctx context.Context, path string) error { return f(ctx, path) }

// Gate renders Child only for an authenticated session.
//
// Loading (and any unrecognised status) renders Placeholder. Unauthenticated asks
// Navigator to go to LoginPath and renders nothing; a gate navigates at most once.
type Gate struct {
	Status      domainauth.SessionStatus
	Placeholder Component
	LoginPath   string
	Navigator   Navigator
	Child       Component

	navigated atomic.Bool
}

func (g *Gate) Render(ctx context.Context, w io.Writer) error {
	switch g.Status {
	case domainauth.StatusAuthenticated:
		return orNothing(g.Child).Render(ctx, w)
	case domainauth.StatusUnauthenticated:
		if g.Navigator == nil || !g.navigated.CompareAndSwap(false, true) {
			return nil
		}
		if err := g.Navigator.Navigate(ctx, g.loginPath()); err != nil {
			return fmt.Errorf("navigate to login: %w", err)
		}
		return nil
	default:
		return orNothing(g.Placeholder).Render(ctx, w)
	}
}

// Navigated reports whether the gate has issued its redirect.
func (g *Gate) Navigated() bool { return g.navigated.Load() }

func (g *Gate) loginPath() string {
	if g.LoginPath == "" {
		return DefaultLoginPath
	}
	return g.LoginPath
}

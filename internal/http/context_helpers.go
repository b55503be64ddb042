package httpx

import (
	"context"

	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

type sessionResult struct {
	session *domainauth.Session
	err     error
}

// SetSessionInContext records the outcome of the request's session lookup.
// A nil session with a nil error means the caller is signed out.
func SetSessionInContext(ctx context.Context, session *domainauth.Session, err error) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionResult{session: session, err: err})
}

// SessionFromContext returns the recorded lookup outcome; (nil, nil) when none was recorded.
func SessionFromContext(ctx context.Context) (*domainauth.Session, error) {
	res, _ := ctx.Value(sessionKey{}).(sessionResult)
	return res.session, res.err
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	s, err := SessionFromContext(ctx)
	if err != nil || s == nil {
		return nil, false
	}
	return s, true
}

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by the RequestID middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

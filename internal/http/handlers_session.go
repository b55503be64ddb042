package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
	"github.com/immochat/immochat-web/internal/observability/metrics"
	"github.com/immochat/immochat-web/internal/observability/statsd"
	"github.com/immochat/immochat-web/internal/ports"
)

// DefaultSessionProjection shapes the stored session into the echoed document.
const DefaultSessionProjection = "{user: {email: email, name: name, role: role}, expires: expires_at}"

// sessionEcho is the success body of the session-test endpoint; Session is null without a session.
type sessionEcho struct {
	Success   bool   `json:"success"`
	Session   any    `json:"session"`
	Timestamp string `json:"timestamp"`
}

// sessionEchoError is the failure body; it never carries a session field.
type sessionEchoError struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// SessionEchoHandlers echoes a sanitized projection of the caller's session.
type SessionEchoHandlers struct {
	sessions   ports.SessionReader
	projection string
	logger     *slog.Logger
	metrics    statsd.Sink
	now        func() time.Time
}

// SessionEchoOptions configures SessionEchoHandlers.
type SessionEchoOptions struct {
	Sessions ports.SessionReader
	// Projection is a JMESPath expression; empty selects DefaultSessionProjection.
	Projection string
	Observers  SessionEchoObservers
}

// SessionEchoObservers groups the optional logging, metrics and clock hooks.
type SessionEchoObservers struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
	Now     func() time.Time
}

// NewSessionEchoHandlers validates the projection expression.
func NewSessionEchoHandlers(opts SessionEchoOptions) (*SessionEchoHandlers, error) {
	expr := strings.TrimSpace(opts.Projection)
	if expr == "" {
		expr = DefaultSessionProjection
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile session projection: %w", err)
	}
	h := &SessionEchoHandlers{
		sessions:   opts.Sessions,
		projection: expr,
		logger:     opts.Observers.Logger,
		metrics:    opts.Observers.Metrics,
		now:        opts.Observers.Now,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h, nil
}

// SessionTest reports the current session, or null when there is none.
// GET /api/auth/session-test.
func (h *SessionEchoHandlers) SessionTest(w http.ResponseWriter, r *http.Request) {
	var id string
	if c, err := r.Cookie(SessionCookieName); err == nil {
		id = c.Value
	}

	sess, err := h.sessions.CurrentSession(r.Context(), id)
	var projected any
	if err == nil && sess != nil {
		projected, err = h.project(*sess)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "session test failed",
			slog.Any("error", err),
			slog.String("request_id", RequestIDFromContext(r.Context())),
		)
		metrics.EmitSessionEcho(h.metrics, "error")
		WriteJSON(w, http.StatusInternalServerError, sessionEchoError{
			Success:   false,
			Error:     err.Error(),
			Timestamp: h.timestamp(),
		})
		return
	}

	outcome := "none"
	if projected != nil {
		outcome = "active"
	}
	metrics.EmitSessionEcho(h.metrics, outcome)
	WriteJSON(w, http.StatusOK, sessionEcho{
		Success:   true,
		Session:   projected,
		Timestamp: h.timestamp(),
	})
}

func (h *SessionEchoHandlers) project(s domainauth.Session) (any, error) {
	doc := map[string]any{
		"id":         s.ID,
		"user_id":    s.UserID,
		"first_name": s.FirstName,
		"last_name":  s.LastName,
		"name":       s.DisplayName(),
		"email":      s.Email,
		"role":       string(s.Role),
		"expires_at": s.ExpiresAt.UTC().Format(time.RFC3339),
	}
	out, err := jmespath.Search(h.projection, doc)
	if err != nil {
		return nil, fmt.Errorf("project session: %w", err)
	}
	return out, nil
}

func (h *SessionEchoHandlers) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

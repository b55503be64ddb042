package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/immochat/immochat-web/internal/ports"
)

const (
	healthResponse        = `{"status":"ok"}`
	defaultReadinessLimit = 2 * time.Second
)

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	// Nothing more to do if the client connection is gone.
	_, _ = io.WriteString(w, healthResponse)
}

type readiness struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

// ReadinessHandler reports 503 while any dependency check fails.
// Checks that are skipped for the current configuration count as ready.
type ReadinessHandler struct {
	Checks  []ports.HealthCheck
	Timeout time.Duration
	Logger  *slog.Logger
}

func (h *ReadinessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultReadinessLimit
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	failed := h.failing(ctx)
	if len(failed) > 0 {
		WriteJSON(w, http.StatusServiceUnavailable, readiness{Status: "unavailable", Failed: failed})
		return
	}
	WriteJSON(w, http.StatusOK, readiness{Status: "ok"})
}

func (h *ReadinessHandler) failing(ctx context.Context) []string {
	var (
		mu     sync.Mutex
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, check := range h.Checks {
		g.Go(func() error {
			_, err := check.Check(gctx)
			if err == nil || errors.Is(err, ports.ErrCheckSkipped) {
				return nil
			}
			if h.Logger != nil {
				h.Logger.WarnContext(ctx, "readiness check failed", "check", check.Name(), "error", err)
			}
			mu.Lock()
			failed = append(failed, check.Name())
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(failed)
	return failed
}

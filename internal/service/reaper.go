package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/immochat/immochat-web/internal/observability/metrics"
	"github.com/immochat/immochat-web/internal/observability/statsd"
	"github.com/immochat/immochat-web/internal/ports"
)

// SessionReaperOptions groups dependencies for SessionReaper.
type SessionReaperOptions struct {
	Purger   ports.SessionPurger // Required
	Interval time.Duration       // Required, > 0
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// SessionReaper periodically deletes expired sessions from stores that do not
// expire them natively.
type SessionReaper struct {
	purger   ports.SessionPurger
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewSessionReaper constructs a SessionReaper.
func NewSessionReaper(opts SessionReaperOptions) (*SessionReaper, error) {
	if opts.Purger == nil {
		return nil, errors.New("session purger is required")
	}
	if opts.Interval <= 0 {
		return nil, errors.New("reaper interval must be positive")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionReaper{
		purger:   opts.Purger,
		interval: opts.Interval,
		logger:   logger.With("component", "session_reaper"),
		metrics:  opts.Metrics,
	}, nil
}

// Run purges once after a short jitter and then on every tick until ctx is done.
// It returns nil on cancellation.
func (s *SessionReaper) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting session reaper", "interval", s.interval)

	s.waitWithJitter(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() == nil {
			s.ReapOnce(ctx)
		}
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ReapOnce runs a single purge and reports how many sessions were removed.
func (s *SessionReaper) ReapOnce(ctx context.Context) int64 {
	n, err := s.purger.DeleteExpired(ctx)
	metrics.EmitSessionsReaped(s.metrics, n, err)
	switch {
	case err != nil && isContextCancellation(err):
		return n
	case err != nil:
		s.logger.WarnContext(ctx, "session purge failed", "error", err)
	case n > 0:
		s.logger.InfoContext(ctx, "expired sessions purged", "count", n)
	}
	return n
}

// waitWithJitter sleeps for up to 10% of the interval so replicas started together spread out.
func (s *SessionReaper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.interval / 10)
	if maxJitter <= 0 {
		return
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter))) // #nosec G115 - bounded by maxJitter

	t := time.NewTimer(jitter)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Package reaper runs the expired-session purge loop for the Postgres session store.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/immochat/immochat-web/internal/data"
	"github.com/immochat/immochat-web/internal/observability/statsd"
	"github.com/immochat/immochat-web/internal/ports"
	"github.com/immochat/immochat-web/internal/service"
)

// Runner wires the session reaper to the sessions table.
type Runner struct {
	reaper *service.SessionReaper
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB       *sql.DB
	Interval time.Duration
	Logger   *slog.Logger
	Metrics  statsd.Sink

	// Purger overrides the Postgres repository (tests).
	Purger ports.SessionPurger
}

// NewRunner creates a Runner. DB is required unless Purger is set.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	purger := opts.Purger
	if purger == nil {
		if opts.DB == nil {
			return nil, errors.New("database connection is required")
		}
		purger = data.NewSessionRepo(opts.DB)
	}

	reaper, err := service.NewSessionReaper(service.SessionReaperOptions{
		Purger:   purger,
		Interval: opts.Interval,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire session reaper: %w", err)
	}
	return &Runner{reaper: reaper, logger: opts.Logger}, nil
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper runner")
	return r.reaper.Run(ctx)
}

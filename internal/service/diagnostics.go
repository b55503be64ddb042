package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/immochat/immochat-web/internal/domain/diagnostics"
	"github.com/immochat/immochat-web/internal/observability/metrics"
	"github.com/immochat/immochat-web/internal/observability/statsd"
	"github.com/immochat/immochat-web/internal/ports"
)

const defaultCheckTimeout = 3 * time.Second

// DiagnosticsConfig tunes a diagnostics run.
type DiagnosticsConfig struct {
	CheckTimeout time.Duration
	// Required names checks whose failure aborts the run with a *CheckError.
	Required []string
	AuthMode string
}

// DiagnosticsObservers are optional sinks for run outcomes.
type DiagnosticsObservers struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
	Now     func() time.Time
}

// DiagnosticsServiceOptions groups dependencies for DiagnosticsService.
type DiagnosticsServiceOptions struct {
	Checks    []ports.HealthCheck
	Config    DiagnosticsConfig
	Observers DiagnosticsObservers
}

// DiagnosticsService runs the auth subsystem health checks concurrently.
type DiagnosticsService struct {
	checks  []ports.HealthCheck
	cfg     DiagnosticsConfig
	logger  *slog.Logger
	metrics statsd.Sink
	now     func() time.Time
}

var _ ports.DiagnosticsRunner = (*DiagnosticsService)(nil)

// CheckError reports a required check that failed.
type CheckError struct {
	Name string
	Err  error
}

func (e *CheckError) Error() string { return e.Name + ": " + e.Err.Error() }

func (e *CheckError) Unwrap() error { return e.Err }

// NewDiagnosticsService constructs a DiagnosticsService.
func NewDiagnosticsService(opts DiagnosticsServiceOptions) *DiagnosticsService {
	cfg := opts.Config
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = defaultCheckTimeout
	}
	logger := opts.Observers.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Observers.Now
	if now == nil {
		now = time.Now
	}
	return &DiagnosticsService{
		checks:  slices.Clone(opts.Checks),
		cfg:     cfg,
		logger:  logger.With("component", "diagnostics"),
		metrics: opts.Observers.Metrics,
		now:     now,
	}
}

// Run executes every check with its own timeout derived from ctx.
// Failing checks become fail items in the report. Run itself fails only when ctx
// ends or a required check fails; the partial report is returned alongside the error.
func (s *DiagnosticsService) Run(ctx context.Context) (diagnostics.Report, error) {
	start := s.now()
	report := diagnostics.Report{
		GeneratedAt: start.UTC(),
		AuthMode:    s.cfg.AuthMode,
		Checks:      make([]diagnostics.CheckResult, len(s.checks)),
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("diagnostics: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, check := range s.checks {
		g.Go(func() error {
			res, err := s.runOne(gctx, check)
			report.Checks[i] = res
			if err != nil && slices.Contains(s.cfg.Required, check.Name()) {
				return &CheckError{Name: check.Name(), Err: err}
			}
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil && ctx.Err() != nil {
		runErr = fmt.Errorf("diagnostics: %w", ctx.Err())
	}

	report.Summarize()
	metrics.EmitDiagnostics(s.metrics, report, s.now().Sub(start))
	if runErr != nil {
		return report, runErr
	}
	if report.HasFailures() {
		s.logger.WarnContext(ctx, "diagnostics found failing checks", "checks", failedNames(report))
	}
	return report, nil
}

// runOne returns the check result plus the check's error for fail results.
func (s *DiagnosticsService) runOne(ctx context.Context, check ports.HealthCheck) (res diagnostics.CheckResult, err error) {
	res.Name = check.Name()
	cctx, cancel := context.WithTimeout(ctx, s.cfg.CheckTimeout)
	defer cancel()

	started := s.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
			res.Status = diagnostics.StatusFail
			res.Message = err.Error()
		}
		res.DurationMS = s.now().Sub(started).Milliseconds()
	}()

	hint, err := check.Check(cctx)
	switch {
	case err == nil:
		res.Status = diagnostics.StatusPass
		res.Message = "ok"
	case errors.Is(err, ports.ErrCheckSkipped):
		res.Status = diagnostics.StatusSkip
		res.Message = err.Error()
		err = nil
	default:
		if errors.Is(err, context.DeadlineExceeded) && cctx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", s.cfg.CheckTimeout, err)
		}
		res.Status = diagnostics.StatusFail
		res.Message = err.Error()
		res.Hint = hint
	}
	return res, err
}

func failedNames(r diagnostics.Report) []string {
	var out []string
	for _, c := range r.Checks {
		if c.Status == diagnostics.StatusFail {
			out = append(out, c.Name)
		}
	}
	return out
}

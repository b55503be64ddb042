package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/immochat/immochat-web/config"
	"github.com/immochat/immochat-web/internal/adapters/reaper"
	"github.com/immochat/immochat-web/internal/observability/statsd"
)

const backgroundStopTimeout = 10 * time.Second

// Run wires every component for cfg and serves HTTP until SIGINT/SIGTERM or a fatal error.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	for _, p := range cfg.Problems() {
		logger.WarnContext(ctx, "configuration problem", "problem", p)
	}

	infra, err := ConnectInfra(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	if infra.DB != nil {
		if cfg.Postgres.RunMigrationsOnStart {
			if err = RunMigrations(ctx, infra.DB, logger); err != nil {
				return err
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	metricsClient, err := BuildMetrics(cfg.Observability.Metrics, logger)
	if err != nil {
		return fmt.Errorf("build metrics client: %w", err)
	}
	defer func() {
		if cerr := metricsClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics client failed", "error", cerr)
		}
	}()

	auth, err := BuildAuth(AuthConfig{
		Auth:        cfg.Auth,
		Redis:       cfg.Redis,
		RedisClient: infra.Redis,
		DB:          infra.DB,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build auth: %w", err)
	}

	checks := BuildHealthChecks(cfg, infra)
	diag := BuildDiagnostics(DiagnosticsDeps{Config: cfg, Checks: checks.All, Metrics: metricsClient, Logger: logger})

	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler, err := BuildHTTPHandler(serviceCtx, &HTTPServerConfig{
		Config:      cfg,
		Auth:        auth,
		Diagnostics: diag,
		Readiness:   checks.Readiness,
		Metrics:     metricsClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	var background sync.WaitGroup
	if err := startReaper(serviceCtx, cfg, infra, metricsClient, logger, &background, errCh); err != nil {
		return err
	}

	server := StartHTTPServer(cfg.HTTP, handler, logger, errCh)
	logger.InfoContext(ctx, "immochat web started",
		"auth_mode", cfg.Auth.Mode,
		"session_store", cfg.Auth.SessionStore,
		"dev", cfg.IsDev,
		"login_enabled", auth.Login != nil,
	)

	return waitForShutdown(shutdownState{
		ctx:        ctx,
		cancel:     cancel,
		errCh:      errCh,
		server:     server,
		httpConfig: cfg.HTTP,
		background: &background,
		logger:     logger,
	})
}

func startReaper(
	ctx context.Context,
	cfg *config.AppConfig,
	infra *Infra,
	metrics statsd.Sink,
	logger *slog.Logger,
	wg *sync.WaitGroup,
	errCh chan<- error,
) error {
	if cfg.Auth.SessionStore != config.SessionStorePostgres || cfg.Auth.SessionReapInterval == 0 {
		return nil
	}
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:       infra.DB,
		Interval: cfg.Auth.SessionReapInterval,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return fmt.Errorf("build session reaper: %w", err)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runner.Run(ctx); err != nil {
			errCh <- fmt.Errorf("session reaper: %w", err)
		}
	}()
	return nil
}

type shutdownState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	errCh      <-chan error
	server     *http.Server
	httpConfig config.HTTPConfig
	background *sync.WaitGroup
	logger     *slog.Logger
}

func waitForShutdown(s shutdownState) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		s.logger.InfoContext(s.ctx, "shutdown signal received", "signal", sig.String())
	case <-s.ctx.Done():
		s.logger.InfoContext(s.ctx, "context cancelled; shutting down")
	case runErr = <-s.errCh:
		s.logger.ErrorContext(s.ctx, "service error", "error", runErr)
	}

	s.cancel()
	stopErr := gracefulStop(s)
	if stopErr != nil {
		s.logger.ErrorContext(s.ctx, "graceful stop failed", "error", stopErr)
	}
	return errors.Join(runErr, stopErr)
}

func gracefulStop(s shutdownState) error {
	// The parent context may already be done; shutdown gets its own deadline.
	base := context.WithoutCancel(s.ctx)
	err := ShutdownHTTPServer(base, s.server, s.httpConfig, s.logger)

	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(backgroundStopTimeout):
		s.logger.WarnContext(base, "timeout waiting for background workers to stop")
	}
	return err
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	immochat "github.com/immochat/immochat-web"
	"github.com/immochat/immochat-web/config"
	httpx "github.com/immochat/immochat-web/internal/http"
	"github.com/immochat/immochat-web/internal/http/apispec"
	"github.com/immochat/immochat-web/internal/observability/statsd"
	"github.com/immochat/immochat-web/internal/ports"
)

// HTTPServerConfig contains the dependencies of the HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Auth        AuthComponents
	Diagnostics ports.DiagnosticsRunner
	Readiness   []ports.HealthCheck
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// BuildHTTPHandler validates the embedded API contract and builds the router.
// In dev mode templates are reloaded from disk until ctx is done.
func BuildHTTPHandler(ctx context.Context, cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	spec, err := apispec.Load(ctx, immochat.OpenAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load api contract: %w", err)
	}

	templates, err := buildTemplates(ctx, appCfg.IsDev, logger)
	if err != nil {
		return nil, err
	}

	services := httpx.RouterServices{
		Sessions:              cfg.Auth.Sessions,
		Diagnostics:           cfg.Diagnostics,
		Readiness:             cfg.Readiness,
		APISpec:               spec,
		Templates:             templates,
		HTTP:                  appCfg.HTTP,
		LoginPath:             appCfg.UI.LoginPath,
		Toast:                 appCfg.UI.ToastOptions(),
		SessionEchoProjection: appCfg.Auth.SessionEchoProjection,
		Metrics:               cfg.Metrics,
		IsDev:                 appCfg.IsDev,
		Logger:                logger,
	}
	// Assigned only when set so a nil *AuthService never becomes a non-nil interface.
	if cfg.Auth.Login != nil {
		services.Auth = cfg.Auth.Login
	} else {
		logger.Warn("login disabled; /auth routes are not served")
	}

	return httpx.NewRouter(services)
}

func buildTemplates(ctx context.Context, isDev bool, logger *slog.Logger) (*httpx.TemplateRenderer, error) {
	templateFS, err := httpx.TemplateFS(isDev)
	if err != nil {
		return nil, err
	}
	tr, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if isDev {
		if err := tr.Watch(ctx, httpx.TemplatePathFromRoot); err != nil {
			logger.Warn("template hot reload unavailable", "error", err)
		} else {
			logger.Info("template hot reload enabled", "dir", httpx.TemplatePathFromRoot)
		}
	}
	return tr, nil
}

// StartHTTPServer starts serving in the background. Listen failures are sent on errCh.
func StartHTTPServer(cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger, errCh chan<- error) *http.Server {
	addr := cfg.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server within cfg.ShutdownTimeout.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, cfg config.HTTPConfig, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	logger.InfoContext(ctx, "shutting down HTTP server")

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.InfoContext(ctx, "HTTP server stopped")
	return nil
}

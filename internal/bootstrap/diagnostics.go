package bootstrap

import (
	"log/slog"

	"github.com/immochat/immochat-web/config"
	"github.com/immochat/immochat-web/internal/adapters/healthcheck"
	"github.com/immochat/immochat-web/internal/adapters/oidc"
	redisadapter "github.com/immochat/immochat-web/internal/adapters/redis"
	"github.com/immochat/immochat-web/internal/data"
	"github.com/immochat/immochat-web/internal/observability/statsd"
	"github.com/immochat/immochat-web/internal/ports"
	"github.com/immochat/immochat-web/internal/service"
)

// HealthChecks are the probes shared by /readyz and the diagnostics report.
type HealthChecks struct {
	// All is the diagnostics set in report order: config, session_store, database, identity_provider.
	All []ports.HealthCheck
	// Readiness is the subset that gates traffic.
	Readiness []ports.HealthCheck
}

// BuildHealthChecks picks a check (or a skipped placeholder) for every dependency.
func BuildHealthChecks(cfg *config.AppConfig, infra *Infra) HealthChecks {
	if infra == nil {
		infra = &Infra{}
	}

	var sessionStore ports.HealthCheck
	switch cfg.Auth.SessionStore {
	case config.SessionStorePostgres:
		sessionStore = &data.PingCheck{DB: infra.DB, CheckName: "session_store"}
	default:
		sessionStore = &redisadapter.PingCheck{Client: infra.Redis}
	}

	var database ports.HealthCheck = healthcheck.Skipped{CheckName: "database", Reason: "DB_ENABLED=false"}
	if cfg.Postgres.Enabled {
		database = &data.PingCheck{DB: infra.DB}
	}

	var idp ports.HealthCheck = healthcheck.Skipped{CheckName: "identity_provider", Reason: "AUTH_MODE=mock"}
	if cfg.Auth.Mode == config.AuthModeOAuth {
		idp = &oidc.DiscoveryCheck{DiscoveryURL: cfg.Auth.OAuth.DiscoveryURL}
	}

	return HealthChecks{
		All:       []ports.HealthCheck{&healthcheck.Config{Source: cfg}, sessionStore, database, idp},
		Readiness: []ports.HealthCheck{sessionStore, database},
	}
}

// DiagnosticsDeps groups the inputs of BuildDiagnostics.
type DiagnosticsDeps struct {
	Config  *config.AppConfig
	Checks  []ports.HealthCheck
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// BuildDiagnostics creates the diagnostics runner behind GET /api/auth/diagnostics.
func BuildDiagnostics(deps DiagnosticsDeps) *service.DiagnosticsService {
	return service.NewDiagnosticsService(service.DiagnosticsServiceOptions{
		Checks: deps.Checks,
		Config: service.DiagnosticsConfig{
			CheckTimeout: deps.Config.Diagnostics.CheckTimeout,
			Required:     deps.Config.Diagnostics.RequiredChecks,
			AuthMode:     string(deps.Config.Auth.Mode),
		},
		Observers: service.DiagnosticsObservers{
			Logger:  deps.Logger,
			Metrics: deps.Metrics,
		},
	})
}

// BuildMetrics returns the StatsD client; a disabled config yields a no-op client.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	return statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
		GlobalTags: map[string]string{
			"service": "immochat-web",
		},
	})
}

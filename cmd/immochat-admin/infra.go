package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/immochat/immochat-web/config"
	"github.com/immochat/immochat-web/internal/bootstrap"
)

// openInfra opens pools without pinging them so that diagnose can report
// unreachable dependencies instead of failing before any check runs.
func openInfra(_ context.Context, cfg *config.AppConfig, logger *slog.Logger) (*bootstrap.Infra, error) {
	infra := &bootstrap.Infra{}

	if cfg.Postgres.Enabled {
		db, err := sql.Open("pgx", cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		infra.DB = db
	}

	if cfg.Auth.SessionStore == config.SessionStoreRedis {
		client, _, err := bootstrap.NewRedisClient(cfg.Redis)
		if err != nil {
			if cerr := infra.Close(); cerr != nil {
				logger.Warn("close database after redis setup failure", "error", cerr)
			}
			return nil, fmt.Errorf("redis client: %w", err)
		}
		infra.Redis = client
	}

	return infra, nil
}

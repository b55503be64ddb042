package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/immochat/immochat-web/internal/bootstrap"
	"github.com/immochat/immochat-web/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

func (a *app) migrateCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDatabase(cmd.Context(), timeout, func(ctx context.Context, infra *bootstrap.Infra) error {
				a.logger.Info("running database migrations")
				return bootstrap.RunMigrations(ctx, infra.DB, a.logger)
			})
		},
	}
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultMigrationTimeout, "overall timeout")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List embedded migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDatabase(cmd.Context(), timeout, func(ctx context.Context, infra *bootstrap.Infra) error {
				migrations, err := migrate.Status(ctx, infra.DB)
				if err != nil {
					return fmt.Errorf("migration status: %w", err)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				if _, err := fmt.Fprintln(tw, "VERSION\tAPPLIED"); err != nil {
					return err
				}
				for _, m := range migrations {
					if _, err := fmt.Fprintf(tw, "%s\t%t\n", m.Version, m.Applied); err != nil {
						return err
					}
				}
				return tw.Flush()
			})
		},
	})
	return cmd
}

// withDatabase runs f with a Postgres pool, regardless of SESSION_STORE.
func (a *app) withDatabase(
	ctx context.Context,
	timeout time.Duration,
	f func(context.Context, *bootstrap.Infra) error,
) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a.cfg.Postgres.Enabled = true
	return a.withInfra(ctx, func(ctx context.Context, infra *bootstrap.Infra) error {
		if infra.DB == nil {
			return errors.New("database connection is required")
		}
		return f(ctx, infra)
	})
}

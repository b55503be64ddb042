// Command immochat-admin is the operator CLI for the immochat web tier.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/immochat/immochat-web/config"
	"github.com/immochat/immochat-web/internal/bootstrap"
)

type app struct {
	logger *slog.Logger
	out    io.Writer
	cfg    config.AppConfig

	// loadConfig and connect are replaced in tests.
	loadConfig func() (config.AppConfig, error)
	connect    func(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*bootstrap.Infra, error)
}

func main() {
	logger := bootstrap.InitLogger()
	a := &app{
		logger:     logger,
		out:        os.Stdout,
		loadConfig: bootstrap.LoadConfig,
		connect:    openInfra,
	}
	if err := a.rootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "immochat-admin",
		Short: "Operator tooling for the immochat web tier",
		Long: `immochat-admin inspects and maintains the state behind the immochat dashboard.

Configuration is read from the same environment variables (and .env file) as the
server, so run it with the server's environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(a.out)
	root.AddCommand(a.diagnoseCmd(), a.sessionCmd(), a.migrateCmd())
	return root
}

// withInfra opens the configured connections for the duration of f.
func (a *app) withInfra(ctx context.Context, f func(context.Context, *bootstrap.Infra) error) error {
	infra, err := a.connect(ctx, &a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			a.logger.Warn("close connections failed", "error", cerr)
		}
	}()
	return f(ctx, infra)
}

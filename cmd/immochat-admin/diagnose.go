package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/immochat/immochat-web/internal/bootstrap"
	"github.com/immochat/immochat-web/internal/domain/diagnostics"
)

// errChecksFailed makes the process exit non-zero after the report is printed.
var errChecksFailed = errors.New("one or more checks failed")

func (a *app) diagnoseCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run the auth subsystem checks from this host",
		Long: `Run the same checks as GET /api/auth/diagnostics: configuration, session store,
database and identity provider. Exits non-zero when a check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withInfra(cmd.Context(), func(ctx context.Context, infra *bootstrap.Infra) error {
				checks := bootstrap.BuildHealthChecks(&a.cfg, infra)
				runner := bootstrap.BuildDiagnostics(bootstrap.DiagnosticsDeps{
					Config: &a.cfg,
					Checks: checks.All,
					Logger: a.logger,
				})
				report, runErr := runner.Run(ctx)
				if err := printReport(cmd.OutOrStdout(), report, asJSON); err != nil {
					return err
				}
				if runErr != nil {
					return runErr
				}
				if report.HasFailures() {
					return errChecksFailed
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(w io.Writer, report diagnostics.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if _, err := fmt.Fprintf(w, "auth mode: %s\nstatus:    %s\n\n", report.AuthMode, report.Status); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "CHECK\tSTATUS\tDURATION\tMESSAGE"); err != nil {
		return err
	}
	for _, c := range report.Checks {
		msg := c.Message
		if c.Hint != "" {
			msg += " (" + c.Hint + ")"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%dms\t%s\n", c.Name, c.Status, c.DurationMS, msg); err != nil {
			return err
		}
	}
	return tw.Flush()
}

package ports

import (
	"context"

	"github.com/immochat/immochat-web/internal/domain/diagnostics"
)

// HealthCheck probes one dependency of the auth subsystem.
// A nil error is a pass; the returned hint, if any, is shown next to a failure.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) (hint string, err error)
}

// DiagnosticsRunner produces the auth subsystem health report.
type DiagnosticsRunner interface {
	Run(ctx context.Context) (diagnostics.Report, error)
}

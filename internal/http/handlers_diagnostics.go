package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/immochat/immochat-web/internal/domain/diagnostics"
	"github.com/immochat/immochat-web/internal/ports"
)

const diagnosticsFailure = "Failed to run diagnostics"

// diagnosticsError is the 500 body of the diagnostics endpoint.
type diagnosticsError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// DiagnosticsHandlers serves the authentication diagnostics report.
type DiagnosticsHandlers struct {
	Runner ports.DiagnosticsRunner
	Logger *slog.Logger
}

func (h *DiagnosticsHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Diagnostics runs the checks and returns the report.
// GET /api/auth/diagnostics.
func (h *DiagnosticsHandlers) Diagnostics(w http.ResponseWriter, r *http.Request) {
	report, failure := h.run(r.Context())
	if failure != nil {
		details := errorMessage(failure)
		h.logger().ErrorContext(r.Context(), "diagnostics failed",
			slog.String("details", details),
			slog.String("request_id", RequestIDFromContext(r.Context())),
		)
		WriteJSON(w, http.StatusInternalServerError, diagnosticsError{
			Error:   diagnosticsFailure,
			Details: details,
		})
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// run converts a panicking runner into a failure value.
func (h *DiagnosticsHandlers) run(ctx context.Context) (report diagnostics.Report, failure any) {
	defer func() {
		if v := recover(); v != nil {
			failure = v
		}
	}()
	report, err := h.Runner.Run(ctx)
	if err != nil {
		return report, err
	}
	return report, nil
}

// errorMessage returns err.Error() for errors and "Unknown error" for anything else.
func errorMessage(v any) string {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return "Unknown error"
}

// Package metrics defines the metric names and tags emitted by the web tier.
package metrics

import (
	"time"

	"github.com/immochat/immochat-web/internal/domain/diagnostics"
	obserrors "github.com/immochat/immochat-web/internal/observability/errors"
	"github.com/immochat/immochat-web/internal/observability/statsd"
)

// Metric names.
const (
	RenderFailure      = "ui.render_failure"
	DiagnosticsRun     = "auth.diagnostics.run"
	DiagnosticsCheck   = "auth.diagnostics.check"
	SessionEchoRequest = "auth.session_echo"
	SessionsReaped     = "auth.sessions.reaped"
)

// RenderFailureMetric describes a failure contained by an error boundary.
type RenderFailureMetric struct {
	Component string
	Err       error
	Panicked  bool
}

// EmitRenderFailure counts a contained render failure.
func EmitRenderFailure(sink statsd.Sink, in RenderFailureMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"component": in.Component,
		"panic":     boolTag(in.Panicked),
	}
	if class := obserrors.Classify(in.Err); class != "" {
		tags["error_class"] = class
	}
	sink.Count(RenderFailure, 1, tags)
}

// EmitDiagnostics records one diagnostics run and each check's outcome.
func EmitDiagnostics(sink statsd.Sink, report diagnostics.Report, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.Timing(DiagnosticsRun, elapsed, map[string]string{"status": string(report.Status)})
	for _, c := range report.Checks {
		sink.Count(DiagnosticsCheck, 1, map[string]string{
			"check":  c.Name,
			"status": string(c.Status),
		})
	}
}

// EmitSessionEcho counts session-echo responses by outcome ("active", "none", "error").
func EmitSessionEcho(sink statsd.Sink, outcome string) {
	if sink == nil {
		return
	}
	sink.Count(SessionEchoRequest, 1, map[string]string{"outcome": outcome})
}

// EmitSessionsReaped records one reaper pass.
func EmitSessionsReaped(sink statsd.Sink, count int64, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": "success"}
	if err != nil {
		tags["result"] = "error"
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count(SessionsReaped, count, tags)
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

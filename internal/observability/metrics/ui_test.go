package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immochat/immochat-web/internal/domain/diagnostics"
)

type recordedMetric struct {
	kind string
	name string
	tags map[string]string
}

type recordingSink struct {
	mu      sync.Mutex
	metrics []recordedMetric
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{kind: "count", name: name, tags: tags})
}

func (s *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{kind: "timing", name: name, tags: tags})
}

func TestEmitRenderFailure(t *testing.T) {
	sink := &recordingSink{}
	EmitRenderFailure(sink, RenderFailureMetric{Component: "toaster", Err: errors.New("boom"), Panicked: true})

	require.Len(t, sink.metrics, 1)
	m := sink.metrics[0]
	assert.Equal(t, RenderFailure, m.name)
	assert.Equal(t, map[string]string{"component": "toaster", "panic": "true", "error_class": "errors_errorstring"}, m.tags)
}

func TestEmitDiagnostics(t *testing.T) {
	sink := &recordingSink{}
	report := diagnostics.Report{
		Status: diagnostics.StatusFail,
		Checks: []diagnostics.CheckResult{
			{Name: "config", Status: diagnostics.StatusPass},
			{Name: "database", Status: diagnostics.StatusFail},
		},
	}
	EmitDiagnostics(sink, report, 20*time.Millisecond)

	require.Len(t, sink.metrics, 3)
	assert.Equal(t, "timing", sink.metrics[0].kind)
	assert.Equal(t, "fail", sink.metrics[0].tags["status"])
	assert.Equal(t, "database", sink.metrics[2].tags["check"])
}

func TestEmit_NilSink(t *testing.T) {
	EmitRenderFailure(nil, RenderFailureMetric{})
	EmitDiagnostics(nil, diagnostics.Report{}, 0)
	EmitSessionEcho(nil, "none")
}

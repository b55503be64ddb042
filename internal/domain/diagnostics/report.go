// Package diagnostics holds the health report produced for the authentication subsystem.
package diagnostics

import "time"

// Status is the outcome of a single check or of the whole report.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// CheckResult is one check's outcome.
type CheckResult struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message"`
	Hint       string `json:"hint,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Report aggregates check results.
type Report struct {
	Status      Status        `json:"status"`
	GeneratedAt time.Time     `json:"generated_at"`
	AuthMode    string        `json:"auth_mode"`
	Checks      []CheckResult `json:"checks"`
}

// HasFailures reports whether any check failed.
func (r Report) HasFailures() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Summarize sets the overall status from the individual checks.
func (r *Report) Summarize() {
	if r.HasFailures() {
		r.Status = StatusFail
		return
	}
	r.Status = StatusPass
}

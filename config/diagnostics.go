package config

import (
	"strings"
	"time"
)

// DiagnosticsConfig controls GET /api/auth/diagnostics.
type DiagnosticsConfig struct {
	// CheckTimeout bounds each individual check.
	CheckTimeout time.Duration `env:"DIAGNOSTICS_CHECK_TIMEOUT" envDefault:"3s"`

	// RequiredChecks are checks whose failure fails the whole run (500) rather than
	// only marking the check as failed in the report.
	RequiredChecks []string `env:"DIAGNOSTICS_REQUIRED_CHECKS" envDefault:"" envSeparator:","`
}

// Sanitize clamps the timeout to [100ms, 30s] and normalises check names.
func (c *DiagnosticsConfig) Sanitize() {
	switch {
	case c.CheckTimeout <= 0:
		c.CheckTimeout = 3 * time.Second
	case c.CheckTimeout < 100*time.Millisecond:
		c.CheckTimeout = 100 * time.Millisecond
	case c.CheckTimeout > 30*time.Second:
		c.CheckTimeout = 30 * time.Second
	}
	names := c.RequiredChecks[:0]
	for _, n := range c.RequiredChecks {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			names = append(names, n)
		}
	}
	c.RequiredChecks = names
}

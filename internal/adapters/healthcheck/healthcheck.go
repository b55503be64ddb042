// Package healthcheck provides diagnostics checks that do not belong to a storage or IdP adapter.
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/immochat/immochat-web/internal/ports"
)

// ProblemSource reports configuration problems; *config.AppConfig implements it.
type ProblemSource interface {
	Problems() []string
}

// Config fails when the loaded configuration has known problems.
type Config struct {
	Source ProblemSource
}

var _ ports.HealthCheck = (*Config)(nil)

func (c *Config) Name() string { return "config" }

func (c *Config) Check(context.Context) (string, error) {
	if c.Source == nil {
		return "", errors.New("configuration not loaded")
	}
	problems := c.Source.Problems()
	if len(problems) == 0 {
		return "", nil
	}
	return "fix the listed environment variables and restart", errors.New(strings.Join(problems, "; "))
}

// Skipped is a placeholder for a check that does not apply to the running configuration.
type Skipped struct {
	CheckName string
	Reason    string
}

var _ ports.HealthCheck = Skipped{}

func (s Skipped) Name() string { return s.CheckName }

func (s Skipped) Check(context.Context) (string, error) {
	return "", fmt.Errorf("%w: %s", ports.ErrCheckSkipped, s.Reason)
}

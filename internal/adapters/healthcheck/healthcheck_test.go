package healthcheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immochat/immochat-web/internal/ports"
)

type problems []string

func (p problems) Problems() []string { return p }

func TestConfig(t *testing.T) {
	hint, err := (&Config{Source: problems(nil)}).Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hint)

	hint, err = (&Config{Source: problems{"a is required", "b is invalid"}}).Check(context.Background())
	require.Error(t, err)
	assert.Equal(t, "a is required; b is invalid", err.Error())
	assert.NotEmpty(t, hint)

	_, err = (&Config{}).Check(context.Background())
	require.Error(t, err)
}

func TestSkipped(t *testing.T) {
	s := Skipped{CheckName: "identity_provider", Reason: "AUTH_MODE=mock"}
	_, err := s.Check(context.Background())
	require.ErrorIs(t, err, ports.ErrCheckSkipped)
	assert.Equal(t, "skipped: AUTH_MODE=mock", err.Error())
	assert.Equal(t, "identity_provider", s.Name())
}

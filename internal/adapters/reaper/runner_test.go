package reaper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct{ calls atomic.Int32 }

func (c *countingPurger) DeleteExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestNewRunner_RequiresDB(t *testing.T) {
	_, err := NewRunner(RunnerOptions{Interval: time.Minute})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestNewRunner_InvalidInterval(t *testing.T) {
	_, err := NewRunner(RunnerOptions{Purger: &countingPurger{}})
	require.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	purger := &countingPurger{}
	r, err := NewRunner(RunnerOptions{Purger: purger, Interval: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = r.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, purger.calls.Load(), int32(1))
}

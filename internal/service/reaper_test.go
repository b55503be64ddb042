package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu    sync.Mutex
	calls int
	count int64
	err   error
}

func (f *fakePurger) DeleteExpired(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.count, f.err
}

func (f *fakePurger) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingSink struct {
	mu     sync.Mutex
	counts []map[string]string
	total  int64
}

func (r *recordingSink) Count(_ string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, tags)
	r.total += value
}

func (r *recordingSink) Timing(string, time.Duration, map[string]string) {}

func TestNewSessionReaper_Validation(t *testing.T) {
	_, err := NewSessionReaper(SessionReaperOptions{Interval: time.Minute})
	require.Error(t, err)

	_, err = NewSessionReaper(SessionReaperOptions{Purger: &fakePurger{}})
	require.Error(t, err)
}

func TestSessionReaper_ReapOnce(t *testing.T) {
	sink := &recordingSink{}
	r, err := NewSessionReaper(SessionReaperOptions{
		Purger:   &fakePurger{count: 4},
		Interval: time.Minute,
		Metrics:  sink,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), r.ReapOnce(context.Background()))
	require.Len(t, sink.counts, 1)
	assert.Equal(t, "success", sink.counts[0]["result"])
	assert.Equal(t, int64(4), sink.total)
}

func TestSessionReaper_ReapOnceError(t *testing.T) {
	sink := &recordingSink{}
	r, err := NewSessionReaper(SessionReaperOptions{
		Purger:   &fakePurger{err: errors.New("connection reset")},
		Interval: time.Minute,
		Metrics:  sink,
	})
	require.NoError(t, err)

	assert.Zero(t, r.ReapOnce(context.Background()))
	require.Len(t, sink.counts, 1)
	assert.Equal(t, "error", sink.counts[0]["result"])
}

func TestSessionReaper_RunStopsOnCancel(t *testing.T) {
	purger := &fakePurger{count: 1}
	r, err := NewSessionReaper(SessionReaperOptions{Purger: purger, Interval: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return purger.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}

package scheduler

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDueRespectsInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(zerolog.New(io.Discard), time.Second)
	s.now = func() time.Time { return start }

	var runs int
	s.Register("sweep", 30*time.Second, func(time.Time) error {
		runs++
		return nil
	})

	s.RunDue(start.Add(10 * time.Second))
	assert.Equal(t, 0, runs)

	s.RunDue(start.Add(30 * time.Second))
	assert.Equal(t, 1, runs)

	s.RunDue(start.Add(45 * time.Second))
	assert.Equal(t, 1, runs)

	s.RunDue(start.Add(60 * time.Second))
	assert.Equal(t, 2, runs)
}

func TestRunDueRecordsErrors(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(zerolog.New(io.Discard), time.Second)
	s.now = func() time.Time { return start }
	s.Register("broken", time.Second, func(time.Time) error { return errors.New("boom") })

	s.RunDue(start.Add(time.Second))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].LastError)
	assert.Equal(t, "boom", *tasks[0].LastError)
	assert.Equal(t, int64(1), tasks[0].RunCount)
}

func TestStartStop(t *testing.T) {
	s := New(zerolog.New(io.Discard), 10*time.Millisecond)
	var runs atomic.Int32
	s.Register("fast", time.Millisecond, func(time.Time) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, time.Second, 10*time.Millisecond)
	s.Stop()
	s.Stop()
}

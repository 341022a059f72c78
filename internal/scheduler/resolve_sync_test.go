package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	calls int
	err   error
}

func (r *fakeResolver) Resolve() error {
	r.calls++
	return r.err
}

func TestResolveSyncScheduler(t *testing.T) {
	t.Run("starts and stops", func(t *testing.T) {
		s := NewResolveSyncScheduler(&fakeResolver{}, "0 * * * *")

		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())
		assert.NotNil(t, s.GetNextRunTime())

		s.Stop()
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.GetNextRunTime())
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		s := NewResolveSyncScheduler(&fakeResolver{}, "not a schedule")

		assert.Error(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})

	t.Run("starting twice is a no-op", func(t *testing.T) {
		s := NewResolveSyncScheduler(&fakeResolver{}, "0 * * * *")

		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Start(context.Background()))
		s.Stop()
	})

	t.Run("context cancellation stops the scheduler", func(t *testing.T) {
		s := NewResolveSyncScheduler(&fakeResolver{}, "0 * * * *")

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, s.Start(ctx))
		cancel()

		assert.Eventually(t, func() bool { return !s.IsRunning() },
			time.Second, 10*time.Millisecond)
	})

	t.Run("runResolve reports failures without panicking", func(t *testing.T) {
		resolver := &fakeResolver{err: assert.AnError}
		s := NewResolveSyncScheduler(resolver, "0 * * * *")

		s.runResolve()
		assert.Equal(t, 1, resolver.calls)
	})
}

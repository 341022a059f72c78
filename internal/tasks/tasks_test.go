package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (c *fakeCleaner) DeleteOldRuns(retention time.Duration) (int64, error) {
	c.retention = retention
	return c.deleted, c.err
}

type fakeResolver struct {
	calls int
	err   error
}

func (r *fakeResolver) Resolve() error {
	r.calls++
	return r.err
}

func TestCleanupImportRunsProcessor(t *testing.T) {
	t.Run("uses the task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 4}
		processor := CleanupImportRunsProcessor(cleaner)

		err := processor(context.Background(), CleanupImportRunsTask{RetentionHours: 48})

		require.NoError(t, err)
		assert.Equal(t, 48*time.Hour, cleaner.retention)
	})

	t.Run("defaults to one week", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		processor := CleanupImportRunsProcessor(cleaner)

		err := processor(context.Background(), CleanupImportRunsTask{})

		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("propagates cleaner failure", func(t *testing.T) {
		cleaner := &fakeCleaner{err: errors.New("locked")}
		processor := CleanupImportRunsProcessor(cleaner)

		assert.Error(t, processor(context.Background(), CleanupImportRunsTask{}))
	})

	t.Run("fails without a cleaner", func(t *testing.T) {
		processor := CleanupImportRunsProcessor(nil)
		assert.Error(t, processor(context.Background(), CleanupImportRunsTask{}))
	})
}

func TestResolveReferencesProcessor(t *testing.T) {
	t.Run("runs the resolver", func(t *testing.T) {
		resolver := &fakeResolver{}
		processor := ResolveReferencesProcessor(resolver)

		require.NoError(t, processor(context.Background(), ResolveReferencesTask{}))
		assert.Equal(t, 1, resolver.calls)
	})

	t.Run("propagates resolver failure", func(t *testing.T) {
		resolver := &fakeResolver{err: errors.New("boom")}
		processor := ResolveReferencesProcessor(resolver)

		assert.Error(t, processor(context.Background(), ResolveReferencesTask{}))
	})

	t.Run("fails without a resolver", func(t *testing.T) {
		processor := ResolveReferencesProcessor(nil)
		assert.Error(t, processor(context.Background(), ResolveReferencesTask{}))
	})
}

func TestQueueConfigs(t *testing.T) {
	cleanup := CleanupImportRunsTask{}.Config()
	assert.Equal(t, "cleanup_import_runs", cleanup.Name)
	assert.Equal(t, 3, cleanup.MaxAttempts)

	resolve := ResolveReferencesTask{}.Config()
	assert.Equal(t, "resolve_references", resolve.Name)
	// A failed resolve pass is reported, never retried.
	assert.Equal(t, 1, resolve.MaxAttempts)
}

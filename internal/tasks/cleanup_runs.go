package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ImportRunCleaner provides the ability to delete old finished import runs.
type ImportRunCleaner interface {
	DeleteOldRuns(retention time.Duration) (int64, error)
}

// CleanupImportRunsTask removes finished import-run records older than the
// configured retention period.
type CleanupImportRunsTask struct {
	RetentionHours int `json:"retention_hours"`
}

// Config returns the queue configuration for import-run cleanup tasks.
func (t CleanupImportRunsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_import_runs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupImportRunsProcessor creates a processor function for CleanupImportRunsTask.
func CleanupImportRunsProcessor(cleaner ImportRunCleaner) backlite.QueueProcessor[CleanupImportRunsTask] {
	return func(ctx context.Context, task CleanupImportRunsTask) error {
		if cleaner == nil {
			return fmt.Errorf("import run cleaner not configured")
		}

		retentionHours := task.RetentionHours
		if retentionHours <= 0 {
			retentionHours = 7 * 24
		}
		retention := time.Duration(retentionHours) * time.Hour

		deleted, err := cleaner.DeleteOldRuns(retention)
		if err != nil {
			return fmt.Errorf("cleanup import runs: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d import runs older than %d hours", deleted, retentionHours)
		return nil
	}
}

// NewCleanupImportRunsQueue creates a backlite queue for import-run cleanup tasks.
func NewCleanupImportRunsQueue(cleaner ImportRunCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupImportRunsProcessor(cleaner))
}

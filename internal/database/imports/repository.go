// Package imports provides database operations for import-run progress
// tracking.
//
// This package implements the ProgressReporter interface used by the import
// scheduler.
//
// # Interface Implementation
//
//	var _ importer.ProgressReporter = (*Repository)(nil)
package imports

import (
	"time"

	"gorm.io/gorm"

	"github.com/kkpan11/logseq/internal/entities"
)

// Repository handles all import-run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new import-run repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Start creates a running import-run record and returns its ID.
// Implements ProgressReporter.Start.
func (r *Repository) Start(format string, total int) (uint, error) {
	now := time.Now()
	run := entities.ImportRun{
		Status:    entities.ImportStatusRunning,
		Format:    format,
		Total:     total,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.Create(&run).Error; err != nil {
		return 0, err
	}
	return run.ID, nil
}

// Update publishes the current position in the batch.
// Implements ProgressReporter.Update.
func (r *Repository) Update(runID uint, index int, pageTitle string) error {
	return r.db.Model(&entities.ImportRun{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"current_index": index,
			"current_page":  pageTitle,
			"updated_at":    time.Now(),
		}).Error
}

// Complete marks a run as completed or failed. Per-page failures do not fail
// the run; only a fatal abort does.
// Implements ProgressReporter.Complete.
func (r *Repository) Complete(runID uint, pagesFailed int, errMsg string) error {
	now := time.Now()
	status := entities.ImportStatusCompleted
	if errMsg != "" {
		status = entities.ImportStatusFailed
	}
	updates := map[string]any{
		"status":       status,
		"pages_failed": pagesFailed,
		"current_page": "",
		"updated_at":   now,
		"completed_at": now,
	}
	if errMsg != "" {
		updates["error"] = errMsg
	}
	return r.db.Model(&entities.ImportRun{}).
		Where("id = ?", runID).
		Updates(updates).Error
}

// Latest returns the most recently started run.
func (r *Repository) Latest() (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.Order("started_at DESC").First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteOldRuns removes finished runs older than the retention period and
// returns the number deleted.
func (r *Repository) DeleteOldRuns(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("completed_at IS NOT NULL AND completed_at < ?", cutoff).
		Delete(&entities.ImportRun{})
	return result.RowsAffected, result.Error
}

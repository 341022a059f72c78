package importer

import "sync"

// Progress is a read-only snapshot of an import run's position.
type Progress struct {
	Total            int    `json:"total"`
	CurrentIndex     int    `json:"current_index"`
	CurrentPageTitle string `json:"current_page_title"`
}

// RunContext holds the live progress of exactly one Run call. It is owned by
// the scheduler for the run's lifetime; observers read snapshots and must
// tolerate staleness.
type RunContext struct {
	mu       sync.RWMutex
	progress Progress
}

func (c *RunContext) start(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = Progress{Total: total}
}

func (c *RunContext) advance(index int, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress.CurrentIndex = index
	c.progress.CurrentPageTitle = title
}

// Snapshot returns the current progress. Safe for concurrent readers.
func (c *RunContext) Snapshot() Progress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.progress
}

// ProgressReporter persists progress updates so observers outside the
// process (the UI) can follow along. Reporter failures never fail the import.
type ProgressReporter interface {
	Start(format string, total int) (uint, error)
	Update(runID uint, index int, pageTitle string) error
	Complete(runID uint, pagesFailed int, errMsg string) error
}

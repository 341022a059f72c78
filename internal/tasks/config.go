package tasks

import "time"

// Config controls the task queue workers and retention.
type Config struct {
	Workers         int
	ReleaseAfter    time.Duration
	CleanupInterval time.Duration
}

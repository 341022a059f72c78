package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
)

// ReferenceResolver re-derives identifiers for cross-referenced blocks.
type ReferenceResolver interface {
	Resolve() error
}

// ResolveReferencesTask runs a graph-wide reference-resolution pass outside
// an import, e.g. triggered manually through the maintenance endpoint.
type ResolveReferencesTask struct{}

// Config returns the queue configuration for reference-resolution tasks.
func (t ResolveReferencesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "resolve_references",
		MaxAttempts: 1,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
		},
	}
}

// ResolveReferencesProcessor creates a processor function for ResolveReferencesTask.
func ResolveReferencesProcessor(resolver ReferenceResolver) backlite.QueueProcessor[ResolveReferencesTask] {
	return func(ctx context.Context, task ResolveReferencesTask) error {
		if resolver == nil {
			return fmt.Errorf("reference resolver not configured")
		}
		if err := resolver.Resolve(); err != nil {
			return fmt.Errorf("resolve references: %w", err)
		}
		return nil
	}
}

// NewResolveReferencesQueue creates a backlite queue for reference-resolution tasks.
func NewResolveReferencesQueue(resolver ReferenceResolver) backlite.Queue {
	return backlite.NewQueue(ResolveReferencesProcessor(resolver))
}

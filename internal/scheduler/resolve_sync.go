// Package scheduler runs periodic graph maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ReferenceResolver re-derives identifiers for cross-referenced blocks.
type ReferenceResolver interface {
	Resolve() error
}

// ResolveSyncScheduler periodically re-resolves cross-references, covering
// content written by other writers between imports.
type ResolveSyncScheduler struct {
	resolver ReferenceResolver
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewResolveSyncScheduler creates a new scheduler instance.
func NewResolveSyncScheduler(resolver ReferenceResolver, schedule string) *ResolveSyncScheduler {
	return &ResolveSyncScheduler{
		resolver: resolver,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *ResolveSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runResolve()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule resolve job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Reference resolve scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *ResolveSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Reference resolve scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *ResolveSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next resolve pass will occur.
func (s *ResolveSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runResolve performs the actual resolution pass.
func (s *ResolveSyncScheduler) runResolve() {
	log.Printf("Reference resolve: starting")
	startTime := time.Now()

	if err := s.resolver.Resolve(); err != nil {
		log.Printf("Reference resolve: failed: %v", err)
		return
	}

	log.Printf("Reference resolve: completed in %v", time.Since(startTime).Round(time.Millisecond))
}

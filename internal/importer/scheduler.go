package importer

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/kkpan11/logseq/internal/tree"
)

// YieldFunc is the cooperative pause invoked between jobs. A UI host supplies
// an actual scheduling pause; a server or CLI host supplies a no-op. The
// pause duration is an input, never a correctness requirement.
type YieldFunc func(ctx context.Context) error

// SleepYield pauses for the given duration, honoring cancellation.
func SleepYield(d time.Duration) YieldFunc {
	return func(ctx context.Context) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

// NoopYield only checks for cancellation.
func NoopYield(ctx context.Context) error {
	return ctx.Err()
}

// PageMaterializer processes one page node with internal error isolation.
type PageMaterializer interface {
	Materialize(node *tree.Node) JobResult
}

// BatchResolver runs the post-batch reference fixup.
type BatchResolver interface {
	Resolve() error
}

// Scheduler drives a FIFO queue of per-page jobs strictly one at a time,
// yielding control before each job and publishing progress. Partial page
// failure is not batch failure: the run resolves regardless of how many
// individual pages were skipped.
type Scheduler struct {
	materializer PageMaterializer
	resolver     BatchResolver
	yield        YieldFunc
	reporter     ProgressReporter

	active atomic.Pointer[RunContext]
}

func NewScheduler(materializer PageMaterializer, resolver BatchResolver, yield YieldFunc, reporter ProgressReporter) *Scheduler {
	if yield == nil {
		yield = NoopYield
	}
	return &Scheduler{
		materializer: materializer,
		resolver:     resolver,
		yield:        yield,
		reporter:     reporter,
	}
}

// Progress returns a snapshot of the active (or most recent) run. Readers
// must tolerate stale reads; the scheduler is the only writer.
func (s *Scheduler) Progress() Progress {
	if rc := s.active.Load(); rc != nil {
		return rc.Snapshot()
	}
	return Progress{}
}

// Run drains the batch in order. Cancellation is honored only at the
// inter-job yield point, which precedes all store writes for a job, so an
// in-flight materialization always finishes before teardown.
func (s *Scheduler) Run(ctx context.Context, format string, batch tree.Batch) (*Report, error) {
	rc := &RunContext{}
	rc.start(len(batch))
	s.active.Store(rc)

	var runID uint
	if s.reporter != nil {
		id, err := s.reporter.Start(format, len(batch))
		if err != nil {
			log.Printf("WARNING: failed to record import run: %v", err)
		} else {
			runID = id
		}
	}

	queue := make([]Job, 0, len(batch))
	for i, node := range batch {
		queue = append(queue, Job{Index: i, Node: node})
	}

	report := &Report{Total: len(batch)}
	for len(queue) > 0 {
		job := queue[0]
		queue = queue[1:]

		// Progress is published before the job begins, never after.
		rc.advance(job.Index+1, job.Node.Title)
		s.reportUpdate(runID, job.Index+1, job.Node.Title)

		if err := s.yield(ctx); err != nil {
			s.reportComplete(runID, report, err.Error())
			return report, err
		}

		result := s.materializer.Materialize(job.Node)
		result.Index = job.Index
		report.Results = append(report.Results, result)
	}

	// Runs exactly once, and never before the last job has returned.
	if s.resolver != nil {
		if err := s.resolver.Resolve(); err != nil {
			report.ResolutionErr = err
		}
	}

	s.reportComplete(runID, report, "")
	return report, nil
}

func (s *Scheduler) reportUpdate(runID uint, index int, title string) {
	if s.reporter == nil || runID == 0 {
		return
	}
	if err := s.reporter.Update(runID, index, title); err != nil {
		log.Printf("WARNING: failed to update import progress: %v", err)
	}
}

func (s *Scheduler) reportComplete(runID uint, report *Report, errMsg string) {
	if s.reporter == nil || runID == 0 {
		return
	}
	if err := s.reporter.Complete(runID, report.Failed(), errMsg); err != nil {
		log.Printf("WARNING: failed to complete import run: %v", err)
	}
}

// Package importer materializes canonical page batches into the graph store:
// translate, pre-register identifiers, schedule page jobs one at a time,
// then resolve cross-references once the batch drains.
package importer

import (
	"context"
	"log"
	"sync"

	"github.com/kkpan11/logseq/internal/adapters"
	"github.com/kkpan11/logseq/internal/notify"
)

// CompletionFunc is invoked exactly once per import, on every path including
// fatal aborts, so progress UIs are never left hanging. Only the
// outline-exchange path carries page names; callers must not rely on the
// payload shape.
type CompletionFunc func(pageNames []string)

// Auditor persists raw import payloads for diagnosis.
type Auditor interface {
	SaveRaw(format string, payload []byte) (string, error)
}

// Pipeline is the import entry point. Runs are serialized: progress state is
// meaningful for one batch at a time.
type Pipeline struct {
	mu        sync.Mutex
	registrar *PreRegistrar
	scheduler *Scheduler
	auditor   Auditor
	notifier  notify.Notifier
}

func NewPipeline(registrar *PreRegistrar, scheduler *Scheduler, auditor Auditor, notifier notify.Notifier) *Pipeline {
	return &Pipeline{
		registrar: registrar,
		scheduler: scheduler,
		auditor:   auditor,
		notifier:  notifier,
	}
}

// Progress exposes the live progress of the current run.
func (p *Pipeline) Progress() Progress {
	return p.scheduler.Progress()
}

// Import runs the whole pipeline on one raw payload: translate into the
// canonical batch, sort by title, pre-register every identifier, drain the
// job queue, resolve references.
func (p *Pipeline) Import(ctx context.Context, payload []byte, format adapters.Format, onComplete CompletionFunc) (*Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	completed := false
	complete := func(names []string) {
		if onComplete != nil && !completed {
			completed = true
			onComplete(names)
		}
	}

	adapter, err := adapters.ForFormat(format)
	if err != nil {
		complete(nil)
		return nil, err
	}

	if p.auditor != nil {
		if _, err := p.auditor.SaveRaw(string(format), payload); err != nil {
			log.Printf("WARNING: failed to audit import payload: %v", err)
		}
	}

	batch, err := adapter.Translate(payload)
	if err != nil {
		p.notifier.Notify(err.Error(), notify.SeverityError)
		complete(nil)
		return nil, err
	}

	batch.SortByTitle()

	if err := p.registrar.PreRegister(batch); err != nil {
		p.notifier.Notify(err.Error(), notify.SeverityError)
		complete(nil)
		return nil, err
	}

	report, err := p.scheduler.Run(ctx, string(format), batch)
	if err != nil {
		complete(nil)
		return report, err
	}

	if format == adapters.FormatOPML {
		complete(report.SucceededTitles())
	} else {
		complete(nil)
	}
	return report, nil
}

package importer

import (
	"log"

	"github.com/kkpan11/logseq/internal/notify"
)

// RefStore is the store surface the resolver fixes references through.
type RefStore interface {
	ReferencedBlockUUIDs() ([]string, error)
	EnsureBlockUUIDs(uuids []string) error
	PruneOrphanStubs() (int64, error)
}

// Resolver runs once after a batch drains. Referencing content may have been
// written before its target existed anywhere in the graph; the resolver makes
// every referenced identifier resolvable and prunes stubs nothing ended up
// needing.
type Resolver struct {
	store    RefStore
	notifier notify.Notifier
}

func NewResolver(store RefStore, notifier notify.Notifier) *Resolver {
	return &Resolver{store: store, notifier: notifier}
}

// Resolve fixes up cross-references graph-wide. Failure is reported and
// returned but never retroactively fails completed pages.
func (r *Resolver) Resolve() error {
	uuids, err := r.store.ReferencedBlockUUIDs()
	if err != nil {
		return r.failure(err)
	}
	if err := r.store.EnsureBlockUUIDs(uuids); err != nil {
		return r.failure(err)
	}

	pruned, err := r.store.PruneOrphanStubs()
	if err != nil {
		return r.failure(err)
	}
	if pruned > 0 {
		log.Printf("Reference resolution: pruned %d orphan stubs", pruned)
	}
	return nil
}

func (r *Resolver) failure(err error) error {
	resErr := &ReferenceResolutionError{Err: err}
	r.notifier.Notify(resErr.Error(), notify.SeverityError)
	return resErr
}

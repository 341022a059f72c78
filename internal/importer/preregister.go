package importer

import "github.com/kkpan11/logseq/internal/tree"

// StubRegistrar is the store-side bulk identifier write.
type StubRegistrar interface {
	PreRegisterBlockUUIDs(uuids []string) error
}

// PreRegistrar walks a canonical batch and writes stub identifier records for
// every node at every depth before any content is inserted. Deeper
// cross-references depend on this full-depth pass; a pages-only pass would
// leave them dangling.
type PreRegistrar struct {
	store StubRegistrar
}

func NewPreRegistrar(store StubRegistrar) *PreRegistrar {
	return &PreRegistrar{store: store}
}

// PreRegister performs the bulk stub write for the whole batch.
func (p *PreRegistrar) PreRegister(batch tree.Batch) error {
	if err := p.store.PreRegisterBlockUUIDs(batch.CollectUUIDs()); err != nil {
		return &PreRegistrationError{Err: err}
	}
	return nil
}

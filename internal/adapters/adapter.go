// Package adapters normalizes external export formats into the canonical
// tree model. Adapters are pure structural transforms: no I/O, no store
// access, tree shape and child ordering preserved exactly as given.
//
// Implementations:
//   - EDNAdapter (edn.go) - namespaced EDN tree export
//   - JSONAdapter (json.go) - JSON tree export
//   - OPMLAdapter (opml.go) - OPML outline exchange format
//
// Adding a new source format:
//  1. Create a new file (e.g., xml.go)
//  2. Define its field-mapping table
//  3. Implement the Adapter interface
//  4. Register the format tag in ForFormat
package adapters

import (
	"fmt"

	"github.com/kkpan11/logseq/internal/tree"
)

// Format tags the supported external wire formats.
type Format string

const (
	FormatEDN  Format = "edn"
	FormatJSON Format = "json"
	FormatOPML Format = "opml"
)

// Adapter translates a raw export payload into a canonical page batch.
type Adapter interface {
	Translate(payload []byte) (tree.Batch, error)
}

// MalformedInputError means the payload could not be parsed into any tree at
// all. It is fatal: the whole import aborts before any store interaction.
type MalformedInputError struct {
	Format Format
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input: %v", e.Format, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// ForFormat returns the adapter for a format tag.
func ForFormat(f Format) (Adapter, error) {
	switch f {
	case FormatEDN:
		return &EDNAdapter{}, nil
	case FormatJSON:
		return &JSONAdapter{}, nil
	case FormatOPML:
		return &OPMLAdapter{}, nil
	default:
		return nil, fmt.Errorf("unsupported import format: %q", f)
	}
}

// batchFromMaps converts mapped canonical key/value trees into page nodes.
func batchFromMaps(format Format, pages []map[string]any) (tree.Batch, error) {
	batch := make(tree.Batch, 0, len(pages))
	for _, page := range pages {
		node, err := tree.FromMap(page, 0)
		if err != nil {
			return nil, &MalformedInputError{Format: format, Err: err}
		}
		batch = append(batch, node)
	}
	return batch, nil
}

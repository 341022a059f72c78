package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/kkpan11/logseq/internal/tree"
)

// jsonMapping renames the JSON export fields to canonical ones.
var jsonMapping = []tree.FieldMapping{
	{Source: "id", Canonical: "uuid"},
	{Source: "page-name", Canonical: "title"},
	{Source: "format", Canonical: "format", Coerce: tree.CoerceFormat},
	{Source: "type", Canonical: "kind", Coerce: tree.CoerceKind},
}

// JSONAdapter translates the JSON tree export. The payload is either an
// object carrying a "blocks" array of pages, or a bare array of pages.
type JSONAdapter struct{}

func (a *JSONAdapter) Translate(payload []byte) (tree.Batch, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &MalformedInputError{Format: FormatJSON, Err: err}
	}

	pages, err := jsonPages(doc)
	if err != nil {
		return nil, &MalformedInputError{Format: FormatJSON, Err: err}
	}

	mapped := make([]map[string]any, 0, len(pages))
	for _, page := range pages {
		raw, ok := page.(map[string]any)
		if !ok {
			return nil, &MalformedInputError{Format: FormatJSON, Err: fmt.Errorf("page node is not an object: %T", page)}
		}
		mapped = append(mapped, tree.MapTree(raw, jsonMapping))
	}

	return batchFromMaps(FormatJSON, mapped)
}

func jsonPages(doc any) ([]any, error) {
	switch t := doc.(type) {
	case []any:
		return t, nil
	case map[string]any:
		blocks, ok := t["blocks"]
		if !ok {
			return nil, fmt.Errorf(`export object has no "blocks" array`)
		}
		pages, ok := blocks.([]any)
		if !ok {
			return nil, fmt.Errorf(`"blocks" is not an array: %T`, blocks)
		}
		return pages, nil
	default:
		return nil, fmt.Errorf("unexpected top-level value: %T", doc)
	}
}

// Compile-time interface check
var _ Adapter = (*JSONAdapter)(nil)

package adapters

import (
	"fmt"

	"olympos.io/encoding/edn"

	"github.com/kkpan11/logseq/internal/tree"
)

// ednMapping renames the namespaced EDN export fields to canonical ones.
var ednMapping = []tree.FieldMapping{
	{Source: "block/id", Canonical: "uuid", Coerce: coerceEDNID},
	{Source: "block/page-name", Canonical: "title"},
	{Source: "block/title", Canonical: "title"},
	{Source: "block/content", Canonical: "content"},
	{Source: "block/format", Canonical: "format", Coerce: tree.CoerceFormat},
	{Source: "block/properties", Canonical: "properties"},
	{Source: "block/children", Canonical: "children"},
	{Source: "block/type", Canonical: "kind", Coerce: tree.CoerceKind},
}

// EDNAdapter translates the namespaced EDN tree export. The payload is either
// a map carrying a :blocks vector of pages, or a bare vector of pages.
type EDNAdapter struct{}

func (a *EDNAdapter) Translate(payload []byte) (tree.Batch, error) {
	var doc any
	if err := edn.Unmarshal(payload, &doc); err != nil {
		return nil, &MalformedInputError{Format: FormatEDN, Err: err}
	}

	pages, err := ednPages(doc)
	if err != nil {
		return nil, &MalformedInputError{Format: FormatEDN, Err: err}
	}

	mapped := make([]map[string]any, 0, len(pages))
	for _, page := range pages {
		raw, ok := ednToGeneric(page).(map[string]any)
		if !ok {
			return nil, &MalformedInputError{Format: FormatEDN, Err: fmt.Errorf("page node is not a map: %T", page)}
		}
		mapped = append(mapped, tree.MapTree(raw, ednMapping))
	}

	return batchFromMaps(FormatEDN, mapped)
}

func ednPages(doc any) ([]any, error) {
	switch t := doc.(type) {
	case []any:
		return t, nil
	case map[any]any:
		blocks, ok := t[edn.Keyword("blocks")]
		if !ok {
			return nil, fmt.Errorf("export map has no :blocks vector")
		}
		pages, ok := blocks.([]any)
		if !ok {
			return nil, fmt.Errorf(":blocks is not a vector: %T", blocks)
		}
		return pages, nil
	default:
		return nil, fmt.Errorf("unexpected top-level value: %T", doc)
	}
}

// ednToGeneric rewrites decoded EDN values into plain string-keyed maps so
// the generic tree-map utility can work on them.
func ednToGeneric(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[ednKey(k)] = ednToGeneric(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = ednToGeneric(val)
		}
		return out
	default:
		return v
	}
}

func ednKey(k any) string {
	switch t := k.(type) {
	case edn.Keyword:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// coerceEDNID unwraps #uuid tagged literals; plain strings pass through.
func coerceEDNID(v any) any {
	switch t := v.(type) {
	case edn.Tag:
		return fmt.Sprint(t.Value)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Compile-time interface check
var _ Adapter = (*EDNAdapter)(nil)

package tree

import "strings"

// CoerceFunc converts a loosely-typed source value into its canonical form.
type CoerceFunc func(any) any

// FieldMapping renames one source field to its canonical name, optionally
// coercing the value. Canonical field names are never used as sources, so
// applying a mapping table to already-canonical input is a no-op.
type FieldMapping struct {
	Source    string
	Canonical string
	Coerce    CoerceFunc
}

// MapTree applies a format's mapping table to a raw key/value tree, recursing
// into children. Keys without a mapping rule pass through unchanged, tree
// shape and child ordering are preserved exactly. Rules are applied in table
// order: when two sources map to the same canonical field, the rule listed
// first wins.
func MapTree(node map[string]any, rules []FieldMapping) map[string]any {
	return mapNode(node, rules)
}

func mapNode(node map[string]any, rules []FieldMapping) map[string]any {
	isSource := make(map[string]bool, len(rules))
	for _, r := range rules {
		isSource[r.Source] = true
	}

	out := make(map[string]any, len(node))
	for key, value := range node {
		if isSource[key] {
			continue
		}
		if key == "children" {
			value = mapChildren(value, rules)
		}
		out[key] = value
	}

	written := make(map[string]bool, len(rules))
	for _, rule := range rules {
		value, ok := node[rule.Source]
		if !ok || written[rule.Canonical] {
			continue
		}
		if rule.Coerce != nil {
			value = rule.Coerce(value)
		}
		if rule.Canonical == "children" {
			value = mapChildren(value, rules)
		}
		out[rule.Canonical] = value
		written[rule.Canonical] = true
	}
	return out
}

func mapChildren(value any, rules []FieldMapping) any {
	children, ok := value.([]any)
	if !ok {
		return value
	}
	mapped := make([]any, len(children))
	for i, child := range children {
		if childMap, ok := child.(map[string]any); ok {
			mapped[i] = mapNode(childMap, rules)
		} else {
			mapped[i] = child
		}
	}
	return mapped
}

// CoerceFormat normalizes a free-text content-syntax tag into one of the
// canonical format values.
func CoerceFormat(v any) any {
	s := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(stringish(v)), ":"))
	switch s {
	case "org", "org-mode", "orgmode":
		return FormatOrg
	default:
		return FormatMarkdown
	}
}

// CoerceKind normalizes a source node-type tag into a canonical kind.
func CoerceKind(v any) any {
	s := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(stringish(v)), ":"))
	switch Kind(s) {
	case KindPage, KindBlock, KindShape, KindWhiteboard:
		return s
	default:
		return string(KindBlock)
	}
}

func stringish(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case interface{ String() string }:
		return t.String()
	default:
		return ""
	}
}

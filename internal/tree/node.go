// Package tree defines the canonical intermediate representation that every
// supported export format is normalized into before any store logic runs.
package tree

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/google/uuid"
)

type Kind string

const (
	KindPage       Kind = "page"
	KindBlock      Kind = "block"
	KindShape      Kind = "shape"
	KindWhiteboard Kind = "whiteboard" // page whose children are flat shapes
)

const (
	FormatMarkdown = "markdown"
	FormatOrg      = "org"
)

// importNamespace seeds content-addressed identifiers for nodes whose source
// format did not supply one.
var importNamespace = uuid.MustParse("9f3c2d11-5b0e-4e6b-a0d4-7f6f3f1c8b21")

// Node is one import unit at any tree depth. Children order encodes document
// order and is preserved end-to-end into the store.
type Node struct {
	UUID       uuid.UUID
	Kind       Kind
	Title      string
	Content    string
	Format     string
	Properties map[string]any
	Children   []*Node
}

// Batch is an ordered sequence of page-level nodes.
type Batch []*Node

// SortByTitle sorts the batch for deterministic processing order.
func (b Batch) SortByTitle() {
	sort.SliceStable(b, func(i, j int) bool {
		return b[i].Title < b[j].Title
	})
}

// CollectUUIDs gathers every identifier in the batch at every depth,
// preserving first-seen order and dropping duplicates.
func (b Batch) CollectUUIDs() []string {
	seen := make(map[string]bool)
	var uuids []string
	for _, page := range b {
		page.Walk(func(n *Node) {
			id := n.UUID.String()
			if !seen[id] {
				seen[id] = true
				uuids = append(uuids, id)
			}
		})
	}
	return uuids
}

// Walk visits the node and every descendant in document order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// DeriveUUID returns a content-addressed identifier, stable across imports of
// the same content.
func DeriveUUID(content string) uuid.UUID {
	return uuid.NewSHA1(importNamespace, []byte(content))
}

// FromMap builds a node from a canonical key/value tree. depth 0 yields a
// page unless the source tagged the node otherwise.
func FromMap(m map[string]any, depth int) (*Node, error) {
	return fromMap(m, depth, "")
}

// fromMap carries the node's position path down the tree. Derived identifiers
// are addressed by path, not content alone, so identical sibling content
// cannot collide within a batch.
func fromMap(m map[string]any, depth int, parentPath string) (*Node, error) {
	n := &Node{
		Title:   stringValue(m["title"]),
		Content: stringValue(m["content"]),
		Format:  stringValue(m["format"]),
		Kind:    kindFor(stringValue(m["kind"]), depth),
	}

	if props, ok := m["properties"].(map[string]any); ok {
		n.Properties = props
	}

	seed := n.Content
	if seed == "" {
		seed = n.Title
	}
	path := parentPath + "|" + seed
	if parentPath == "" {
		path = string(n.Kind) + "|" + seed
	}

	if err := assignUUID(n, m["uuid"], path); err != nil {
		return nil, err
	}

	if rawChildren, ok := m["children"].([]any); ok {
		for i, raw := range rawChildren {
			childMap, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("child node is not a map: %T", raw)
			}
			child, err := fromMap(childMap, depth+1, fmt.Sprintf("%s/%d", path, i))
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}

	// A page without its own format inherits the first child's.
	if n.Format == "" && len(n.Children) > 0 {
		n.Format = n.Children[0].Format
	}
	if n.Format == "" {
		n.Format = FormatMarkdown
	}

	// A page whose children are flat shapes is a whiteboard.
	if n.Kind == KindPage && len(n.Children) > 0 && n.Children[0].Kind == KindShape {
		n.Kind = KindWhiteboard
	}

	return n, nil
}

func assignUUID(n *Node, raw any, path string) error {
	if s := stringValue(raw); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid identifier %q: %w", s, err)
		}
		n.UUID = id
		return nil
	}
	n.UUID = DeriveUUID(path)
	return nil
}

func kindFor(tag string, depth int) Kind {
	switch Kind(tag) {
	case KindPage, KindBlock, KindShape, KindWhiteboard:
		return Kind(tag)
	}
	if depth == 0 {
		return KindPage
	}
	return KindBlock
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

var refPattern = regexp.MustCompile(`\(\(([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})\)\)`)

// ExtractRefUUIDs returns the identifiers targeted by ((uuid)) cross-references
// inside block content, in order of appearance.
func ExtractRefUUIDs(content string) []string {
	var uuids []string
	for _, match := range refPattern.FindAllStringSubmatch(content, -1) {
		uuids = append(uuids, match[1])
	}
	return uuids
}

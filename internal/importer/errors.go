package importer

import (
	"encoding/json"
	"fmt"

	"github.com/kkpan11/logseq/internal/tree"
)

// PreRegistrationError means the bulk identifier write failed. Fatal: no job
// has produced partial content yet, the whole import aborts.
type PreRegistrationError struct {
	Err error
}

func (e *PreRegistrationError) Error() string {
	return fmt.Sprintf("identifier pre-registration failed: %v", e.Err)
}

func (e *PreRegistrationError) Unwrap() error {
	return e.Err
}

// PageMaterializationError means page creation or content insertion failed
// for one page. Non-fatal: isolated to that page, the batch continues.
type PageMaterializationError struct {
	Title string
	Node  *tree.Node
	Err   error
}

func (e *PageMaterializationError) Error() string {
	return fmt.Sprintf("failed to materialize page %q: %v", e.Title, e.Err)
}

func (e *PageMaterializationError) Unwrap() error {
	return e.Err
}

// NodeContext serializes the offending node for diagnosis.
func (e *PageMaterializationError) NodeContext() string {
	if e.Node == nil {
		return ""
	}
	ctx := map[string]any{
		"uuid":       e.Node.UUID.String(),
		"kind":       e.Node.Kind,
		"title":      e.Node.Title,
		"format":     e.Node.Format,
		"properties": e.Node.Properties,
		"children":   len(e.Node.Children),
	}
	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Sprintf("uuid=%s title=%q", e.Node.UUID, e.Node.Title)
	}
	return string(data)
}

// ReferenceResolutionError means the post-batch fixup failed. Non-fatal to
// the already-imported content; reported, never retried.
type ReferenceResolutionError struct {
	Err error
}

func (e *ReferenceResolutionError) Error() string {
	return fmt.Sprintf("reference resolution failed: %v", e.Err)
}

func (e *ReferenceResolutionError) Unwrap() error {
	return e.Err
}

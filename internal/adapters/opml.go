package adapters

import (
	"fmt"

	"github.com/gilliek/go-opml/opml"

	"github.com/kkpan11/logseq/internal/tree"
)

// OPMLAdapter translates an OPML outline-exchange document into a single-page
// batch: the head title names the page, the body outlines become its ordered
// block children. Outline identifiers are content-addressed since OPML has
// none of its own.
type OPMLAdapter struct{}

func (a *OPMLAdapter) Translate(payload []byte) (tree.Batch, error) {
	doc, err := opml.NewOPML(payload)
	if err != nil {
		return nil, &MalformedInputError{Format: FormatOPML, Err: err}
	}

	title := doc.Head.Title
	if title == "" {
		title = fmt.Sprintf("Untitled %s", tree.DeriveUUID(string(payload)))
	}

	page := &tree.Node{
		UUID:     tree.DeriveUUID("page|" + title),
		Kind:     tree.KindPage,
		Title:    title,
		Format:   tree.FormatMarkdown,
		Children: outlineChildren(doc.Body.Outlines, title),
	}

	return tree.Batch{page}, nil
}

func outlineChildren(outlines []opml.Outline, path string) []*tree.Node {
	nodes := make([]*tree.Node, 0, len(outlines))
	for i, outline := range outlines {
		content := outline.Text
		if content == "" {
			content = outline.Title
		}
		childPath := fmt.Sprintf("%s/%d|%s", path, i, content)
		nodes = append(nodes, &tree.Node{
			UUID:     tree.DeriveUUID(childPath),
			Kind:     tree.KindBlock,
			Content:  content,
			Format:   tree.FormatMarkdown,
			Children: outlineChildren(outline.Outlines, childPath),
		})
	}
	return nodes
}

// Compile-time interface check
var _ Adapter = (*OPMLAdapter)(nil)

package importer

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kkpan11/logseq/internal/database"
	"github.com/kkpan11/logseq/internal/entities"
	"github.com/kkpan11/logseq/internal/notify"
	"github.com/kkpan11/logseq/internal/tree"
	"github.com/kkpan11/logseq/internal/whiteboard"
)

// GraphStore is the page-creation/block-insertion surface the materializer
// writes through.
type GraphStore interface {
	GetPageByName(name string) (*entities.Page, error)
	CreatePage(page *entities.Page) error
	InsertBlockTree(page *entities.Page, roots []*tree.Node) error
	SaveShapes(page *entities.Page, shapes []entities.Shape) error
}

// Materializer creates (or locates) the target page for one canonical node
// and inserts its content subtree. Every failure is isolated to the page:
// reported with node context, never propagated past the job boundary.
type Materializer struct {
	store    GraphStore
	notifier notify.Notifier
}

func NewMaterializer(store GraphStore, notifier notify.Notifier) *Materializer {
	return &Materializer{store: store, notifier: notifier}
}

// Materialize processes one page node and returns its job result. The title
// is returned whether the page succeeded or failed.
func (m *Materializer) Materialize(node *tree.Node) JobResult {
	title := node.Title
	if title == "" {
		return m.pageFailure(node, title, fmt.Errorf("page node has no title"))
	}

	page, err := m.ensurePage(node, title)
	if err != nil {
		// Without a page there is nothing sane to hang children off;
		// skip the subtree entirely.
		return m.pageFailure(node, title, err)
	}

	if len(node.Children) == 0 {
		return JobResult{Title: title}
	}

	if node.Kind == tree.KindWhiteboard {
		err = m.insertShapes(page, node)
	} else {
		err = m.store.InsertBlockTree(page, node.Children)
	}
	if err != nil {
		return m.pageFailure(node, title, err)
	}

	return JobResult{Title: title}
}

// ensurePage locates the target page by derived name, creating it with the
// node's pre-registered identifier if it does not exist.
func (m *Materializer) ensurePage(node *tree.Node, title string) (*entities.Page, error) {
	name := database.NormalizePageName(title)

	page, err := m.store.GetPageByName(name)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	props, err := database.MarshalProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	page = &entities.Page{
		UUID:       node.UUID.String(),
		Name:       name,
		Title:      title,
		Format:     node.Format,
		Properties: props,
		Whiteboard: node.Kind == tree.KindWhiteboard,
	}
	if err := m.store.CreatePage(page); err != nil {
		return nil, err
	}
	return page, nil
}

func (m *Materializer) insertShapes(page *entities.Page, node *tree.Node) error {
	shapes, err := whiteboard.ShapesFromNodes(page.UUID, node.Children)
	if err != nil {
		return err
	}
	return m.store.SaveShapes(page, shapes)
}

func (m *Materializer) pageFailure(node *tree.Node, title string, err error) JobResult {
	pageErr := &PageMaterializationError{Title: title, Node: node, Err: err}
	m.notifier.Notify(
		fmt.Sprintf("%s (node: %s)", pageErr.Error(), pageErr.NodeContext()),
		notify.SeverityError,
	)
	return JobResult{Title: title, Err: pageErr}
}

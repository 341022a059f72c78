package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kkpan11/logseq/internal/entities"
	"github.com/kkpan11/logseq/internal/tree"
)

// Database is the persistent page/block graph store. All import writes go
// through it; during an import run they are serialized by the scheduler's
// single-threaded loop.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Page{},
		&entities.Block{},
		&entities.BlockRef{},
		&entities.Shape{},
		&entities.ImportRun{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Graph store initialized at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NormalizePageName derives the lookup name for a page title.
func NormalizePageName(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func (d *Database) GetPageByName(name string) (*entities.Page, error) {
	var page entities.Page
	err := d.DB.Where("name = ?", name).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (d *Database) GetPageByUUID(id string) (*entities.Page, error) {
	var page entities.Page
	err := d.DB.Where("uuid = ?", id).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePage inserts a new page row. The page must carry the identifier the
// batch pre-registered for it, never a freshly generated one, so forward
// references resolve.
func (d *Database) CreatePage(page *entities.Page) error {
	if page.Name == "" {
		page.Name = NormalizePageName(page.Title)
	}
	return d.DB.Create(page).Error
}

func (d *Database) ListPages() ([]entities.Page, error) {
	var pages []entities.Page
	err := d.DB.Order("name ASC").Find(&pages).Error
	return pages, err
}

// GetPageBlocks returns the page's blocks in materialized document order.
func (d *Database) GetPageBlocks(pageID uint) ([]entities.Block, error) {
	var blocks []entities.Block
	err := d.DB.Where("page_id = ?", pageID).
		Order("parent_id ASC, position ASC").Find(&blocks).Error
	return blocks, err
}

func (d *Database) GetPageShapes(pageID uint) ([]entities.Shape, error) {
	var shapes []entities.Shape
	err := d.DB.Where("page_id = ?", pageID).Order("id ASC").Find(&shapes).Error
	return shapes, err
}

// PreRegisterBlockUUIDs writes a stub row for every identifier in one
// transaction, before any page or content creation begins. Identifiers that
// already exist in the store are left untouched.
func (d *Database) PreRegisterBlockUUIDs(uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}
	return d.DB.Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&entities.Block{}).Where("uuid IN ?", uuids).
			Pluck("uuid", &existing).Error; err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for _, id := range existing {
			known[id] = true
		}

		var stubs []entities.Block
		for _, id := range uuids {
			if !known[id] {
				stubs = append(stubs, entities.Block{UUID: id, PreRegistered: true})
			}
		}
		if len(stubs) == 0 {
			return nil
		}
		return tx.Create(&stubs).Error
	})
}

// InsertBlockTree materializes a canonical content subtree under a page in
// one transaction, preserving child order. Nodes reuse their pre-registered
// stub rows instead of allocating new identifiers.
//
// If the page already ends with a non-empty root block, the new content is
// inserted as its next sibling; a trailing empty block is replaced instead.
func (d *Database) InsertBlockTree(page *entities.Page, roots []*tree.Node) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		start, err := rootInsertPosition(tx, page)
		if err != nil {
			return err
		}
		for i, node := range roots {
			if err := insertBlockNode(tx, page, nil, node, start+i); err != nil {
				return err
			}
		}
		return nil
	})
}

func rootInsertPosition(tx *gorm.DB, page *entities.Page) (int, error) {
	var last entities.Block
	err := tx.Where("page_id = ? AND parent_id IS NULL", page.ID).
		Order("position DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if last.Content == "" {
		// Trailing empty block gets replaced, not nested under.
		if err := tx.Delete(&entities.Block{}, last.ID).Error; err != nil {
			return 0, err
		}
		return last.Position, nil
	}
	return last.Position + 1, nil
}

func insertBlockNode(tx *gorm.DB, page *entities.Page, parentID *uint, node *tree.Node, position int) error {
	props, err := MarshalProperties(node.Properties)
	if err != nil {
		return fmt.Errorf("block %s: %w", node.UUID, err)
	}

	block := entities.Block{
		UUID:       node.UUID.String(),
		PageID:     page.ID,
		ParentID:   parentID,
		Position:   position,
		Content:    node.Content,
		Format:     node.Format,
		Properties: props,
	}

	var stub entities.Block
	err = tx.Where("uuid = ?", block.UUID).First(&stub).Error
	switch {
	case err == nil:
		block.ID = stub.ID
		updates := map[string]any{
			"page_id":        block.PageID,
			"parent_id":      parentID,
			"position":       block.Position,
			"content":        block.Content,
			"format":         block.Format,
			"properties":     block.Properties,
			"pre_registered": false,
		}
		if err := tx.Model(&stub).Updates(updates).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
	default:
		return err
	}

	for _, target := range tree.ExtractRefUUIDs(node.Content) {
		ref := entities.BlockRef{FromBlockID: block.ID, TargetUUID: target}
		if err := tx.Create(&ref).Error; err != nil {
			return err
		}
	}

	for i, child := range node.Children {
		if err := insertBlockNode(tx, page, &block.ID, child, i); err != nil {
			return err
		}
	}
	return nil
}

// SaveShapes batch-writes whiteboard shapes for a page in one transaction.
func (d *Database) SaveShapes(page *entities.Page, shapes []entities.Shape) error {
	if len(shapes) == 0 {
		return nil
	}
	return d.DB.Transaction(func(tx *gorm.DB) error {
		for i := range shapes {
			shapes[i].PageID = page.ID
		}
		return tx.Create(&shapes).Error
	})
}

// ReferencedBlockUUIDs returns every identifier that is the target of at
// least one cross-reference anywhere in the graph.
func (d *Database) ReferencedBlockUUIDs() ([]string, error) {
	var uuids []string
	err := d.DB.Model(&entities.BlockRef{}).Distinct("target_uuid").
		Pluck("target_uuid", &uuids).Error
	return uuids, err
}

// EnsureBlockUUIDs makes every given identifier resolvable: targets with no
// block row get a stub, so reference lookups no longer dangle.
func (d *Database) EnsureBlockUUIDs(uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}
	return d.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range uuids {
			var count int64
			if err := tx.Model(&entities.Block{}).Where("uuid = ?", id).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				stub := entities.Block{UUID: id, PreRegistered: true}
				if err := tx.Create(&stub).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// PruneOrphanStubs deletes pre-registered stubs that received no content and
// are not the target of any reference. Returns the number of rows removed.
func (d *Database) PruneOrphanStubs() (int64, error) {
	targets := d.DB.Model(&entities.BlockRef{}).Distinct("target_uuid").Select("target_uuid")
	result := d.DB.Where("pre_registered = ? AND uuid NOT IN (?)", true, targets).
		Delete(&entities.Block{})
	return result.RowsAffected, result.Error
}

// MarshalProperties serializes a node's property map for storage.
func MarshalProperties(props map[string]any) (string, error) {
	if len(props) == 0 {
		return "", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("failed to marshal properties: %w", err)
	}
	return string(data), nil
}

package entities

import (
	"time"

	"gorm.io/gorm"
)

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// Page is a top-level document in the graph. A whiteboard page holds flat
// shape records instead of an outliner block tree.
type Page struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UUID       string         `gorm:"uniqueIndex;size:36" json:"uuid"`
	Name       string         `gorm:"uniqueIndex;size:512" json:"name"` // normalized (lowercased) title
	Title      string         `gorm:"size:512" json:"title"`
	Format     string         `gorm:"size:20;default:'markdown'" json:"format"`
	Properties string         `gorm:"type:text" json:"properties,omitempty"` // JSON object
	Whiteboard bool           `gorm:"default:false" json:"whiteboard"`
	Blocks     []Block        `gorm:"foreignKey:PageID" json:"blocks,omitempty"`
	Shapes     []Shape        `gorm:"foreignKey:PageID" json:"shapes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Block is one outliner node. Position orders siblings under the same parent.
//
// A pre-registered block carries only its UUID: it is written ahead of any
// content so that forward references resolve, and is filled in (or pruned)
// later.
type Block struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          string    `gorm:"uniqueIndex;size:36" json:"uuid"`
	PageID        uint      `gorm:"index" json:"page_id"`
	ParentID      *uint     `gorm:"index" json:"parent_id,omitempty"`
	Position      int       `json:"position"`
	Content       string    `gorm:"type:text" json:"content"`
	Format        string    `gorm:"size:20" json:"format,omitempty"`
	Properties    string    `gorm:"type:text" json:"properties,omitempty"` // JSON object
	PreRegistered bool      `gorm:"default:false" json:"pre_registered"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BlockRef records a cross-reference from a block's content to a target
// identifier. The target may not exist yet when the row is written.
type BlockRef struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FromBlockID uint   `gorm:"index" json:"from_block_id"`
	TargetUUID  string `gorm:"index;size:36" json:"target_uuid"`
}

// Shape is a flat whiteboard canvas element, stored with namespaced
// properties serialized as JSON.
type Shape struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          string    `gorm:"uniqueIndex;size:36" json:"uuid"`
	PageID        uint      `gorm:"index" json:"page_id"`
	Type          string    `gorm:"size:50" json:"type"`
	Props         string    `gorm:"type:text" json:"props"` // JSON object
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImportRun is the persisted progress record for one import batch.
// Single-writer (the import scheduler); read by the progress endpoint.
type ImportRun struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Status       ImportStatus `gorm:"size:20;default:'pending'" json:"status"`
	Format       string       `gorm:"size:10" json:"format"`
	Total        int          `json:"total"`
	CurrentIndex int          `json:"current_index"`
	CurrentPage  string       `gorm:"size:512" json:"current_page"`
	PagesFailed  int          `json:"pages_failed"`
	Error        string       `gorm:"type:text" json:"error,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

func (Page) TableName() string {
	return "pages"
}

func (Block) TableName() string {
	return "blocks"
}

func (BlockRef) TableName() string {
	return "block_refs"
}

func (Shape) TableName() string {
	return "shapes"
}

func (ImportRun) TableName() string {
	return "import_runs"
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kkpan11/logseq/internal/database"
	"github.com/kkpan11/logseq/internal/entities"
)

// PageDetail is one page with its materialized content in document order.
type PageDetail struct {
	Page   entities.Page    `json:"page"`
	Blocks []entities.Block `json:"blocks,omitempty"`
	Shapes []entities.Shape `json:"shapes,omitempty"`
}

type PagesController struct {
	Database *database.Database
}

func NewPagesController(db *database.Database) PagesController {
	return PagesController{Database: db}
}

func (controller PagesController) List(c *gin.Context) {
	pages, err := controller.Database.ListPages()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"pages": pages})
}

func (controller PagesController) Get(c *gin.Context) {
	name := database.NormalizePageName(c.Param("name"))

	page, err := controller.Database.GetPageByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	detail := PageDetail{Page: *page}
	if page.Whiteboard {
		detail.Shapes, err = controller.Database.GetPageShapes(page.ID)
	} else {
		detail.Blocks, err = controller.Database.GetPageBlocks(page.ID)
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, detail)
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kkpan11/logseq/internal/database/imports"
	"github.com/kkpan11/logseq/internal/entities"
	"github.com/kkpan11/logseq/internal/importer"
)

// ProgressResponse combines the live in-process snapshot with the persisted
// run record. Readers must tolerate stale reads; the scheduler is the only
// writer.
type ProgressResponse struct {
	Live importer.Progress   `json:"live"`
	Run  *entities.ImportRun `json:"run,omitempty"`
}

type ProgressController struct {
	Pipeline *importer.Pipeline
	Runs     *imports.Repository
}

func NewProgressController(pipeline *importer.Pipeline, runs *imports.Repository) ProgressController {
	return ProgressController{Pipeline: pipeline, Runs: runs}
}

func (controller ProgressController) Progress(c *gin.Context) {
	resp := ProgressResponse{Live: controller.Pipeline.Progress()}

	run, err := controller.Runs.Latest()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp.Run = run

	c.IndentedJSON(http.StatusOK, resp)
}

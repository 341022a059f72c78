package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kkpan11/logseq/internal/adapters"
	"github.com/kkpan11/logseq/internal/importer"
	"github.com/kkpan11/logseq/internal/tasks"
)

// ImportResponse summarizes one import run for the caller. A batch with
// per-page failures still completes; callers must expect partial success.
type ImportResponse struct {
	Total           int             `json:"total"`
	Succeeded       int             `json:"succeeded"`
	Failed          int             `json:"failed"`
	Failures        []ImportFailure `json:"failures,omitempty"`
	ResolutionError string          `json:"resolution_error,omitempty"`
}

type ImportFailure struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Error string `json:"error"`
}

type ImportController struct {
	Pipeline     *importer.Pipeline
	Tasks        TaskQueue
	RunRetention time.Duration
}

func NewImportController(pipeline *importer.Pipeline, queue TaskQueue, runRetention time.Duration) ImportController {
	return ImportController{Pipeline: pipeline, Tasks: queue, RunRetention: runRetention}
}

// Import runs the pipeline on the raw request body. The format tag comes
// from the URL: /api/import/{edn,json,opml}.
func (controller ImportController) Import(c *gin.Context) {
	format := adapters.Format(c.Param("format"))

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := controller.Pipeline.Import(c.Request.Context(), payload, format, nil)
	if err != nil {
		var malformed *adapters.MalformedInputError
		if errors.As(err, &malformed) {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": malformed.Error()})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	controller.enqueueRunCleanup()

	c.IndentedJSON(http.StatusOK, AsImportResponse(report))
}

// enqueueRunCleanup schedules pruning of old finished run records after each
// import. Best effort: a full queue never fails the import that triggered it.
func (controller ImportController) enqueueRunCleanup() {
	if controller.Tasks == nil {
		return
	}
	task := tasks.CleanupImportRunsTask{RetentionHours: int(controller.RunRetention.Hours())}
	if err := controller.Tasks.Enqueue(task); err != nil {
		log.Printf("WARNING: failed to enqueue import run cleanup: %v", err)
	}
}

func AsImportResponse(report *importer.Report) ImportResponse {
	resp := ImportResponse{
		Total:     report.Total,
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
	}
	for _, res := range report.Results {
		if res.Err != nil {
			resp.Failures = append(resp.Failures, ImportFailure{
				Index: res.Index,
				Title: res.Title,
				Error: res.Err.Error(),
			})
		}
	}
	if report.ResolutionErr != nil {
		resp.ResolutionError = report.ResolutionErr.Error()
	}
	return resp
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkpan11/logseq/internal/tasks"
)

type MaintenanceController struct {
	Tasks TaskQueue
}

func NewMaintenanceController(queue TaskQueue) MaintenanceController {
	return MaintenanceController{Tasks: queue}
}

// Resolve enqueues a graph-wide reference-resolution pass.
func (controller MaintenanceController) Resolve(c *gin.Context) {
	if controller.Tasks == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "task queue is disabled"})
		return
	}

	if err := controller.Tasks.Enqueue(tasks.ResolveReferencesTask{}); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusAccepted, gin.H{"status": "queued"})
}

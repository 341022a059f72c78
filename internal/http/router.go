package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/kkpan11/logseq/internal/database"
	"github.com/kkpan11/logseq/internal/database/imports"
	"github.com/kkpan11/logseq/internal/importer"
)

// TaskQueue enqueues background maintenance work. Nil means the task queue
// is disabled.
type TaskQueue interface {
	Enqueue(task backlite.Task) error
}

// RouterConfig receives all controller dependencies, improving testability
// and reducing parameter count.
type RouterConfig struct {
	Pipeline     *importer.Pipeline
	Database     *database.Database
	Runs         *imports.Repository
	Tasks        TaskQueue
	RunRetention time.Duration
	Version      string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	importController := NewImportController(cfg.Pipeline, cfg.Tasks, cfg.RunRetention)
	progressController := NewProgressController(cfg.Pipeline, cfg.Runs)
	pagesController := NewPagesController(cfg.Database)
	maintenanceController := NewMaintenanceController(cfg.Tasks)

	router.GET("/health", HealthCheck(cfg.Version))

	api := router.Group("/api")
	{
		api.POST("/import/:format", importController.Import)
		api.GET("/import/progress", progressController.Progress)
		api.GET("/pages", pagesController.List)
		api.GET("/pages/:name", pagesController.Get)
		api.POST("/maintenance/resolve", maintenanceController.Resolve)
	}

	return router
}

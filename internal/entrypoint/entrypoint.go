package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kkpan11/logseq/internal/audit"
	"github.com/kkpan11/logseq/internal/config"
	"github.com/kkpan11/logseq/internal/database"
	"github.com/kkpan11/logseq/internal/database/imports"
	http_controllers "github.com/kkpan11/logseq/internal/http"
	"github.com/kkpan11/logseq/internal/importer"
	"github.com/kkpan11/logseq/internal/notify"
	"github.com/kkpan11/logseq/internal/scheduler"
	"github.com/kkpan11/logseq/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting graph importer v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	runs := imports.NewRepository(db.DB)
	notifier := notify.LogNotifier{}
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	materializer := importer.NewMaterializer(db, notifier)
	resolver := importer.NewResolver(db, notifier)

	yield := importer.NoopYield
	if cfg.Import.YieldInterval > 0 {
		yield = importer.SleepYield(cfg.Import.YieldInterval)
	}

	importScheduler := importer.NewScheduler(materializer, resolver, yield, runs)
	pipeline := importer.NewPipeline(importer.NewPreRegistrar(db), importScheduler, auditor, notifier)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupImportRunsQueue(runs),
			tasks.NewResolveReferencesQueue(resolver),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic reference re-resolution
	var resolveSync *scheduler.ResolveSyncScheduler
	if cfg.ResolveSync.Enabled {
		resolveSync = scheduler.NewResolveSyncScheduler(resolver, cfg.ResolveSync.Schedule)
		if err := resolveSync.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start resolve scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Pipeline:     pipeline,
		Database:     db,
		Runs:         runs,
		RunRetention: cfg.Import.RunRetention,
		Version:      version,
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if resolveSync != nil {
			resolveSync.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Audit
		Import
		ResolveSync
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Audit struct {
		Dir string
	}
	Import struct {
		// YieldInterval is the cooperative pause between page jobs. Zero
		// means yield without pausing.
		YieldInterval time.Duration
		RunRetention  time.Duration
	}
	ResolveSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8199)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("import_yield_interval", "100ms")
	v.SetDefault("import_run_retention", "168h")
	v.SetDefault("resolve_sync_enabled", false)
	v.SetDefault("resolve_sync_schedule", "0 * * * *") // Hourly at :00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Import: Import{
			YieldInterval: v.GetDuration("IMPORT_YIELD_INTERVAL"),
			RunRetention:  v.GetDuration("IMPORT_RUN_RETENTION"),
		},
		ResolveSync: ResolveSync{
			Enabled:  v.GetBool("RESOLVE_SYNC_ENABLED"),
			Schedule: v.GetString("RESOLVE_SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

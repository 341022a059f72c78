package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, int32(8199), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "./audit", cfg.Audit.Dir)
	assert.Equal(t, 100*time.Millisecond, cfg.Import.YieldInterval)
	assert.Equal(t, 168*time.Hour, cfg.Import.RunRetention)
	assert.False(t, cfg.ResolveSync.Enabled)
	assert.Equal(t, "0 * * * *", cfg.ResolveSync.Schedule)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("IMPORT_YIELD_INTERVAL", "0s")
	t.Setenv("RESOLVE_SYNC_ENABLED", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Zero(t, cfg.Import.YieldInterval)
	assert.True(t, cfg.ResolveSync.Enabled)
}

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkpan11/logseq/internal/database"
	"github.com/kkpan11/logseq/internal/database/imports"
	"github.com/kkpan11/logseq/internal/importer"
	"github.com/kkpan11/logseq/internal/notify"
	"github.com/kkpan11/logseq/internal/tasks"
)

type fakeTaskQueue struct {
	enqueued []backlite.Task
	err      error
}

func (q *fakeTaskQueue) Enqueue(task backlite.Task) error {
	q.enqueued = append(q.enqueued, task)
	return q.err
}

func setupTestRouter(t *testing.T) (*gin.Engine, *database.Database, *fakeTaskQueue, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	runs := imports.NewRepository(db.DB)
	notifier := notify.LogNotifier{}
	materializer := importer.NewMaterializer(db, notifier)
	resolver := importer.NewResolver(db, notifier)
	scheduler := importer.NewScheduler(materializer, resolver, importer.NoopYield, runs)
	pipeline := importer.NewPipeline(importer.NewPreRegistrar(db), scheduler, nil, notifier)

	queue := &fakeTaskQueue{}
	router := NewRouter(RouterConfig{
		Pipeline:     pipeline,
		Database:     db,
		Runs:         runs,
		Tasks:        queue,
		RunRetention: 48 * time.Hour,
		Version:      "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, db, queue, cleanup
}

func TestImportController_Import(t *testing.T) {
	t.Run("imports a JSON payload end to end", func(t *testing.T) {
		router, db, queue, cleanup := setupTestRouter(t)
		defer cleanup()

		payload := `[
			{"page-name": "Alpha", "children": [{"content": "first"}]},
			{"page-name": "Beta", "children": [{"content": "second"}]}
		]`

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/import/json", bytes.NewBufferString(payload))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ImportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 2, resp.Succeeded)
		assert.Zero(t, resp.Failed)
		assert.Empty(t, resp.Failures)

		// The pages actually landed in the store.
		pages, err := db.ListPages()
		require.NoError(t, err)
		assert.Len(t, pages, 2)

		// A successful import schedules pruning of old run records.
		require.Len(t, queue.enqueued, 1)
		cleanupTask, ok := queue.enqueued[0].(tasks.CleanupImportRunsTask)
		require.True(t, ok)
		assert.Equal(t, 48, cleanupTask.RetentionHours)
	})

	t.Run("malformed payload maps to bad request", func(t *testing.T) {
		router, _, queue, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/import/json", bytes.NewBufferString("{broken"))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "malformed")

		// A rejected import never schedules cleanup.
		assert.Empty(t, queue.enqueued)
	})

	t.Run("unknown format maps to internal error", func(t *testing.T) {
		router, _, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/import/yaml", bytes.NewBufferString("{}"))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("partial failure still returns OK with failures listed", func(t *testing.T) {
		router, _, _, cleanup := setupTestRouter(t)
		defer cleanup()

		// The second page has no title, so its job fails in isolation.
		payload := `[
			{"page-name": "Good", "children": [{"content": "fine"}]},
			{"children": [{"content": "orphaned"}]}
		]`

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/import/json", bytes.NewBufferString(payload))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ImportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Succeeded)
		assert.Equal(t, 1, resp.Failed)
		require.Len(t, resp.Failures, 1)
		assert.Contains(t, resp.Failures[0].Error, "no title")
	})
}

func TestAsImportResponse(t *testing.T) {
	report := &importer.Report{
		Total: 2,
		Results: []importer.JobResult{
			{Index: 0, Title: "ok"},
			{Index: 1, Title: "bad", Err: &importer.PageMaterializationError{Title: "bad"}},
		},
	}

	resp := AsImportResponse(report)

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, 1, resp.Failures[0].Index)
	assert.Equal(t, "bad", resp.Failures[0].Title)
}

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkpan11/logseq/internal/entities"
	"github.com/kkpan11/logseq/internal/tasks"
)

func TestProgressController_Progress(t *testing.T) {
	t.Run("empty store yields a zero snapshot and no run", func(t *testing.T) {
		router, _, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/import/progress", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Zero(t, resp.Live.Total)
		assert.Nil(t, resp.Run)
	})

	t.Run("reflects the persisted run after an import", func(t *testing.T) {
		router, _, _, cleanup := setupTestRouter(t)
		defer cleanup()

		payload := `[{"page-name": "Only", "children": [{"content": "block"}]}]`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/import/json", bytes.NewBufferString(payload))
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/import/progress", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Live.Total)
		assert.Equal(t, 1, resp.Live.CurrentIndex)
		require.NotNil(t, resp.Run)
		assert.Equal(t, entities.ImportStatusCompleted, resp.Run.Status)
		assert.Equal(t, 1, resp.Run.Total)
		assert.Zero(t, resp.Run.PagesFailed)
	})
}

func TestMaintenanceController_Resolve(t *testing.T) {
	maintenanceRouter := func(queue TaskQueue) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		controller := NewMaintenanceController(queue)
		router.POST("/api/maintenance/resolve", controller.Resolve)
		return router
	}

	t.Run("unavailable without a task queue", func(t *testing.T) {
		router := maintenanceRouter(nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/maintenance/resolve", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("queues a resolution pass", func(t *testing.T) {
		queue := &fakeTaskQueue{}
		router := maintenanceRouter(queue)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/maintenance/resolve", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, queue.enqueued, 1)
		assert.IsType(t, tasks.ResolveReferencesTask{}, queue.enqueued[0])
	})

	t.Run("surfaces enqueue failures", func(t *testing.T) {
		queue := &fakeTaskQueue{err: errors.New("queue is full")}
		router := maintenanceRouter(queue)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/maintenance/resolve", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "queue is full")
	})
}

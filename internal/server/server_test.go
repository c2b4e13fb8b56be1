package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/app"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/handlers"
	"github.com/ternarybob/brandforge/internal/pipeline"
	badgerstore "github.com/ternarybob/brandforge/internal/storage/badger"
	"github.com/ternarybob/brandforge/internal/storage/documents"
)

// newTestServer wires a server over real storage in a temp dir, with
// no browser or LLM behind it. Jobs submitted here queue but never run.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := arbor.NewLogger()
	cfg := common.NewDefaultConfig()
	cfg.Server.Port = 0
	cfg.Storage.Badger.Path = t.TempDir()

	db, err := badgerstore.NewBadgerDB(logger, &cfg.Storage.Badger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	jobs := badgerstore.NewJobStorage(db, logger)
	results, err := documents.NewStore(t.TempDir(), logger)
	require.NoError(t, err)

	pool := pipeline.NewWorkerPool(nil, jobs, &cfg.Pipeline, logger)

	application := &app.App{
		Config:     cfg,
		Logger:     logger,
		APIHandler: handlers.NewAPIHandler(),
		JobHandler: handlers.NewJobHandler(jobs, results, pool, logger),
	}
	return New(application)
}

func (s *Server) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_SubmitAndPoll(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"url": "example.com"})
	rec := srv.serve(httptest.NewRequest("POST", "/api/jobs", bytes.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var submitted map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	id := submitted["id"].(string)

	rec = srv.serve(httptest.NewRequest("GET", "/api/jobs/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "pending", status["status"])

	// Download before completion is a conflict, not an error page
	rec = srv.serve(httptest.NewRequest("GET", "/api/jobs/"+id+"/pdf", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRoutes_ListByMethod(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.serve(httptest.NewRequest("GET", "/api/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, float64(0), listed["count"])

	rec = srv.serve(httptest.NewRequest("DELETE", "/api/jobs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestRoutes_SystemEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.serve(httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.serve(httptest.NewRequest("GET", "/api/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.serve(httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.serve(httptest.NewRequest("OPTIONS", "/api/jobs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestMiddleware_RecoversFromPanic(t *testing.T) {
	srv := newTestServer(t)
	srv.router.HandleFunc("/api/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := srv.serve(httptest.NewRequest("GET", "/api/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

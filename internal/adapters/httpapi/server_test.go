package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *application.Session) {
	t.Helper()
	s := application.OpenSession(nil, application.WithIDGenerator(application.NewSequenceGenerator("h")))
	return NewRouter(s, Options{}), s
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetSnapshot(t *testing.T) {
	router, s := newTestRouter(t)
	s.ERD.AddTable(domain.Position{})

	w := do(router, http.MethodGet, "/api/erd", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	var snap application.ERDSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Tables, 1)
}

func TestUnknownKind(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/sequence", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
}

func TestPutSnapshot(t *testing.T) {
	router, s := newTestRouter(t)

	w := do(router, http.MethodPut, "/api/usecase", `{"nodes":[{"id":"a","type":"ACTOR","position":{"x":0,"y":0},"size":{"width":80,"height":100},"data":{"name":"Clerk"}}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, s.UseCase.Nodes(), 1)

	w = do(router, http.MethodPut, "/api/usecase", `{"edges": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, s.UseCase.Nodes(), 1, "malformed import leaves the diagram unchanged")
}

func TestClearDiagram(t *testing.T) {
	router, s := newTestRouter(t)
	s.Flowchart.AddNode(domain.ShapeStart, domain.Position{})

	w := do(router, http.MethodDelete, "/api/flowchart", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.Flowchart.Nodes())
}

func TestGetSQL(t *testing.T) {
	router, s := newTestRouter(t)
	s.ERD.AddTable(domain.Position{})

	w := do(router, http.MethodGet, "/api/erd/sql", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "CREATE TABLE IF NOT EXISTS `Table_1`")

	w = do(router, http.MethodGet, "/api/flowchart/sql", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIntegrity(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/erd/integrity", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"violations":[]}}`, w.Body.String())
}

func TestHealthAndCORS(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

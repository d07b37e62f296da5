package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-run/helmsman/controller"
	"github.com/helmsman-run/helmsman/diagnose"
	"github.com/helmsman-run/helmsman/engine"
	"github.com/helmsman-run/helmsman/models"
	"github.com/helmsman-run/helmsman/runtime"
	"github.com/helmsman-run/helmsman/store"
	"github.com/helmsman-run/helmsman/translate"
)

const webManifest = `apiVersion: helmsman.run/v1
kind: Application
metadata:
  name: web
spec:
  replicas: 2
  container:
    image: nginx:latest
`

func newTestServer(t *testing.T) (*APIServer, *runtime.MemoryRuntime) {
	t.Helper()
	rt := runtime.NewMemoryRuntime()
	s := store.New()
	rec := controller.New(s, rt, controller.WithInterval(10*time.Millisecond))
	e := engine.New(s, translate.New(nil, nil), diagnose.New(rt, nil, nil), rec, nil)
	t.Cleanup(func() { e.Stop() })
	return NewAPIServer(e, ":0", nil), rt
}

func doRequest(t *testing.T, s *APIServer, method, path, body string) (*httptest.ResponseRecorder, models.Result) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var res models.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		// Not every endpoint returns a Result; callers that care check rec.
		return rec, models.Result{}
	}
	return rec, res
}

func TestDeployAndStatusEndpoints(t *testing.T) {
	s, rt := newTestServer(t)

	rec, res := doRequest(t, s, http.MethodPost, "/api/v1/applications", webManifest)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, res.Success)

	containers, err := rt.List(context.Background(), models.ManagedLabels("web"))
	require.NoError(t, err)
	assert.Len(t, containers, 2)

	rec, res = doRequest(t, s, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, res.Status, 1)
	assert.Equal(t, 2, res.Status[0].Replicas)
}

func TestDeployRejectsEmptyBody(t *testing.T) {
	s, _ := newTestServer(t)

	rec, _ := doRequest(t, s, http.MethodPost, "/api/v1/applications", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranslateEndpoint(t *testing.T) {
	s, rt := newTestServer(t)

	rec, res := doRequest(t, s, http.MethodPost, "/api/v1/translate",
		`{"input":"deploy nginx:latest as web with 2 replicas"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success, res.Message)

	containers, err := rt.List(context.Background(), models.ManagedLabels("web"))
	require.NoError(t, err)
	assert.Len(t, containers, 2)
}

func TestDeleteEndpoint(t *testing.T) {
	s, rt := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/applications", webManifest)

	rec, res := doRequest(t, s, http.MethodDelete, "/api/v1/applications/web", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)

	containers, err := rt.List(context.Background(), models.ManagedLabels("web"))
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestManifestEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/applications", webManifest)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/web/manifest", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kind: Application")
	assert.Contains(t, rec.Body.String(), "image: nginx:latest")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/applications/ghost/manifest", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiagnosisEndpoints(t *testing.T) {
	s, rt := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/applications", webManifest)

	containers, err := rt.List(context.Background(), models.ManagedLabels("web"))
	require.NoError(t, err)
	require.NotEmpty(t, containers)
	rt.MarkFailed(containers[0].ID, "bind: address already in use on port 80")

	rec, res := doRequest(t, s, http.MethodGet, "/api/v1/diagnosis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, res.Analyses, 1)
	assert.Equal(t, "Port Conflict", res.Analyses[0].RootCause)

	rec, res = doRequest(t, s, http.MethodGet, "/api/v1/diagnosis/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, res.Message, "Port Conflict: 1")

	rec, res = doRequest(t, s, http.MethodPost, "/api/v1/heal?app=web", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success, res.Message)
}

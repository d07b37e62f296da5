// Package server exposes the engine's operations over a small REST API.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/helmsman-run/helmsman/engine"
	"github.com/helmsman-run/helmsman/models"
)

type APIServer struct {
	router *mux.Router
	engine *engine.Engine
	logger *zap.Logger
	addr   string
}

func NewAPIServer(e *engine.Engine, addr string, logger *zap.Logger) *APIServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &APIServer{
		router: mux.NewRouter(),
		engine: e,
		logger: logger,
		addr:   addr,
	}
	s.setupRoutes()
	return s
}

func (s *APIServer) setupRoutes() {
	s.router.HandleFunc("/api/v1/applications", s.handleDeploy).Methods("POST")
	s.router.HandleFunc("/api/v1/applications", s.handleListApplications).Methods("GET")
	s.router.HandleFunc("/api/v1/applications/{name}", s.handleDeleteApplication).Methods("DELETE")
	s.router.HandleFunc("/api/v1/applications/{name}/manifest", s.handleManifest).Methods("GET")
	s.router.HandleFunc("/api/v1/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/api/v1/translate", s.handleTranslate).Methods("POST")
	s.router.HandleFunc("/api/v1/diagnosis", s.handleDiagnosis).Methods("GET")
	s.router.HandleFunc("/api/v1/diagnosis/report", s.handleReport).Methods("GET")
	s.router.HandleFunc("/api/v1/heal", s.handleHeal).Methods("POST")
}

// Start blocks serving HTTP until the listener fails.
func (s *APIServer) Start() error {
	s.logger.Info("API server starting", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.router)
}

// Handler exposes the router for tests.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// handleDeploy accepts a manifest document as the request body.
func (s *APIServer) handleDeploy(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		respondError(w, http.StatusBadRequest, "manifest body required")
		return
	}

	// The engine's surface is path-based; spool the body to a temp file.
	tmp, err := os.CreateTemp("", "helmsman-manifest-*.yaml")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not buffer manifest")
		return
	}
	path := tmp.Name()
	defer os.Remove(path)
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		respondError(w, http.StatusInternalServerError, "could not buffer manifest")
		return
	}
	tmp.Close()

	res := s.engine.Deploy(r.Context(), filepath.Clean(path))
	respondResult(w, http.StatusCreated, res)
}

func (s *APIServer) handleListApplications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Store().ListApplications())
}

func (s *APIServer) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	res := s.engine.DeleteApplication(r.Context(), name)
	respondResult(w, http.StatusOK, res)
}

func (s *APIServer) handleManifest(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	text, err := s.engine.Store().ToManifest(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

func (s *APIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondResult(w, http.StatusOK, s.engine.Status(r.Context()))
}

func (s *APIServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Input == "" {
		respondError(w, http.StatusBadRequest, "JSON body with an 'input' field required")
		return
	}
	respondResult(w, http.StatusOK, s.engine.TranslateAndApply(r.Context(), payload.Input))
}

func (s *APIServer) handleDiagnosis(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("container"); id != "" {
		respondResult(w, http.StatusOK, s.engine.Classify(r.Context(), id))
		return
	}
	respondResult(w, http.StatusOK, s.engine.ClassifyAll(r.Context()))
}

func (s *APIServer) handleReport(w http.ResponseWriter, r *http.Request) {
	respondResult(w, http.StatusOK, s.engine.Report(r.Context()))
}

func (s *APIServer) handleHeal(w http.ResponseWriter, r *http.Request) {
	app := r.URL.Query().Get("app")
	respondResult(w, http.StatusOK, s.engine.AutoHeal(r.Context(), app))
}

// respondResult maps an engine result onto HTTP: failures come back as 400
// with the same structured body.
func respondResult(w http.ResponseWriter, successCode int, res models.Result) {
	code := successCode
	if !res.Success {
		code = http.StatusBadRequest
	}
	respondJSON(w, code, res)
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, models.Fail(message))
}

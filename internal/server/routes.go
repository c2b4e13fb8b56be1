package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Jobs (submission, polling, document download)
	mux.HandleFunc("/api/jobs", s.handleJobsRoute) // POST (submit), GET (list)
	mux.HandleFunc("/api/jobs/", s.handleJobRoutes) // GET /{id} and /{id}/pdf

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleJobsRoute dispatches /api/jobs by method
func (s *Server) handleJobsRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.app.JobHandler.SubmitHandler(w, r)
	case http.MethodGet:
		s.app.JobHandler.ListHandler(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobRoutes dispatches /api/jobs/{id} and /api/jobs/{id}/pdf
func (s *Server) handleJobRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/jobs/"), "/")
	if strings.HasSuffix(rest, "/pdf") {
		s.app.JobHandler.DownloadHandler(w, r)
		return
	}
	s.app.JobHandler.StatusHandler(w, r)
}

package api

import (
	"fmt"
	"net/http"
)

// setupRoutes initializes the file and preflight routes
func (s *Server) setupRoutes() {
	files := http.FileServer(http.Dir(s.cfg.RootDir))

	// Preflight requests only need the CORS headers
	s.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(s.handlePreflight)

	// Static files, index.html or a generated listing for directories
	s.router.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(files)

	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.handleUnsupportedMethod)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUnsupportedMethod(w http.ResponseWriter, r *http.Request) {
	http.Error(w, fmt.Sprintf("Unsupported method ('%s')", r.Method), http.StatusNotImplemented)
}

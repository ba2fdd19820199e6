package api

import (
	"net/http"

	"carnorm/internal/version"
)

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/version", s.handleVersion)
	s.router.HandleFunc("/metrics", s.handleMetrics)
	s.router.HandleFunc("/openapi.json", s.handleOpenAPISpec)

	s.router.HandleFunc("/v1/normalize", s.handleNormalize)

	if s.config.AssetsDir != "" {
		s.router.Handle("/", http.FileServer(http.Dir(s.config.AssetsDir)))
		return
	}
	s.router.HandleFunc("/", s.handleRoot)
}

// handleRoot lists the endpoints when no front-end is being served
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		MethodNotAllowed(w, http.MethodGet)
		return
	}

	response := map[string]interface{}{
		"name":    "carnorm HTTP API",
		"version": version.Version,
		"endpoints": []string{
			"POST /v1/normalize?format=json|yaml|toml&indent=true - Normalize and sort a JSON array of car records",
			"GET /health - Health check",
			"GET /version - Build information",
			"GET /metrics - Prometheus metrics",
			"GET /openapi.json - OpenAPI specification",
		},
		"documentation": "/openapi.json",
	}

	WriteJSON(w, response, http.StatusOK)
}

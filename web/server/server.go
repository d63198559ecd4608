package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-raycaster/pkg/config"
	"github.com/df07/go-raycaster/pkg/output"
	"github.com/df07/go-raycaster/pkg/scene"
)

// Request limits shared by the render, scene-config and inspect endpoints
const (
	MinImageSize  = 16
	MaxImageSize  = 2000
	MaxSamples    = 64
	DefaultWidth  = 400
	DefaultHeight = 300
)

// Server handles web requests for the raycaster
type Server struct {
	addr     string
	config   *config.Config
	uploader *output.S3Uploader // nil when S3 is not configured
}

// NewServer creates a new web server. S3 publishing is enabled when the
// configuration names a bucket.
func NewServer(addr string, cfg *config.Config) *Server {
	s := &Server{addr: addr, config: cfg}

	if cfg.S3.Enabled() {
		uploader, err := output.NewS3Uploader(cfg.S3)
		if err != nil {
			log.Printf("S3 publishing disabled: %v", err)
		} else {
			s.uploader = uploader
		}
	}

	return s
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and JSON scenes grouped for display
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		log.Printf("Error listing scenes: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig describes a scene and the request limits the UI should enforce
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	sceneObj, info, err := s.createScene(req, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]interface{}{
		"scene": info,
		"stats": map[string]int{
			"primitives": sceneObj.PrimitiveCount(),
			"lights":     len(sceneObj.Lights),
			"materials":  len(sceneObj.Materials),
		},
		"defaults": map[string]interface{}{
			"width":   DefaultWidth,
			"height":  DefaultHeight,
			"octree":  s.config.UseOctree,
			"samples": s.config.SamplesPerPixel,
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": MinImageSize,
				"max": MaxImageSize,
			},
			"height": map[string]int{
				"min": MinImageSize,
				"max": MaxImageSize,
			},
			"samples": map[string]int{
				"min": 1,
				"max": MaxSamples,
			},
		},
		"publish": s.uploader != nil,
	}

	writeJSON(w, http.StatusOK, response)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

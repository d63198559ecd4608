package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/output"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// Buffer kinds a render request can ask for
const (
	KindColor  = "color"
	KindDepth  = "depth"
	KindNormal = "normal"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene     string // Scene id, e.g. "sphere" or "json:pyramid"
	Width     int
	Height    int
	UseOctree bool
	Samples   int    // Camera rays per pixel
	Kind      string // color, depth or normal
	JSON      bool   // Respond with RenderResponse instead of raw PNG
	Publish   bool   // Also upload the PNG to S3
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	RaysCast         int     `json:"raysCast"`
	Hits             int     `json:"hits"`
	Tiles            int     `json:"tiles"`
	Workers          int     `json:"workers"`
	AverageLuminance float64 `json:"averageLuminance"`
	PrimitiveCount   int     `json:"primitiveCount"`
}

// RenderResponse is the JSON form of a finished render
type RenderResponse struct {
	Scene     string           `json:"scene"`
	Kind      string           `json:"kind"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	ElapsedMs int64            `json:"elapsedMs"`
	Console   []ConsoleMessage `json:"console"`
	ObjectKey string           `json:"objectKey,omitempty"` // Set when published to S3
}

// handleRender renders a scene and returns the requested buffer as a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if req.Publish && s.uploader == nil {
		writeError(w, http.StatusBadRequest, "Publishing requires S3 configuration")
		return
	}

	// Setup console logging for this render
	consoleChan, webLogger := s.setupConsoleLogging()

	startTime := time.Now()
	sceneObj, _, err := s.createScene(req, webLogger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buffers, renderStats, err := s.renderScene(sceneObj, req, webLogger)
	if err != nil {
		log.Printf("Render error for %s: %v", req.Scene, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}
	elapsed := time.Since(startTime)

	var encoded bytes.Buffer
	if err := output.EncodePNG(&encoded, bufferImage(buffers, req.Kind)); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	var objectKey string
	if req.Publish {
		key := fmt.Sprintf("%s/render_%d_%s.png", req.Scene, startTime.UnixNano(), req.Kind)
		objectKey, err = s.uploader.Upload(r.Context(), key, encoded.Bytes(), "image/png")
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
	}

	if !req.JSON {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(elapsed.Milliseconds(), 10))
		w.Header().Set("X-Primitive-Count", strconv.Itoa(sceneObj.PrimitiveCount()))
		if objectKey != "" {
			w.Header().Set("X-Object-Key", objectKey)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(encoded.Bytes()); err != nil {
			log.Printf("Error writing render response: %v", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{
		Scene:     req.Scene,
		Kind:      req.Kind,
		ImageData: base64.StdEncoding.EncodeToString(encoded.Bytes()),
		Stats: Stats{
			TotalPixels:      renderStats.TotalPixels,
			RaysCast:         renderStats.RaysCast,
			Hits:             renderStats.Hits,
			Tiles:            renderStats.Tiles,
			Workers:          renderStats.Workers,
			AverageLuminance: renderStats.AverageLuminance,
			PrimitiveCount:   sceneObj.PrimitiveCount(),
		},
		ElapsedMs: elapsed.Milliseconds(),
		Console:   drainConsole(consoleChan),
		ObjectKey: objectKey,
	})
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// parseCommonSceneParams parses the parameters shared by every scene endpoint
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "sphere" // Default scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", DefaultWidth, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", DefaultHeight, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.UseOctree, err = parseBoolParam(query, "octree", s.config.UseOctree); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()

	var err error
	defaultSamples := min(max(s.config.SamplesPerPixel, 1), MaxSamples)
	if req.Samples, err = parseIntParam(query, "samples", defaultSamples, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.Publish, err = parseBoolParam(query, "publish", false); err != nil {
		return nil, err
	}

	req.Kind = query.Get("kind")
	switch req.Kind {
	case "":
		req.Kind = KindColor
	case KindColor, KindDepth, KindNormal:
	default:
		return nil, fmt.Errorf("kind must be color, depth or normal, got: %s", req.Kind)
	}

	switch format := query.Get("format"); format {
	case "", "png":
	case "json":
		req.JSON = true
	default:
		return nil, fmt.Errorf("format must be png or json, got: %s", format)
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 16 {
		log.Printf("Render warning: Large image with many samples may render slowly")
	}

	return req, nil
}

// createScene builds the requested built-in or JSON scene
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*scene.Scene, scene.SceneInfo, error) {
	info, ok := scene.FindScene(req.Scene)
	if !ok {
		return nil, info, fmt.Errorf("Unknown scene: %s", req.Scene)
	}

	switch info.Type {
	case scene.TypeBuiltin:
		sceneObj, err := scene.NewBuiltinScene(info.ID, req.Width, req.Height, req.UseOctree)
		return sceneObj, info, err
	case scene.TypeJSON:
		sceneObj, err := loaders.LoadScene(info.FilePath, loaders.SceneOptions{
			Width:          req.Width,
			Height:         req.Height,
			UseOctree:      req.UseOctree,
			OctreeMaxLevel: s.config.OctreeMaxLevel,
			Logger:         logger,
		})
		return sceneObj, info, err
	default:
		return nil, info, fmt.Errorf("Unsupported scene type: %s", info.Type)
	}
}

// renderScene runs one raycaster pass over the scene
func (s *Server) renderScene(sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*renderer.Buffers, renderer.RenderStats, error) {
	raycaster := renderer.NewRaycaster(req.Width, req.Height, renderer.RenderConfig{
		TileSize:        s.config.TileSize,
		NumWorkers:      s.config.Workers,
		SamplesPerPixel: req.Samples,
	}, logger)

	if err := raycaster.Load(sceneObj); err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return raycaster.Render()
}

// bufferImage converts the requested buffer to an 8-bit image
func bufferImage(buffers *renderer.Buffers, kind string) image.Image {
	switch kind {
	case KindDepth:
		return output.DepthToRGBA(buffers.Depth)
	case KindNormal:
		return output.NormalToRGBA(buffers.Normal)
	default:
		return output.ToRGBA(buffers.Color)
	}
}

package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// formatJSON asks for a PNG wrapped in JSON together with stats and log lines
const formatJSON = "json"

// maxRequestDepth bounds recursion for web requests
const maxRequestDepth = 16

// RenderRequest represents a parsed render request
type RenderRequest struct {
	Scene     string
	Width     int
	Height    int
	MaxDepth  int
	Format    string
	ClampMode renderer.ClampMode
}

// RenderResponse is returned for format=json
type RenderResponse struct {
	RenderID  string           `json:"renderId"`
	Scene     string           `json:"scene"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
	ElapsedMs int64            `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	MeanLuminance   float64 `json:"meanLuminance"`
	StdDevLuminance float64 `json:"stdDevLuminance"`
	MaxLuminance    float64 `json:"maxLuminance"`
	Casts           int64   `json:"casts"`
	ShadowRays      int64   `json:"shadowRays"`
	TIRSkipped      int64   `json:"tirSkipped"`
}

// handleRender renders one frame and returns it as an image, or as JSON
// with format=json
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := s.lookupScene(req.Scene)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	renderID := fmt.Sprintf("render-%d", s.renders.Add(1))
	consoleChan := make(chan ConsoleMessage, consoleBufferSize)
	logger := NewWebLogger(renderID, consoleChan)

	start := time.Now()
	fb, stats, err := s.renderFrame(r, sceneObj, req, logger)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	elapsed := time.Since(start)

	w.Header().Set("X-Render-Id", renderID)
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(elapsed.Milliseconds(), 10))

	if req.Format == formatJSON {
		var buf bytes.Buffer
		if err := renderer.WritePNG(&buf, fb, req.ClampMode); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, RenderResponse{
			RenderID:  renderID,
			Scene:     sceneObj.Name,
			ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
			Stats:     toStats(stats),
			Console:   drainConsole(consoleChan),
			ElapsedMs: elapsed.Milliseconds(),
		})
		return
	}

	var buf bytes.Buffer
	if err := renderer.Encode(&buf, fb, req.Format, req.ClampMode); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType(req.Format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// renderFrame renders with a request-scoped integrator so that ray counts
// belong to this request; the scene itself is shared
func (s *Server) renderFrame(r *http.Request, sceneObj *scene.Scene, req *RenderRequest, logger *WebLogger) (*renderer.Framebuffer, renderer.RenderStats, error) {
	cfg := s.config.IntegratorConfig()
	cfg.MaxDepth = req.MaxDepth

	rt, err := renderer.NewRaytracer(sceneObj, integrator.NewWhittedIntegrator(cfg), req.Width, req.Height, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return rt.RenderFrame(r.Context())
}

// parseRenderRequest reads query parameters, applying server defaults
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	limits := s.config.Server
	req := &RenderRequest{
		Scene:  query.Get("scene"),
		Format: strings.ToLower(query.Get("format")),
	}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if req.Format == "" {
		req.Format = renderer.FormatPNG
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", min(s.config.Render.Width, limits.MaxWidth), 1, limits.MaxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", min(s.config.Render.Height, limits.MaxHeight), 1, limits.MaxHeight); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", s.config.Render.MaxDepth, 0, maxRequestDepth); err != nil {
		return nil, err
	}

	switch req.Format {
	case renderer.FormatPNG, renderer.FormatPPM, formatJSON:
	default:
		return nil, fmt.Errorf("unknown format %q (want png, ppm or json)", req.Format)
	}

	clamp := query.Get("clamp")
	if clamp == "" {
		clamp = s.config.Output.ClampMode
	}
	if req.ClampMode, err = renderer.ParseClampMode(clamp); err != nil {
		return nil, err
	}

	return req, nil
}

func toStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     stats.TotalPixels,
		MeanLuminance:   stats.MeanLuminance,
		StdDevLuminance: stats.StdDevLuminance,
		MaxLuminance:    stats.MaxLuminance,
		Casts:           stats.Rays.Casts,
		ShadowRays:      stats.Rays.Shadow,
		TIRSkipped:      stats.Rays.TIRSkipped,
	}
}

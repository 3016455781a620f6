package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Server handles web requests for the Whitted raytracer
type Server struct {
	config *config.Config

	// Builtin scenes are built once and shared read-only by every request
	builtins map[string]*scene.Scene

	renders atomic.Int64
}

// NewServer creates a new web server
func NewServer(cfg *config.Config) *Server {
	builtins := make(map[string]*scene.Scene)
	for _, name := range scene.BuiltinNames() {
		s, err := scene.Builtin(name)
		if err != nil {
			continue
		}
		builtins[name] = s
	}

	return &Server{
		config:   cfg,
		builtins: builtins,
	}
}

// Router returns the HTTP routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/scenes", s.handleScenes).Methods("GET")
	api.HandleFunc("/scenes/{id}", s.handleSceneDetail).Methods("GET")
	api.HandleFunc("/render", s.handleRender).Methods("GET")
	api.HandleFunc("/inspect", s.handleInspect).Methods("GET")

	r.Use(corsMiddleware)
	return r
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists builtin scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.config.Server.ScenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneDetail describes one scene in scene file form
func (s *Server) handleSceneDetail(w http.ResponseWriter, r *http.Request) {
	sceneObj, err := s.lookupScene(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loaders.NewSceneFile(sceneObj))
}

// lookupScene returns a shared builtin scene or loads a scene file by ID.
// Requests may only name files inside the scenes directory.
func (s *Server) lookupScene(id string) (*scene.Scene, error) {
	if sceneObj, ok := s.builtins[id]; ok {
		return sceneObj, nil
	}
	if !strings.HasPrefix(id, "file:") {
		return scene.Builtin(id)
	}
	return loaders.ResolveScene(id, s.config.Server.ScenesDir)
}

// sceneErrorStatus maps a lookupScene error to a response code. Only an
// unknown scene is "not found"; a scene file that fails to load is a
// server-side fault.
func sceneErrorStatus(err error) int {
	if errors.Is(err, core.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// parseIntParam reads an integer query parameter, falling back to
// defaultValue when absent
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	str := values.Get(key)
	if str == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, str)
	}
	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, val)
	}
	return val, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

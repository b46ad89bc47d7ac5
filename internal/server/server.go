// Package server provides the HTTP interface the calibration tool uses to
// inspect and adjust the live tracking pipeline.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/silentbyte/quackhunt/internal/aim"
	"github.com/silentbyte/quackhunt/internal/app"
	"github.com/silentbyte/quackhunt/internal/calib"
	"github.com/silentbyte/quackhunt/internal/config"
	"github.com/silentbyte/quackhunt/internal/store"
)

// Pipeline is the part of the tracking application the server talks to.
type Pipeline interface {
	Publisher() *aim.Publisher
	Profile() *calib.Profile
	SetProfile(calib.Profile)
	Preview() *app.Preview
	SetPreviewEnabled(enabled bool)
}

// Config holds the server configuration.
type Config struct {
	Pipeline Pipeline
	Store    *store.Store

	// ConfigPath, when set, is where profile updates are persisted so
	// they survive a restart. AppConfig carries the non-profile settings
	// written alongside.
	ConfigPath string
	AppConfig  config.Config
}

// Server represents the HTTP server for the calibration tool.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Pipeline != nil {
		s.mux.HandleFunc("/api/aim", s.handleAim)
		s.mux.HandleFunc("/api/profile", s.handleProfile)
		s.mux.Handle("/api/preview", NewStreamHandler(s.config.Pipeline))
		s.mux.Handle("/api/feed", NewFeedHandler(s.config.Pipeline))
	}

	if s.config.Store != nil && s.config.Pipeline != nil {
		profilesHandler := NewProfilesHandler(s.config.Store, s.config.Pipeline)
		s.mux.Handle("/api/profiles", profilesHandler)
		s.mux.Handle("/api/profiles/", profilesHandler)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	})
}

// handleAim handles GET requests to /api/aim: a non-mutating snapshot of
// the current aim state. The fire queue is not drained here; that belongs
// to the game consumer alone.
func (s *Server) handleAim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, s.config.Pipeline.Publisher().Read())
}

// handleProfile serves the live calibration profile.
// GET returns the current snapshot; PUT swaps in a replacement atomically
// and persists it to the configuration file.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.config.Pipeline.Profile())

	case http.MethodPut:
		var p calib.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "Invalid profile payload", http.StatusBadRequest)
			return
		}

		s.config.Pipeline.SetProfile(p)

		if s.config.ConfigPath != "" {
			cfg := s.config.AppConfig
			cfg.Profile = p
			if err := config.Save(s.config.ConfigPath, cfg); err != nil {
				log.Printf("Failed to persist profile: %v", err)
			}
		}

		writeJSON(w, p)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// pathID extracts the trailing identifier from paths like
// /api/profiles/{id} or /api/profiles/{id}/activate.
func pathID(path, prefix string) (id string, action string) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}

	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

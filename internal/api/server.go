// Package api exposes the core operations over HTTP. The core returns
// plain data structures; this layer owns the wire format.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/idescope/idescope/internal/config"
	"github.com/idescope/idescope/internal/ide"
	"github.com/idescope/idescope/internal/logger"
	"github.com/idescope/idescope/internal/window"
)

// Server is the HTTP API server.
type Server struct {
	router    *mux.Router
	service   *ide.Service
	configMgr *config.Manager
	upgrader  websocket.Upgrader
}

// NewServer creates an API server over the given service.
func NewServer(service *ide.Service, configMgr *config.Manager) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		service:   service,
		configMgr: configMgr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Discovery
	api.HandleFunc("/windows", s.handleDiscoverWindows).Methods("GET")
	api.HandleFunc("/windows/active", s.handleActiveWindow).Methods("GET")
	api.HandleFunc("/windows/role/{role}", s.handleWindowsByRole).Methods("GET")
	api.HandleFunc("/windows/stream", s.handleWindowStream)
	api.HandleFunc("/layout", s.handleLayout).Methods("GET")

	// Capture
	api.HandleFunc("/capture/window/{handle}", s.handleCaptureWindow).Methods("POST")
	api.HandleFunc("/capture/window/{handle}/annotated", s.handleCaptureAnnotated).Methods("POST")
	api.HandleFunc("/capture/region", s.handleCaptureRegion).Methods("POST")
	api.HandleFunc("/capture/ide", s.handleCaptureFullIDE).Methods("POST")

	// Allowlist
	api.HandleFunc("/allowlist", s.handleGetAllowlist).Methods("GET")

	// Health check
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.WithComponent("api").Info().Str("addr", addr).Msg("Starting server")
	return http.ListenAndServe(addr, s.enableCORS(s.router))
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleDiscoverWindows(w http.ResponseWriter, r *http.Request) {
	windows := s.service.DiscoverWindows(r.Context())
	writeJSON(w, windows)
}

func (s *Server) handleActiveWindow(w http.ResponseWriter, r *http.Request) {
	active := s.service.GetActiveWindow(r.Context())
	if active == nil {
		http.Error(w, "no active window", http.StatusNotFound)
		return
	}
	writeJSON(w, active)
}

func (s *Server) handleWindowsByRole(w http.ResponseWriter, r *http.Request) {
	role := window.ParseRole(mux.Vars(r)["role"])
	windows := s.service.FindWindowsByType(r.Context(), role)
	writeJSON(w, windows)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.AnalyzeLayout(r.Context()))
}

func (s *Server) handleCaptureWindow(w http.ResponseWriter, r *http.Request) {
	handle, err := parseHandle(mux.Vars(r)["handle"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	shot := s.service.CaptureWindow(r.Context(), handle)
	if shot.Empty() {
		http.Error(w, "capture failed", http.StatusUnprocessableEntity)
		return
	}
	writeImage(w, shot.Format, shot.Buffer, shot.Width, shot.Height)
}

func (s *Server) handleCaptureAnnotated(w http.ResponseWriter, r *http.Request) {
	handle, err := parseHandle(mux.Vars(r)["handle"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, s.service.CaptureWithAnnotation(r.Context(), handle))
}

func (s *Server) handleCaptureRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	shot := s.service.CaptureRegion(r.Context(), req.X, req.Y, req.Width, req.Height)
	if shot.Empty() {
		http.Error(w, "capture failed", http.StatusUnprocessableEntity)
		return
	}
	writeImage(w, shot.Format, shot.Buffer, shot.Width, shot.Height)
}

func (s *Server) handleCaptureFullIDE(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.CaptureFullIDE(r.Context()))
}

func (s *Server) handleGetAllowlist(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	writeJSON(w, map[string]interface{}{
		"allowed_processes": cfg.AllowedProcesses,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleWindowStream pushes the active window over a websocket whenever
// it changes.
func (s *Server) handleWindowStream(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("api")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var last window.Handle
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			active := s.service.GetActiveWindow(r.Context())
			if active == nil || active.Handle == last {
				continue
			}
			last = active.Handle
			if err := conn.WriteJSON(active); err != nil {
				log.Debug().Err(err).Msg("Websocket client gone")
				return
			}
		}
	}
}

func parseHandle(raw string) (window.Handle, error) {
	v, err := strconv.ParseUint(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q", raw)
	}
	return window.Handle(v), nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeImage(w http.ResponseWriter, format string, buf []byte, width, height int) {
	contentType := "image/png"
	if format == "jpeg" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Capture-Width", strconv.Itoa(width))
	w.Header().Set("X-Capture-Height", strconv.Itoa(height))
	w.Write(buf)
}

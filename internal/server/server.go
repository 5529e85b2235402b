package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rdfernandes/connwatch/internal/cluster"
	"github.com/rdfernandes/connwatch/internal/history"
	"github.com/rdfernandes/connwatch/internal/metrics"
	"github.com/rdfernandes/connwatch/internal/storage"
	"github.com/rdfernandes/connwatch/internal/watcher"
)

const (
	defaultHistoryLimit  = 200
	defaultWindowHours   = 24
	maxWindowHours       = 24 * 30
	defaultTimelineCount = history.DefaultTimelinePoints
)

// Server wraps HTTP serving of the connectivity API and websocket feed.
type Server struct {
	httpServer   *http.Server
	node         cluster.Node
	source       watcher.Source
	changes      *storage.ChangeLog
	clusterSvc   *cluster.Service
	hub          *Hub
	auth         *Authenticator
	historyLimit int
}

// New creates a configured HTTP server. changes, clusterSvc, hub and auth
// may each be nil; the matching surface degrades gracefully.
func New(addr string, node cluster.Node, source watcher.Source, changes *storage.ChangeLog, clusterSvc *cluster.Service, hub *Hub, auth *Authenticator) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer:   &http.Server{Addr: addr, Handler: mux},
		node:         node,
		source:       source,
		changes:      changes,
		clusterSvc:   clusterSvc,
		hub:          hub,
		auth:         auth,
		historyLimit: defaultHistoryLimit,
	}
	s.registerRoutes(mux)
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/healthz", s.handleHealthz)
	mux.HandleFunc("/api/auth/token", s.handleToken)
	mux.HandleFunc("/api/status", s.protect(s.handleStatus))
	mux.HandleFunc("/api/history", s.protect(s.handleHistory))
	mux.HandleFunc("/api/changes", s.protect(s.handleChanges))
	mux.HandleFunc("/api/availability", s.protect(s.handleAvailability))
	mux.HandleFunc("/api/timeline", s.protect(s.handleTimeline))
	mux.HandleFunc("/api/node/status", s.protect(s.handleNodeStatus))
	mux.HandleFunc("/api/cluster", s.protect(s.handleCluster))
	if s.hub != nil {
		mux.HandleFunc("/ws", s.protect(s.hub.ServeWS))
	}
}

// protect enforces bearer auth when an authenticator is configured.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Authorize(r); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}
	if s.auth == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "auth disabled"})
		return
	}

	var req struct {
		Secret  string `json:"secret"`
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if !s.auth.MatchesSecret(req.Secret) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	if req.Subject == "" {
		req.Subject = "api-client"
	}
	token, err := s.auth.IssueToken(req.Subject)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token issuance failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"node":         s.node,
		"state":        s.source.State().Get(),
		"generated_at": time.Now().UTC(),
	}
	if latest, ok := s.source.Latest(); ok {
		payload["latest"] = latest
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.historyLimit)
	samples := s.source.History()
	if len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	writeJSON(w, http.StatusOK, samples)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	if s.changes == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	limit := parseLimit(r, s.historyLimit)
	changes := s.changes.History()
	if len(changes) > limit {
		changes = changes[len(changes)-limit:]
	}
	writeJSON(w, http.StatusOK, changes)
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	start, _ := parseWindow(r)
	samples := s.source.HistorySince(start)
	writeJSON(w, http.StatusOK, metrics.ComputeAvailability(samples))
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	start, end := parseWindow(r)
	points := parsePoints(r)
	samples := s.source.HistorySince(start)
	writeJSON(w, http.StatusOK, history.BuildTimeline(samples, start, end, points))
}

func (s *Server) handleNodeStatus(w http.ResponseWriter, _ *http.Request) {
	if s.clusterSvc != nil {
		writeJSON(w, http.StatusOK, s.clusterSvc.LocalStatus())
		return
	}
	resp := cluster.NodeStatusResponse{
		Node:         s.node,
		State:        s.source.State().Get(),
		Availability: metrics.ComputeAvailability(s.source.History()),
		GeneratedAt:  time.Now().UTC(),
	}
	if latest, ok := s.source.Latest(); ok {
		resp.Latest = &latest
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCluster(w http.ResponseWriter, _ *http.Request) {
	if s.clusterSvc == nil {
		writeJSON(w, http.StatusOK, cluster.Snapshot{
			GeneratedAt: time.Now().UTC(),
			Nodes:       []cluster.PeerSnapshot{s.localPeerSnapshot()},
		})
		return
	}
	writeJSON(w, http.StatusOK, s.clusterSvc.Snapshot())
}

func (s *Server) localPeerSnapshot() cluster.PeerSnapshot {
	snap := cluster.PeerSnapshot{
		Node:         s.node,
		State:        s.source.State().Get(),
		Availability: metrics.ComputeAvailability(s.source.History()),
		UpdatedAt:    time.Now().UTC(),
		Source:       "local",
	}
	if latest, ok := s.source.Latest(); ok {
		snap.Latest = &latest
	}
	return snap
}

// SnapshotFunc builds the payload generator used for websocket snapshot
// messages. Defined standalone so the hub can be constructed before the
// server that hosts it.
func SnapshotFunc(node cluster.Node, source watcher.Source) func() any {
	return func() any {
		payload := map[string]any{
			"node":         node,
			"state":        source.State().Get(),
			"availability": metrics.ComputeAvailability(source.History()),
			"generated_at": time.Now().UTC(),
		}
		if latest, ok := source.Latest(); ok {
			payload["latest"] = latest
		}
		return payload
	}
}

func parseLimit(r *http.Request, fallback int) int {
	if fallback <= 0 {
		return fallback
	}
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > fallback {
		return fallback
	}
	return value
}

func parseWindow(r *http.Request) (start, end time.Time) {
	hours := defaultWindowHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 && value <= maxWindowHours {
			hours = value
		}
	}
	end = time.Now().UTC()
	start = end.Add(-time.Duration(hours) * time.Hour)
	return start, end
}

func parsePoints(r *http.Request) int {
	raw := r.URL.Query().Get("points")
	if raw == "" {
		return defaultTimelineCount
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 || value > 500 {
		return defaultTimelineCount
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/linkpeek/linkpeek/internal/cache"
	"github.com/linkpeek/linkpeek/internal/preview"
)

// SessionCounter reports the number of connected page contexts.
// Implemented by the bridge server.
type SessionCounter interface {
	SessionCount() int
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	cache    *cache.Cache
	counters *preview.Counters
	sessions SessionCounter
	started  time.Time
	mux      *http.ServeMux
}

// New creates a Handler wired to the shared cache, preview counters, and
// session counter, and registers all routes.
func New(ca *cache.Cache, counters *preview.Counters, sessions SessionCounter) *Handler {
	h := &Handler{
		cache:    ca,
		counters: counters,
		sessions: sessions,
		started:  time.Now(),
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/cache", h.cacheStats)
	h.mux.HandleFunc("/api/v1/cache/clear", h.cacheClear)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — liveness and session count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jsonResp(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		ActiveSessions: h.sessions.SessionCount(),
		UptimeSeconds:  int64(time.Since(h.started).Seconds()),
	})
}

// cacheStats returns GET /api/v1/cache — size, capacity, counters, and the
// cached URLs in insertion order.
func (h *Handler) cacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st := h.cache.Stats()
	entries := make([]CacheEntry, len(st.Entries))
	for i, e := range st.Entries {
		entries[i] = CacheEntry{
			URL:        e.SourceURL,
			Width:      e.Width,
			Height:     e.Height,
			LoadMillis: e.LoadDuration.Milliseconds(),
			RecordedAt: e.RecordedAt,
		}
	}
	jsonResp(w, http.StatusOK, CacheResponse{
		Size:      st.Size,
		Capacity:  st.Capacity,
		Hits:      st.Hits,
		Evictions: st.Evictions,
		URLs:      st.URLs,
		Entries:   entries,
	})
}

// cacheClear handles POST /api/v1/cache/clear — forced clear, resetting the
// size and counters to zero.
func (h *Handler) cacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.cache.Clear()
	jsonResp(w, http.StatusOK, ClearResponse{Status: "cleared"})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

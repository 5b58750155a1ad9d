package api

import "time"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// CacheResponse is the payload for GET /api/v1/cache.
type CacheResponse struct {
	Size      int          `json:"size"`
	Capacity  int          `json:"capacity"`
	Hits      uint64       `json:"hits"`
	Evictions uint64       `json:"evictions"`
	URLs      []string     `json:"urls"`
	Entries   []CacheEntry `json:"entries"`
}

// CacheEntry is one cached image's recorded metadata, in insertion order.
type CacheEntry struct {
	URL        string    `json:"url"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	LoadMillis int64     `json:"load_ms"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ClearResponse is the payload for POST /api/v1/cache/clear.
type ClearResponse struct {
	Status string `json:"status"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// Package api implements the daemon's admin HTTP endpoints: health, cache
// statistics, forced cache clear, and Prometheus metrics exposition.
package api

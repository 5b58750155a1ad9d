// Package auth provides API key authentication for the admin HTTP API.
package auth

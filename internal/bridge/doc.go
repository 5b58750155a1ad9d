// Package bridge implements the WebSocket channel between the linkpeek
// daemon and the browser extension.
//
// Each connection is one page context: the extension streams pointer
// enter/leave events in, and a dedicated preview controller streams render
// commands back out. Closing the connection tears the session's preview down.
//
// Event format received from the extension:
//
//	{ "kind": "enter", "url": "...", "x": 10, "y": 20,
//	  "viewport_w": 1920, "viewport_h": 1080 }
//	{ "kind": "leave" }
//
// Command format sent to the extension:
//
//	{ "op": "loading"|"image"|"error"|"hide", "url": "...",
//	  "x": 30, "y": 40, "w": 300, "h": 200, "message": "..." }
//
// The upgrader accepts all origins — the daemon binds to localhost and the
// extension is the only expected client. WebSocket endpoint is mounted at
// /ws/events by the daemon.
package bridge

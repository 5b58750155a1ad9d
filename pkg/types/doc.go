// Package types defines the wire types shared between the linkpeek daemon
// and the browser extension: the pointer events the extension streams in and
// the render commands the daemon streams back. These are the canonical JSON
// shapes of the WebSocket channel, separate from any internal representation.
package types

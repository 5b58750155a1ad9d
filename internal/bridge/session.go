package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linkpeek/linkpeek/internal/cache"
	"github.com/linkpeek/linkpeek/internal/loader"
	"github.com/linkpeek/linkpeek/internal/match"
	"github.com/linkpeek/linkpeek/internal/preview"
	"github.com/linkpeek/linkpeek/pkg/types"
)

const (
	// writeTimeout is the deadline for a single write to the extension.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often ping frames are sent.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-session outgoing command buffer depth.
	sendBufSize = 16

	// maxEventBytes bounds a single incoming pointer event frame.
	maxEventBytes = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The daemon binds to localhost and the extension is the only client.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server accepts extension connections and runs one preview session per
// connection. The cache and counters are shared across sessions; a config
// reload replaces the tunables of every live session's controller and of
// sessions created afterwards.
type Server struct {
	matcher  *match.Matcher
	cache    *cache.Cache
	loader   loader.Loader
	counters *preview.Counters

	mu       sync.RWMutex
	tun      preview.Tunables
	sessions map[*session]*preview.Controller
}

// session is one connected page context.
type session struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// New creates a Server wired to the shared matcher, cache, loader, and
// counters.
func New(m *match.Matcher, ca *cache.Cache, ld loader.Loader, counters *preview.Counters, tun preview.Tunables) *Server {
	return &Server{
		matcher:  m,
		cache:    ca,
		loader:   ld,
		counters: counters,
		tun:      tun,
		sessions: make(map[*session]*preview.Controller),
	}
}

// SetTunables replaces the preview tunables, applying them to every live
// session's controller (effective from its next hover) and to sessions
// created afterwards.
func (s *Server) SetTunables(tun preview.Tunables) {
	s.mu.Lock()
	s.tun = tun
	ctrls := make([]*preview.Controller, 0, len(s.sessions))
	for _, ctrl := range s.sessions {
		ctrls = append(ctrls, ctrl)
	}
	s.mu.Unlock()

	for _, ctrl := range ctrls {
		ctrl.SetTunables(tun)
	}
}

// SessionCount returns the number of currently connected page contexts.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the session.
// Blocks until the connection closes; any active preview is torn down on exit.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	sess := &session{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}

	s.mu.RLock()
	tun := s.tun
	s.mu.RUnlock()

	ctrl := preview.New(s.matcher, s.cache, s.loader, sess, tun, s.counters)
	s.register(sess, ctrl)
	// Leave must run before unregister closes the send channel.
	defer s.unregister(sess)
	defer ctrl.Leave()

	slog.Info("bridge: session opened", "remote", conn.RemoteAddr().String())
	go sess.writePump()
	sess.readPump(r.Context(), ctrl) // blocks until the connection closes
	slog.Info("bridge: session closed", "remote", conn.RemoteAddr().String())
}

// --- internal ---------------------------------------------------------------

func (s *Server) register(sess *session, ctrl *preview.Controller) {
	s.mu.Lock()
	s.sessions[sess] = ctrl
	s.mu.Unlock()
}

func (s *Server) unregister(sess *session) {
	s.mu.Lock()
	if _, ok := s.sessions[sess]; ok {
		delete(s.sessions, sess)
		sess.once.Do(func() { close(sess.send) })
	}
	s.mu.Unlock()
}

// readPump decodes pointer events and dispatches them to the controller.
// Blocks until the connection closes.
func (sess *session) readPump(ctx context.Context, ctrl *preview.Controller) {
	defer sess.conn.Close()
	sess.conn.SetReadLimit(maxEventBytes)
	sess.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}

		var ev types.PointerEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Debug("bridge: dropping malformed event", "err", err)
			continue
		}

		switch ev.Kind {
		case types.PointerEnter:
			ctrl.Enter(ctx, ev)
		case types.PointerLeave:
			ctrl.Leave()
		default:
			slog.Debug("bridge: unknown event kind", "kind", ev.Kind)
		}
	}
}

// writePump drains the session's send channel and forwards commands to the
// connection, plus periodic ping frames. Runs in its own goroutine.
func (sess *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sess.send:
			sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				// Channel was closed (session removed).
				sess.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push enqueues a render command. A session whose buffer is full cannot keep
// up with its own page's hover traffic — drop the connection; the preview
// teardown runs when readPump exits.
func (sess *session) push(cmd types.RenderCommand) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return
	}
	select {
	case sess.send <- data:
	default:
		slog.Warn("bridge: session send buffer full, closing connection")
		sess.conn.Close()
	}
}

// --- preview.Renderer -------------------------------------------------------

func (sess *session) ShowLoading(pos preview.Position) {
	sess.push(types.RenderCommand{Op: types.OpLoading, X: pos.X, Y: pos.Y})
}

func (sess *session) ShowImage(url string, w, h int, pos preview.Position) {
	sess.push(types.RenderCommand{Op: types.OpImage, URL: url, X: pos.X, Y: pos.Y, W: w, H: h})
}

func (sess *session) ShowError(message string, pos preview.Position) {
	sess.push(types.RenderCommand{Op: types.OpError, Message: message, X: pos.X, Y: pos.Y})
}

func (sess *session) Hide() {
	sess.push(types.RenderCommand{Op: types.OpHide})
}

package realtime

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/arenahq/arena/internal/server/middleware"
)

const (
	// sendBuffer is the per-connection frame backlog. Board update events
	// are small invalidation hints, so a modest buffer is plenty; a client
	// that falls this far behind is treated as a dead consumer.
	sendBuffer = 64

	// heartbeatInterval paces SSE comment frames that flush through
	// intermediaries and surface half-open connections to the server.
	heartbeatInterval = 30 * time.Second
)

// Hub exposes the per-user push endpoints. Both transports feed the same
// connection registry, so a user is reachable through whichever stream they
// opened last.
type Hub struct {
	registry *Registry
}

func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry}
}

// ServeSSE handles the long-lived server-to-client event stream. Each frame
// is one JSON-encoded Event; the first frame after connect is always the
// "connected" handshake. The stream never terminates on its own: it stays
// open until the client goes away or the server shuts down, and the
// connection is unregistered on every exit path.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"title":"Internal Server Error","status":500,"detail":"streaming unsupported"}`, http.StatusInternalServerError)
		return
	}

	// Keep proxies from buffering or cutting the stream, and let any origin
	// read it.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	conn := newStreamConn(sendBuffer)
	h.registry.Register(userID, conn)
	defer func() {
		h.registry.Unregister(userID, conn)
		conn.close()
	}()

	hello, err := json.Marshal(Event{Type: EventConnected, UserID: userID})
	if err != nil {
		log.Error().Err(err).Msg("realtime: marshal handshake")
		return
	}
	if err := writeFrame(w, hello); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case payload, open := <-conn.ch:
			if !open {
				return
			}
			if err := writeFrame(w, payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// ServeWS serves the same event stream over a websocket, for clients that
// cannot hold an SSE connection. Incoming frames are drained and ignored;
// the stream is one-way.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
		return
	}

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("realtime: websocket accept")
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	conn := &wsConn{ctx: ctx, conn: c}
	h.registry.Register(userID, conn)
	defer h.registry.Unregister(userID, conn)

	hello, err := json.Marshal(Event{Type: EventConnected, UserID: userID})
	if err != nil {
		log.Error().Err(err).Msg("realtime: marshal handshake")
		return
	}
	if err := conn.Send(hello); err != nil {
		return
	}

	for {
		if _, _, readErr := c.Read(ctx); readErr != nil {
			_ = c.Close(websocket.StatusNormalClosure, "connection closed")
			return
		}
	}
}

func writeFrame(w io.Writer, payload []byte) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

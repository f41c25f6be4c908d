package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
)

var (
	errConnClosed   = errors.New("realtime: connection closed")
	errSlowConsumer = errors.New("realtime: send buffer full")
)

// streamConn buffers outgoing frames for one SSE subscriber. The serving
// goroutine drains ch; Send never blocks, a full buffer means the consumer
// stopped reading and the connection is reported dead.
type streamConn struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func newStreamConn(buffer int) *streamConn {
	return &streamConn{ch: make(chan []byte, buffer)}
}

func (c *streamConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnClosed
	}

	select {
	case c.ch <- payload:
		return nil
	default:
		return errSlowConsumer
	}
}

func (c *streamConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}

// wsConn adapts a websocket connection to the registry's Conn interface.
type wsConn struct {
	ctx  context.Context
	conn *websocket.Conn
}

const wsWriteTimeout = 5 * time.Second

func (c *wsConn) Send(payload []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, wsWriteTimeout)
	defer cancel()

	if err := c.conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return errors.Join(errConnClosed, err)
	}
	return nil
}

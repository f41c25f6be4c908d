package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records every payload it is handed and can be told to fail.
type fakeConn struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     error
}

func (c *fakeConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.payloads...)
}

func TestRegistryBroadcast(t *testing.T) {
	t.Parallel()

	t.Run("excludes_originator", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		alice, bob := uuid.New(), uuid.New()
		aliceConn, bobConn := &fakeConn{}, &fakeConn{}
		r.Register(alice, aliceConn)
		r.Register(bob, bobConn)

		boardID := uuid.New()
		r.Broadcast(Event{Type: EventTaskCreated, BoardID: boardID, UserID: alice}, alice)

		assert.Empty(t, aliceConn.received(), "originator must not get an echo")

		got := bobConn.received()
		require.Len(t, got, 1)

		var evt Event
		require.NoError(t, json.Unmarshal(got[0], &evt))
		assert.Equal(t, EventTaskCreated, evt.Type)
		assert.Equal(t, boardID, evt.BoardID)
	})

	t.Run("drops_dead_connections_and_continues", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		dead, live := uuid.New(), uuid.New()
		deadConn := &fakeConn{fail: errSlowConsumer}
		liveConn := &fakeConn{}
		r.Register(dead, deadConn)
		r.Register(live, liveConn)

		r.Broadcast(Event{Type: EventColumnUpdated}, uuid.Nil)

		assert.Len(t, liveConn.received(), 1, "healthy connections still get the event")
		assert.Equal(t, 1, r.Len(), "dead connection must be evicted")

		// A second broadcast only reaches the survivor.
		r.Broadcast(Event{Type: EventColumnUpdated}, uuid.Nil)
		assert.Len(t, liveConn.received(), 2)
	})

	t.Run("replacement_overwrites_previous", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		user := uuid.New()
		old, replacement := &fakeConn{}, &fakeConn{}
		r.Register(user, old)
		r.Register(user, replacement)
		assert.Equal(t, 1, r.Len())

		r.Broadcast(Event{Type: EventTaskUpdated}, uuid.Nil)

		assert.Empty(t, old.received(), "replaced connection is out of the fan-out")
		assert.Len(t, replacement.received(), 1)
	})
}

func TestRegistryUnregister(t *testing.T) {
	t.Parallel()

	t.Run("removes_own_entry", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		user := uuid.New()
		conn := &fakeConn{}
		r.Register(user, conn)
		r.Unregister(user, conn)

		assert.Equal(t, 0, r.Len())
	})

	t.Run("stale_teardown_keeps_replacement", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		user := uuid.New()
		old, replacement := &fakeConn{}, &fakeConn{}
		r.Register(user, old)
		r.Register(user, replacement)

		// The old stream's deferred cleanup fires after the reconnect.
		r.Unregister(user, old)

		assert.Equal(t, 1, r.Len(), "replacement must survive the stale teardown")

		r.Broadcast(Event{Type: EventBoardUpdated}, uuid.Nil)
		assert.Len(t, replacement.received(), 1)
	})
}

func TestStreamConn(t *testing.T) {
	t.Parallel()

	t.Run("send_after_close_fails", func(t *testing.T) {
		t.Parallel()

		c := newStreamConn(4)
		c.close()
		assert.ErrorIs(t, c.Send([]byte("x")), errConnClosed)
	})

	t.Run("full_buffer_reports_slow_consumer", func(t *testing.T) {
		t.Parallel()

		c := newStreamConn(1)
		require.NoError(t, c.Send([]byte("first")))
		assert.ErrorIs(t, c.Send([]byte("second")), errSlowConsumer)
	})

	t.Run("double_close_is_safe", func(t *testing.T) {
		t.Parallel()

		c := newStreamConn(1)
		c.close()
		c.close()
	})
}

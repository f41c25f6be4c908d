package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Conn is one live push-channel handle. Send must not block; a failed send
// marks the connection dead and the registry drops it.
type Conn interface {
	Send(payload []byte) error
}

// Broadcaster fans an event out to every registered connection except the
// originator's. Implemented by Registry (single process) and Bridge
// (multi-instance, Redis-relayed).
type Broadcaster interface {
	Broadcast(evt Event, excludeUserID uuid.UUID)
}

// Registry tracks at most one open push connection per authenticated user.
// It is created once at process start and lives for the whole process; a new
// connection for a user silently replaces the previous entry, so only the
// most recently opened tab of a user receives broadcasts.
type Registry struct {
	mu    sync.Mutex
	conns map[uuid.UUID]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uuid.UUID]Conn)}
}

// Register stores the connection for userID, overwriting any previous entry.
func (r *Registry) Register(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	r.conns[userID] = conn
	r.mu.Unlock()
	log.Debug().Str("user_id", userID.String()).Msg("realtime: connection registered")
}

// Unregister removes the entry for userID, but only if conn is still the
// registered handle. A stale stream tearing down after its user reconnected
// must not evict the replacement connection.
func (r *Registry) Unregister(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	if cur, ok := r.conns[userID]; ok && cur == conn {
		delete(r.conns, userID)
	}
	r.mu.Unlock()
	log.Debug().Str("user_id", userID.String()).Msg("realtime: connection unregistered")
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Broadcast serializes evt once and writes it to every registered connection
// except excludeUserID's. Delivery is fire-and-forget, at-most-once and
// unordered: a connection whose send fails is treated as dead and dropped
// from the registry, and the fan-out continues with the remaining
// connections. There is no retry and no acknowledgement.
func (r *Registry) Broadcast(evt Event, excludeUserID uuid.UUID) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("type", string(evt.Type)).Msg("realtime: marshal event")
		return
	}

	type target struct {
		userID uuid.UUID
		conn   Conn
	}

	r.mu.Lock()
	targets := make([]target, 0, len(r.conns))
	for userID, conn := range r.conns {
		if userID != excludeUserID {
			targets = append(targets, target{userID: userID, conn: conn})
		}
	}
	r.mu.Unlock()

	for _, t := range targets {
		if sendErr := t.conn.Send(payload); sendErr != nil {
			log.Debug().Err(sendErr).Str("user_id", t.userID.String()).Msg("realtime: dropping dead connection")
			r.Unregister(t.userID, t.conn)
		}
	}
}

package realtime

import "github.com/google/uuid"

// EventType tags a board update pushed to connected clients.
type EventType string

const (
	// EventConnected is the handshake frame sent once per stream, right
	// after the connection is registered.
	EventConnected EventType = "connected"

	EventTaskCreated   EventType = "task_created"
	EventTaskUpdated   EventType = "task_updated"
	EventTaskDeleted   EventType = "task_deleted"
	EventColumnCreated EventType = "column_created"
	EventColumnUpdated EventType = "column_updated"
	EventColumnDeleted EventType = "column_deleted"
	EventBoardUpdated  EventType = "board_updated"
)

// Event is the payload pushed over the event stream. Data is an invalidation
// hint (the affected entity or a collection), not an authoritative delta:
// subscribers are expected to refetch, not to apply it. BoardID scopes
// relevance; UserID identifies the originator and is excluded from fan-out.
type Event struct {
	Type    EventType `json:"type"`
	Data    any       `json:"data,omitempty"`
	BoardID uuid.UUID `json:"boardId,omitzero"`
	UserID  uuid.UUID `json:"userId,omitzero"`
}

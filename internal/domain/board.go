package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultColumnID is the identifier forced onto the first column of every
// board so a default landing column always exists for new tasks.
const DefaultColumnID = "TODO"

type Board struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	OwnerID   uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Column is a named lane within a board. Its string identifier doubles as the
// status value of every task it holds; identifiers are unique per board, not
// globally. Order values are dense zero-based integers within a board.
type Column struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Color     string    `json:"color,omitempty"`
	BoardID   uuid.UUID `json:"boardId"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	List(ctx context.Context) ([]*Board, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ColumnRepository interface {
	Create(ctx context.Context, c *Column) error
	GetByID(ctx context.Context, boardID uuid.UUID, id string) (*Column, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Column, error)
	Update(ctx context.Context, c *Column) error
	// Delete removes a column and cascades to every task in it, atomically.
	Delete(ctx context.Context, boardID uuid.UUID, id string) error
}

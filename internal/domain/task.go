package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work on a board. Status always mirrors the identifier of
// the column the task sits in; Order is dense within a (board, column) pair.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	ColumnID     string     `json:"columnId"`
	BoardID      uuid.UUID  `json:"boardId"`
	OwnerID      uuid.UUID  `json:"userId"`
	CreatedByID  uuid.UUID  `json:"createdById"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
	Order        int        `json:"order"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Populated on reads.
	CreatedBy  *UserRef `json:"createdBy,omitempty"`
	AssignedTo *UserRef `json:"assignedTo,omitempty"`
}

// TaskPatch is one entry of a bulk drag-and-drop update. Nil fields are left
// untouched on the stored task.
type TaskPatch struct {
	ID       uuid.UUID `json:"id"`
	Status   *string   `json:"status,omitempty"`
	ColumnID *string   `json:"columnId,omitempty"`
	Order    *int      `json:"order,omitempty"`
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	// BulkUpdate applies every patch in one transaction and returns the
	// updated tasks with creator/assignee refs resolved.
	BulkUpdate(ctx context.Context, patches []TaskPatch) ([]*Task, error)
}

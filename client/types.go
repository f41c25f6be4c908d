package client

import "time"

// Board is a kanban board as returned by the server.
type Board struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Column is a board column. Column identifiers are strings derived from the
// title and are unique per board, not globally.
type Column struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Color     string    `json:"color,omitempty"`
	BoardID   string    `json:"boardId"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRef is a compact user reference embedded in tasks.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task is a kanban task. Status always mirrors ColumnID.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	ColumnID    string    `json:"columnId"`
	BoardID     string    `json:"boardId"`
	OwnerID     string    `json:"ownerId"`
	Order       int       `json:"order"`
	CreatedBy   *UserRef  `json:"createdBy,omitempty"`
	AssignedTo  *UserRef  `json:"assignedTo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User is an account visible in assignment pickers.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// TaskPatch is one entry in a bulk position update. Nil fields are left
// untouched by the server.
type TaskPatch struct {
	ID       string  `json:"id"`
	Status   *string `json:"status,omitempty"`
	ColumnID *string `json:"columnId,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

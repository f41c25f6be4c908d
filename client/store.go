package client

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// Errors recorded by convenience mutations that need a selected board.
var (
	ErrNoBoardSelected = errors.New("client: no board selected")
	ErrNoColumns       = errors.New("client: selected board has no columns")
)

// Store is an in-memory mirror of one user's board state. Every mutation goes
// to the server first and is applied locally only after it succeeds, so the
// local state never diverges from what the server accepted. A failed call is
// recorded in the error slot and returned; the previous state stands.
//
// Store is safe for concurrent use, which matters because the realtime
// subscriber refreshes it from its own goroutine.
type Store struct {
	client *Client

	mu      sync.RWMutex
	boards  []Board
	current string
	columns []Column
	tasks   []Task
	users   []User
	loading bool
	lastErr error
}

// NewStore creates an empty Store backed by the given API client.
func NewStore(c *Client) *Store {
	return &Store{client: c}
}

// Boards returns a copy of the loaded boards.
func (s *Store) Boards() []Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.boards)
}

// Columns returns a copy of the loaded columns in board order.
func (s *Store) Columns() []Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.columns)
}

// CurrentBoard returns the selected board, or nil when none is selected.
func (s *Store) CurrentBoard() *Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.boards {
		if s.boards[i].ID == s.current {
			b := s.boards[i]
			return &b
		}
	}
	return nil
}

// SelectBoard makes the board with the given id current. It reports whether
// the board is in the loaded list.
func (s *Store) SelectBoard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.boards {
		if s.boards[i].ID == id {
			s.current = id
			return true
		}
	}
	return false
}

// Tasks returns a copy of the loaded tasks.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Users returns a copy of the loaded assignable users.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// Loading reports whether a load call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the most recent failed operation, or nil
// if the last operation succeeded.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) record(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

// LoadBoards fetches the caller's boards and replaces the local list. The
// selection is kept if the selected board is still present; otherwise the
// first board becomes current, or the selection clears when none remain.
func (s *Store) LoadBoards(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	boards, err := s.client.ListBoards(ctx)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	s.boards = boards
	if !slices.ContainsFunc(boards, func(b Board) bool { return b.ID == s.current }) {
		s.current = ""
		if len(boards) > 0 {
			s.current = boards[0].ID
		}
	}
	s.mu.Unlock()
	return s.record(nil)
}

// CreateBoard creates a board, appends it locally, makes it current, and
// loads its columns. Unlike the best-effort mutations, failures here surface
// as a returned error so first-run board bootstrapping can react to them.
func (s *Store) CreateBoard(ctx context.Context, title string) (*Board, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	b, err := s.client.CreateBoard(ctx, title)
	if err != nil {
		return nil, s.record(err)
	}

	s.mu.Lock()
	s.boards = append(s.boards, *b)
	s.current = b.ID
	s.mu.Unlock()

	if err := s.LoadColumns(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadColumns fetches the columns of one board and replaces the local list.
func (s *Store) LoadColumns(ctx context.Context, boardID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	columns, err := s.client.ListColumns(ctx, boardID)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	s.columns = columns
	s.mu.Unlock()
	return s.record(nil)
}

// LoadTasks fetches the tasks of one board and replaces the local list.
func (s *Store) LoadTasks(ctx context.Context, boardID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	tasks, err := s.client.ListTasks(ctx, boardID)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return s.record(nil)
}

// LoadUsers fetches the assignable user list.
func (s *Store) LoadUsers(ctx context.Context) error {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return s.record(nil)
}

// AddColumn creates a column and appends it locally. The server derives the
// column identifier: the first column of a board always gets the fixed
// default identifier, later ones get an uppercased form of the title.
func (s *Store) AddColumn(ctx context.Context, boardID, title, color string) (*Column, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	c, err := s.client.CreateColumn(ctx, boardID, title, color)
	if err != nil {
		return nil, s.record(err)
	}

	s.mu.Lock()
	s.columns = append(s.columns, *c)
	s.mu.Unlock()
	_ = s.record(nil)
	return c, nil
}

// UpdateColumn renames or recolors a column and replaces it locally.
func (s *Store) UpdateColumn(ctx context.Context, boardID, id, title, color string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	c, err := s.client.UpdateColumn(ctx, boardID, id, title, color)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	for i := range s.columns {
		if s.columns[i].ID == c.ID && s.columns[i].BoardID == c.BoardID {
			s.columns[i] = *c
			break
		}
	}
	s.mu.Unlock()
	return s.record(nil)
}

// RemoveColumn deletes a column and drops it and every task it held from the
// local state. The server cascades the task deletion, so the local cascade
// keeps the mirror consistent without a refetch.
func (s *Store) RemoveColumn(ctx context.Context, boardID, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.DeleteColumn(ctx, boardID, id); err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	s.columns = slices.DeleteFunc(s.columns, func(c Column) bool {
		return c.ID == id && c.BoardID == boardID
	})
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool {
		return t.ColumnID == id && t.BoardID == boardID
	})
	s.mu.Unlock()
	return s.record(nil)
}

// AddTask creates a task and appends it locally.
func (s *Store) AddTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	t, err := s.client.CreateTask(ctx, req)
	if err != nil {
		return nil, s.record(err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *t)
	s.mu.Unlock()
	_ = s.record(nil)
	return t, nil
}

// QuickAddTask creates a task on the current board, landing it in the first
// column. A missing board or an empty board is recorded in the error slot and
// reported with a nil return instead of an error value, so callers can treat
// quick-add as best-effort.
func (s *Store) QuickAddTask(ctx context.Context, title, description string, assignedToID *string) *Task {
	s.mu.RLock()
	boardID := s.current
	var columnID string
	if len(s.columns) > 0 {
		columnID = s.columns[0].ID
	}
	s.mu.RUnlock()

	if boardID == "" {
		_ = s.record(ErrNoBoardSelected)
		return nil
	}
	if columnID == "" {
		_ = s.record(ErrNoColumns)
		return nil
	}

	t, err := s.AddTask(ctx, CreateTaskRequest{
		Title:        title,
		Description:  description,
		Status:       columnID,
		ColumnID:     columnID,
		BoardID:      boardID,
		AssignedToID: assignedToID,
	})
	if err != nil {
		return nil
	}
	return t
}

// UpdateTask updates a task and replaces it locally.
func (s *Store) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) error {
	s.setLoading(true)
	defer s.setLoading(false)

	t, err := s.client.UpdateTask(ctx, id, req)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = *t
			break
		}
	}
	s.mu.Unlock()
	return s.record(nil)
}

// RemoveTask deletes a task and drops it locally.
func (s *Store) RemoveTask(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.DeleteTask(ctx, id); err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool { return t.ID == id })
	s.mu.Unlock()
	return s.record(nil)
}

// BulkUpdateTasks sends a batch of position patches and merges the updated
// tasks back into the local list by id. Tasks absent from the response keep
// their local state.
func (s *Store) BulkUpdateTasks(ctx context.Context, patches []TaskPatch) error {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.client.BulkUpdateTasks(ctx, patches)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	for _, u := range updated {
		for i := range s.tasks {
			if s.tasks[i].ID == u.ID {
				s.tasks[i] = u
				break
			}
		}
	}
	s.mu.Unlock()
	return s.record(nil)
}

// Refresh reloads columns and tasks for one board. The realtime subscriber
// calls this after a debounced burst of board events.
func (s *Store) Refresh(ctx context.Context, boardID string) error {
	if err := s.LoadColumns(ctx, boardID); err != nil {
		return err
	}
	return s.LoadTasks(ctx, boardID)
}

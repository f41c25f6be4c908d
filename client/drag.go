package client

import (
	"context"
	"slices"
)

// DragKind discriminates what a drag handle is attached to.
type DragKind string

const (
	DragColumn DragKind = "column"
	DragTask   DragKind = "task"
)

// DragItem identifies one draggable element on the board.
type DragItem struct {
	Kind DragKind
	ID   string
}

// DragResult is the outcome of resolving a drop: the reordered local slices
// and the patches that must be persisted. Patches is empty for pure local
// rearrangements, such as column reordering, which is cosmetic and reset by
// the next reload.
type DragResult struct {
	Columns []Column
	Tasks   []Task
	Patches []TaskPatch
}

// ResolveDrag computes the state after dropping active onto over.
//
// Dropping a task on a task moves it into the target's column at the target's
// position. Dropping a task on a column appends it to that column; the server
// assigns the position. Dropping a column on a column reorders the column
// list locally only. Dropping an element on itself, or with no target,
// changes nothing.
func ResolveDrag(columns []Column, tasks []Task, active, over DragItem) DragResult {
	unchanged := DragResult{Columns: columns, Tasks: tasks}

	if over.ID == "" || (active.Kind == over.Kind && active.ID == over.ID) {
		return unchanged
	}

	switch {
	case active.Kind == DragColumn && over.Kind == DragColumn:
		from := slices.IndexFunc(columns, func(c Column) bool { return c.ID == active.ID })
		to := slices.IndexFunc(columns, func(c Column) bool { return c.ID == over.ID })
		if from < 0 || to < 0 {
			return unchanged
		}
		return DragResult{Columns: arrayMove(columns, from, to), Tasks: tasks}

	case active.Kind == DragTask && over.Kind == DragTask:
		from := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == active.ID })
		to := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == over.ID })
		if from < 0 || to < 0 {
			return unchanged
		}

		moved := slices.Clone(tasks)
		target := moved[to].ColumnID
		moved[from].ColumnID = target
		moved[from].Status = target
		moved = arrayMove(moved, from, to)

		status := target
		order := to
		return DragResult{
			Columns: columns,
			Tasks:   moved,
			Patches: []TaskPatch{{
				ID:       active.ID,
				Status:   &status,
				ColumnID: &target,
				Order:    &order,
			}},
		}

	case active.Kind == DragTask && over.Kind == DragColumn:
		from := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == active.ID })
		if from < 0 {
			return unchanged
		}
		if tasks[from].ColumnID == over.ID {
			return unchanged
		}

		moved := slices.Clone(tasks)
		moved[from].ColumnID = over.ID
		moved[from].Status = over.ID

		status := over.ID
		target := over.ID
		return DragResult{
			Columns: columns,
			Tasks:   moved,
			Patches: []TaskPatch{{
				ID:       active.ID,
				Status:   &status,
				ColumnID: &target,
			}},
		}
	}

	return unchanged
}

// ApplyDrag resolves a drop against the current store state, installs the
// local rearrangement, and persists any resulting patches. A persistence
// failure leaves the optimistic local state in place; the next refresh
// reconciles it.
func (s *Store) ApplyDrag(ctx context.Context, active, over DragItem) error {
	s.mu.Lock()
	res := ResolveDrag(s.columns, s.tasks, active, over)
	s.columns = res.Columns
	s.tasks = res.Tasks
	s.mu.Unlock()

	if len(res.Patches) == 0 {
		return nil
	}
	return s.BulkUpdateTasks(ctx, res.Patches)
}

// arrayMove returns a copy of s with the element at from moved to index to.
func arrayMove[T any](s []T, from, to int) []T {
	out := slices.Clone(s)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arenahq/arena/internal/domain"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// Create inserts the task at the end of its column. The per-column order
// value is assigned in SQL and written back to t.Order.
func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, title, description, status, column_id, board_id, owner_id, created_by, assigned_to, ord, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
		         (SELECT COALESCE(MAX(ord) + 1, 0) FROM tasks WHERE board_id = $6 AND column_id = $5),
		         $10, $11)
		 RETURNING ord`,
		t.ID, t.Title, t.Description, t.Status, t.ColumnID, t.BoardID,
		t.OwnerID, t.CreatedByID, t.AssignedToID, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.Order)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	return nil
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.status, t.column_id, t.board_id,
	       t.owner_id, t.created_by, t.assigned_to, t.ord, t.created_at, t.updated_at,
	       c.name, c.email, a.name, a.email
	FROM tasks t
	JOIN users c ON c.id = t.created_by
	LEFT JOIN users a ON a.id = t.assigned_to`

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		taskSelect+` WHERE t.board_id = $1 ORDER BY t.column_id, t.ord, t.created_at LIMIT 1000`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.ListByBoard")
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $1, description = $2, status = $3, column_id = $4,
		        assigned_to = $5, ord = $6, updated_at = now()
		 WHERE id = $7`,
		t.Title, t.Description, t.Status, t.ColumnID, t.AssignedToID, t.Order, t.ID,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// BulkUpdate applies all patches in one transaction and returns the updated
// tasks with creator/assignee refs resolved. Patches whose task no longer
// exists are skipped, matching the at-most-once semantics of drag
// persistence: the next full reload corrects any divergence.
func (r *TaskRepo) BulkUpdate(ctx context.Context, patches []domain.TaskPatch) ([]*domain.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.BulkUpdate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated := make([]uuid.UUID, 0, len(patches))
	for _, p := range patches {
		tag, execErr := tx.Exec(ctx,
			`UPDATE tasks SET status = COALESCE($1, status),
			        column_id = COALESCE($2, column_id),
			        ord = COALESCE($3, ord),
			        updated_at = now()
			 WHERE id = $4`,
			p.Status, p.ColumnID, p.Order, p.ID,
		)
		if execErr != nil {
			return nil, fmt.Errorf("taskRepo.BulkUpdate: %w", execErr)
		}
		if tag.RowsAffected() > 0 {
			updated = append(updated, p.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("taskRepo.BulkUpdate: commit: %w", err)
	}

	if len(updated) == 0 {
		return []*domain.Task{}, nil
	}

	rows, err := r.pool.Query(ctx, taskSelect+` WHERE t.id = ANY($1)`, updated)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.BulkUpdate: reload: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.BulkUpdate")
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                          domain.Task
		createdByName, createdByEm string
		assigneeName, assigneeEm   *string
	)

	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.ColumnID, &t.BoardID,
		&t.OwnerID, &t.CreatedByID, &t.AssignedToID, &t.Order, &t.CreatedAt, &t.UpdatedAt,
		&createdByName, &createdByEm, &assigneeName, &assigneeEm,
	); err != nil {
		return nil, err
	}

	t.CreatedBy = &domain.UserRef{ID: t.CreatedByID, Name: createdByName, Email: createdByEm}
	if t.AssignedToID != nil && assigneeName != nil {
		t.AssignedTo = &domain.UserRef{ID: *t.AssignedToID, Name: *assigneeName}
		if assigneeEm != nil {
			t.AssignedTo.Email = *assigneeEm
		}
	}

	return &t, nil
}

func scanTasks(rows pgx.Rows, caller string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return tasks, nil
}

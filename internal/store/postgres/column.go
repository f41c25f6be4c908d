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

type ColumnRepo struct {
	pool *pgxpool.Pool
}

func NewColumnRepo(pool *pgxpool.Pool) *ColumnRepo {
	return &ColumnRepo{pool: pool}
}

// Create inserts the column at the end of the board's lane order. The dense
// zero-based order value is assigned in SQL and written back to c.Order.
func (r *ColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO columns (id, board_id, title, color, ord, created_at, updated_at)
		 VALUES ($1, $2, $3, $4,
		         (SELECT COALESCE(MAX(ord) + 1, 0) FROM columns WHERE board_id = $2),
		         $5, $6)
		 RETURNING ord`,
		c.ID, c.BoardID, c.Title, c.Color, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.Order)
	if err != nil {
		return fmt.Errorf("columnRepo.Create: %w", err)
	}

	return nil
}

func (r *ColumnRepo) GetByID(ctx context.Context, boardID uuid.UUID, id string) (*domain.Column, error) {
	var c domain.Column

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, title, color, ord, created_at, updated_at
		 FROM columns WHERE board_id = $1 AND id = $2`,
		boardID, id,
	).Scan(&c.ID, &c.BoardID, &c.Title, &c.Color, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ColumnRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, title, color, ord, created_at, updated_at
		 FROM columns WHERE board_id = $1 ORDER BY ord`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("columnRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var columns []*domain.Column
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.Color, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("columnRepo.ListByBoard: scan: %w", err)
		}
		columns = append(columns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("columnRepo.ListByBoard: rows: %w", err)
	}

	return columns, nil
}

func (r *ColumnRepo) Update(ctx context.Context, c *domain.Column) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE columns SET title = $1, color = $2, updated_at = now()
		 WHERE board_id = $3 AND id = $4`,
		c.Title, c.Color, c.BoardID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("columnRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columnRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the column and every task in it in one transaction, so
// clients never observe orphaned tasks pointing at a missing column.
func (r *ColumnRepo) Delete(ctx context.Context, boardID uuid.UUID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("columnRepo.Delete: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE board_id = $1 AND column_id = $2`,
		boardID, id,
	); err != nil {
		return fmt.Errorf("columnRepo.Delete: tasks: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM columns WHERE board_id = $1 AND id = $2`,
		boardID, id,
	)
	if err != nil {
		return fmt.Errorf("columnRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columnRepo.Delete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("columnRepo.Delete: commit: %w", err)
	}

	return nil
}

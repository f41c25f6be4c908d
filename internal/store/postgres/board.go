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

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

func (r *BoardRepo) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boards (id, title, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Title, b.OwnerID, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Create: %w", err)
	}

	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board

	err := r.pool.QueryRow(ctx,
		`SELECT id, title, owner_id, created_at, updated_at FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", err)
	}

	return &b, nil
}

func (r *BoardRepo) List(ctx context.Context) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, owner_id, created_at, updated_at FROM boards ORDER BY created_at LIMIT 1000`,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.List: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows, "boardRepo.List")
}

func (r *BoardRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, owner_id, created_at, updated_at
		 FROM boards WHERE owner_id = $1 ORDER BY created_at LIMIT 1000`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows, "boardRepo.ListByOwner")
}

func (r *BoardRepo) Update(ctx context.Context, b *domain.Board) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE boards SET title = $1, updated_at = now() WHERE id = $2`,
		b.Title, b.ID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanBoards(rows pgx.Rows, caller string) ([]*domain.Board, error) {
	var boards []*domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		boards = append(boards, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return boards, nil
}

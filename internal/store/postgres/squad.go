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

type SquadRepo struct {
	pool *pgxpool.Pool
}

func NewSquadRepo(pool *pgxpool.Pool) *SquadRepo {
	return &SquadRepo{pool: pool}
}

func (r *SquadRepo) Create(ctx context.Context, s *domain.Squad) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO squads (id, name, game, image_url, leader_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Game, s.ImageURL, s.LeaderID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("squadRepo.Create: %w", err)
	}

	return nil
}

func (r *SquadRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Squad, error) {
	var s domain.Squad

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, game, image_url, leader_id, created_at, updated_at
		 FROM squads WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Game, &s.ImageURL, &s.LeaderID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("squadRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("squadRepo.GetByID: %w", err)
	}

	return &s, nil
}

func (r *SquadRepo) Update(ctx context.Context, s *domain.Squad) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE squads SET name = $1, game = $2, image_url = $3, leader_id = $4, updated_at = now()
		 WHERE id = $5`,
		s.Name, s.Game, s.ImageURL, s.LeaderID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("squadRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("squadRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SquadRepo) List(ctx context.Context) ([]*domain.Squad, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, game, image_url, leader_id, created_at, updated_at
		 FROM squads ORDER BY name LIMIT 1000`,
	)
	if err != nil {
		return nil, fmt.Errorf("squadRepo.List: %w", err)
	}
	defer rows.Close()

	return scanSquads(rows, "squadRepo.List")
}

func (r *SquadRepo) ListByLeader(ctx context.Context, leaderID uuid.UUID) ([]*domain.Squad, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, game, image_url, leader_id, created_at, updated_at
		 FROM squads WHERE leader_id = $1 ORDER BY name LIMIT 1000`,
		leaderID,
	)
	if err != nil {
		return nil, fmt.Errorf("squadRepo.ListByLeader: %w", err)
	}
	defer rows.Close()

	return scanSquads(rows, "squadRepo.ListByLeader")
}

func (r *SquadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM squads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("squadRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("squadRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SquadRepo) AddMember(ctx context.Context, squadID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO squad_members (squad_id, user_id, joined_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (squad_id, user_id) DO NOTHING`,
		squadID, userID,
	)
	if err != nil {
		return fmt.Errorf("squadRepo.AddMember: %w", err)
	}

	return nil
}

func (r *SquadRepo) RemoveMember(ctx context.Context, squadID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM squad_members WHERE squad_id = $1 AND user_id = $2`,
		squadID, userID,
	)
	if err != nil {
		return fmt.Errorf("squadRepo.RemoveMember: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("squadRepo.RemoveMember: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SquadRepo) ListMembers(ctx context.Context, squadID uuid.UUID) ([]*domain.UserRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email
		 FROM squad_members m JOIN users u ON u.id = m.user_id
		 WHERE m.squad_id = $1 ORDER BY u.name`,
		squadID,
	)
	if err != nil {
		return nil, fmt.Errorf("squadRepo.ListMembers: %w", err)
	}
	defer rows.Close()

	var members []*domain.UserRef
	for rows.Next() {
		var m domain.UserRef
		if err := rows.Scan(&m.ID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("squadRepo.ListMembers: scan: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("squadRepo.ListMembers: rows: %w", err)
	}

	return members, nil
}

func scanSquads(rows pgx.Rows, caller string) ([]*domain.Squad, error) {
	var squads []*domain.Squad
	for rows.Next() {
		var s domain.Squad
		if err := rows.Scan(&s.ID, &s.Name, &s.Game, &s.ImageURL, &s.LeaderID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		squads = append(squads, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return squads, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arenahq/arena/internal/domain"
)

type Store struct {
	pool    *pgxpool.Pool
	users   *UserRepo
	squads  *SquadRepo
	boards  *BoardRepo
	columns *ColumnRepo
	tasks   *TaskRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:    pool,
		users:   NewUserRepo(pool),
		squads:  NewSquadRepo(pool),
		boards:  NewBoardRepo(pool),
		columns: NewColumnRepo(pool),
		tasks:   NewTaskRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository     { return s.users }
func (s *Store) Squads() domain.SquadRepository   { return s.squads }
func (s *Store) Boards() domain.BoardRepository   { return s.boards }
func (s *Store) Columns() domain.ColumnRepository { return s.columns }
func (s *Store) Tasks() domain.TaskRepository     { return s.tasks }

package v1

import (
	"context"

	"github.com/arenahq/arena/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Squads() domain.SquadRepository
	Boards() domain.BoardRepository
	Columns() domain.ColumnRepository
	Tasks() domain.TaskRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

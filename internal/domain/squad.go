package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Squad struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Game      string    `json:"game,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	LeaderID  uuid.UUID `json:"leaderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SquadMember struct {
	SquadID  uuid.UUID `json:"squadId"`
	UserID   uuid.UUID `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

type SquadRepository interface {
	Create(ctx context.Context, s *Squad) error
	GetByID(ctx context.Context, id uuid.UUID) (*Squad, error)
	Update(ctx context.Context, s *Squad) error
	List(ctx context.Context) ([]*Squad, error)
	ListByLeader(ctx context.Context, leaderID uuid.UUID) ([]*Squad, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, squadID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, squadID, userID uuid.UUID) error
	ListMembers(ctx context.Context, squadID uuid.UUID) ([]*UserRef, error)
}

package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/arenahq/arena/internal/domain"
	"github.com/arenahq/arena/internal/server/middleware"
)

type ListSquadsOutput struct {
	Body []*domain.Squad
}

type CreateSquadInput struct {
	Body struct {
		Name     string    `json:"name" minLength:"1" maxLength:"200" doc:"Squad name"`
		Game     string    `json:"game,omitempty" maxLength:"100" doc:"Game title"`
		LeaderID uuid.UUID `json:"leaderId" doc:"Squad leader user ID"`
	}
}

type CreateSquadOutput struct {
	Body *domain.Squad
}

type SquadMembersInput struct {
	ID uuid.UUID `path:"id" doc:"Squad ID"`
}

type SquadMembersOutput struct {
	Body []*domain.UserRef
}

type AddSquadMemberInput struct {
	ID   uuid.UUID `path:"id" doc:"Squad ID"`
	Body struct {
		UserID uuid.UUID `json:"userId" doc:"User to add"`
	}
}

type RemoveSquadMemberInput struct {
	ID     uuid.UUID `path:"id" doc:"Squad ID"`
	UserID uuid.UUID `path:"userId" doc:"User to remove"`
}

// canManageSquad reports whether the caller may change squad membership:
// admins always, leaders only for squads they lead.
func canManageSquad(ctx context.Context, squad *domain.Squad) bool {
	role, _ := middleware.RoleFromContext(ctx)
	if role == domain.RoleAdmin {
		return true
	}
	userID, ok := middleware.UserIDFromContext(ctx)
	return ok && role == domain.RoleLeader && squad.LeaderID == userID
}

func RegisterSquadRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-squads",
		Method:      http.MethodGet,
		Path:        "/squads",
		Summary:     "List squads visible to the caller",
		Tags:        []string{"Squads"},
	}, func(ctx context.Context, _ *struct{}) (*ListSquadsOutput, error) {
		role, _ := middleware.RoleFromContext(ctx)

		if role == domain.RoleLeader {
			userID, ok := middleware.UserIDFromContext(ctx)
			if !ok {
				return nil, huma.Error401Unauthorized("missing user context")
			}
			squads, err := store.Squads().ListByLeader(ctx, userID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list squads", err)
			}
			return &ListSquadsOutput{Body: squads}, nil
		}

		squads, err := store.Squads().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list squads", err)
		}

		return &ListSquadsOutput{Body: squads}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-squad",
		Method:      http.MethodPost,
		Path:        "/squads",
		Summary:     "Create a new squad",
		Tags:        []string{"Squads"},
	}, func(ctx context.Context, input *CreateSquadInput) (*CreateSquadOutput, error) {
		role, _ := middleware.RoleFromContext(ctx)
		if role != domain.RoleAdmin {
			return nil, huma.Error403Forbidden("only admins can create squads")
		}

		if _, err := store.Users().GetByID(ctx, input.Body.LeaderID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("leader not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate leader", err)
		}

		now := time.Now()
		s := &domain.Squad{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			Game:      input.Body.Game,
			LeaderID:  input.Body.LeaderID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Squads().Create(ctx, s); err != nil {
			return nil, huma.Error500InternalServerError("failed to create squad", err)
		}

		return &CreateSquadOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-squad-members",
		Method:      http.MethodGet,
		Path:        "/squads/{id}/members",
		Summary:     "List squad members",
		Tags:        []string{"Squads"},
	}, func(ctx context.Context, input *SquadMembersInput) (*SquadMembersOutput, error) {
		members, err := store.Squads().ListMembers(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		return &SquadMembersOutput{Body: members}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-squad-member",
		Method:      http.MethodPost,
		Path:        "/squads/{id}/members",
		Summary:     "Add a member to a squad",
		Tags:        []string{"Squads"},
	}, func(ctx context.Context, input *AddSquadMemberInput) (*struct{}, error) {
		squad, err := store.Squads().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("squad not found")
			}
			return nil, huma.Error500InternalServerError("failed to get squad", err)
		}

		if !canManageSquad(ctx, squad) {
			return nil, huma.Error403Forbidden("insufficient permissions")
		}

		if err := store.Squads().AddMember(ctx, input.ID, input.Body.UserID); err != nil {
			return nil, huma.Error500InternalServerError("failed to add member", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-squad-member",
		Method:      http.MethodDelete,
		Path:        "/squads/{id}/members/{userId}",
		Summary:     "Remove a member from a squad",
		Tags:        []string{"Squads"},
	}, func(ctx context.Context, input *RemoveSquadMemberInput) (*struct{}, error) {
		squad, err := store.Squads().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("squad not found")
			}
			return nil, huma.Error500InternalServerError("failed to get squad", err)
		}

		if !canManageSquad(ctx, squad) {
			return nil, huma.Error403Forbidden("insufficient permissions")
		}

		if err := store.Squads().RemoveMember(ctx, input.ID, input.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("member not found")
			}
			return nil, huma.Error500InternalServerError("failed to remove member", err)
		}

		return nil, nil
	})
}

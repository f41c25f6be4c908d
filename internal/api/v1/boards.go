package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/arenahq/arena/internal/domain"
	"github.com/arenahq/arena/internal/realtime"
	"github.com/arenahq/arena/internal/server/middleware"
)

type ListBoardsOutput struct {
	Body []*domain.Board
}

type CreateBoardInput struct {
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"200" doc:"Board title"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type UpdateBoardInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"200" doc:"Board title"`
	}
}

type UpdateBoardOutput struct {
	Body *domain.Board
}

func RegisterBoardRoutes(api huma.API, store DataStore, events realtime.Broadcaster) {
	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards visible to the caller",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		// Admins see every board; everyone else sees their own.
		role, _ := middleware.RoleFromContext(ctx)
		var (
			boards []*domain.Board
			err    error
		)
		if role == domain.RoleAdmin {
			boards, err = store.Boards().List(ctx)
		} else {
			boards, err = store.Boards().ListByOwner(ctx, userID)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a new board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		now := time.Now()
		b := &domain.Board{
			ID:        uuid.New(),
			Title:     input.Body.Title,
			OwnerID:   userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Boards().Create(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}

		events.Broadcast(realtime.Event{
			Type:   realtime.EventBoardUpdated,
			Data:   b,
			UserID: userID,
		}, userID)

		return &CreateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPut,
		Path:        "/boards/{id}",
		Summary:     "Rename a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*UpdateBoardOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		b, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}

		b.Title = input.Body.Title
		b.UpdatedAt = time.Now()

		if err := store.Boards().Update(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to update board", err)
		}

		events.Broadcast(realtime.Event{
			Type:   realtime.EventBoardUpdated,
			Data:   b,
			UserID: userID,
		}, userID)

		return &UpdateBoardOutput{Body: b}, nil
	})
}

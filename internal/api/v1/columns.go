package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/arenahq/arena/internal/domain"
	"github.com/arenahq/arena/internal/realtime"
	"github.com/arenahq/arena/internal/server/middleware"
)

type ListColumnsInput struct {
	BoardID uuid.UUID `query:"boardId" required:"true" doc:"Board ID"`
}

type ListColumnsOutput struct {
	Body []*domain.Column
}

type CreateColumnInput struct {
	Body struct {
		ID      string    `json:"id,omitempty" maxLength:"100" doc:"Column identifier; derived from the title when empty"`
		Title   string    `json:"title" minLength:"1" maxLength:"200" doc:"Column title"`
		Color   string    `json:"color,omitempty" maxLength:"32" doc:"Display color"`
		BoardID uuid.UUID `json:"boardId" doc:"Board ID"`
	}
}

type CreateColumnOutput struct {
	Body *domain.Column
}

type UpdateColumnInput struct {
	ID   string `path:"id" doc:"Column identifier"`
	Body struct {
		BoardID uuid.UUID `json:"boardId" doc:"Board ID"`
		Title   string    `json:"title,omitempty" maxLength:"200" doc:"Column title"`
		Color   string    `json:"color,omitempty" maxLength:"32" doc:"Display color"`
	}
}

type UpdateColumnOutput struct {
	Body *domain.Column
}

type DeleteColumnInput struct {
	ID      string    `path:"id" doc:"Column identifier"`
	BoardID uuid.UUID `query:"boardId" required:"true" doc:"Board ID"`
}

// ColumnIDFromTitle derives a column identifier from its title: uppercased,
// whitespace runs joined with underscores. The first column of a board is
// always forced to the fixed default identifier instead, so a landing column
// for new tasks is guaranteed to exist.
func ColumnIDFromTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToUpper(title)), "_")
}

func RegisterColumnRoutes(api huma.API, store DataStore, events realtime.Broadcaster) {
	huma.Register(api, huma.Operation{
		OperationID: "list-columns",
		Method:      http.MethodGet,
		Path:        "/columns",
		Summary:     "List columns for a board",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *ListColumnsInput) (*ListColumnsOutput, error) {
		columns, err := store.Columns().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list columns", err)
		}

		return &ListColumnsOutput{Body: columns}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-column",
		Method:      http.MethodPost,
		Path:        "/columns",
		Summary:     "Create a new column",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *CreateColumnInput) (*CreateColumnOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		if _, err := store.Boards().GetByID(ctx, input.Body.BoardID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate board", err)
		}

		id := input.Body.ID
		if id == "" {
			existing, err := store.Columns().ListByBoard(ctx, input.Body.BoardID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list columns", err)
			}
			if len(existing) == 0 {
				id = domain.DefaultColumnID
			} else {
				id = ColumnIDFromTitle(input.Body.Title)
			}
		}

		now := time.Now()
		c := &domain.Column{
			ID:        id,
			Title:     input.Body.Title,
			Color:     input.Body.Color,
			BoardID:   input.Body.BoardID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Columns().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create column", err)
		}

		events.Broadcast(realtime.Event{
			Type:    realtime.EventColumnCreated,
			Data:    c,
			BoardID: c.BoardID,
			UserID:  userID,
		}, userID)

		return &CreateColumnOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-column",
		Method:      http.MethodPut,
		Path:        "/columns/{id}",
		Summary:     "Rename or recolor a column",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *UpdateColumnInput) (*UpdateColumnOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		c, err := store.Columns().GetByID(ctx, input.Body.BoardID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to get column", err)
		}

		if input.Body.Title != "" {
			c.Title = input.Body.Title
		}
		if input.Body.Color != "" {
			c.Color = input.Body.Color
		}
		c.UpdatedAt = time.Now()

		if err := store.Columns().Update(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to update column", err)
		}

		events.Broadcast(realtime.Event{
			Type:    realtime.EventColumnUpdated,
			Data:    c,
			BoardID: c.BoardID,
			UserID:  userID,
		}, userID)

		return &UpdateColumnOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-column",
		Method:      http.MethodDelete,
		Path:        "/columns/{id}",
		Summary:     "Delete a column and its tasks",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *DeleteColumnInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		if err := store.Columns().Delete(ctx, input.BoardID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete column", err)
		}

		events.Broadcast(realtime.Event{
			Type:    realtime.EventColumnDeleted,
			Data:    map[string]string{"id": input.ID},
			BoardID: input.BoardID,
			UserID:  userID,
		}, userID)

		return nil, nil
	})
}

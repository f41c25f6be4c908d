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

type ListTasksInput struct {
	BoardID uuid.UUID `query:"boardId" required:"true" doc:"Board ID"`
}

type ListTasksOutput struct {
	Body []*domain.Task
}

type CreateTaskInput struct {
	Body struct {
		Title        string     `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Description  string     `json:"description,omitempty" doc:"Task description"`
		Status       string     `json:"status" minLength:"1" doc:"Landing column identifier"`
		ColumnID     string     `json:"columnId" minLength:"1" doc:"Landing column identifier"`
		BoardID      uuid.UUID  `json:"boardId" doc:"Board ID"`
		AssignedToID *uuid.UUID `json:"assignedToId,omitempty" doc:"Optional assignee"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type UpdateTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Title        string     `json:"title,omitempty" maxLength:"500" doc:"Task title"`
		Description  *string    `json:"description,omitempty" doc:"Task description"`
		Status       string     `json:"status,omitempty" doc:"Column identifier"`
		ColumnID     string     `json:"columnId,omitempty" doc:"Column identifier"`
		AssignedToID *uuid.UUID `json:"assignedToId,omitempty" doc:"Assignee"`
		Order        *int       `json:"order,omitempty" doc:"Position within the column"`
	}
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type DeleteTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type BulkUpdateTasksInput struct {
	Body struct {
		Tasks []domain.TaskPatch `json:"tasks" minItems:"1" doc:"Batch of drag-and-drop position updates"`
	}
}

type BulkUpdateTasksOutput struct {
	Body []*domain.Task
}

func RegisterTaskRoutes(api huma.API, store DataStore, events realtime.Broadcaster) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks for a board",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		tasks, err := store.Tasks().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}

		return &ListTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a new task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		board, err := store.Boards().GetByID(ctx, input.Body.BoardID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate board", err)
		}

		if _, err := store.Columns().GetByID(ctx, board.ID, input.Body.ColumnID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate column", err)
		}

		now := time.Now()
		t := &domain.Task{
			ID:           uuid.New(),
			Title:        input.Body.Title,
			Description:  input.Body.Description,
			Status:       input.Body.ColumnID,
			ColumnID:     input.Body.ColumnID,
			BoardID:      board.ID,
			OwnerID:      board.OwnerID,
			CreatedByID:  userID,
			AssignedToID: input.Body.AssignedToID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Tasks().Create(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to create task", err)
		}

		// Reload to resolve creator/assignee refs for the response and
		// broadcast payload.
		created, err := store.Tasks().GetByID(ctx, t.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load created task", err)
		}

		events.Broadcast(realtime.Event{
			Type:    realtime.EventTaskCreated,
			Data:    created,
			BoardID: created.BoardID,
			UserID:  userID,
		}, userID)

		return &CreateTaskOutput{Body: created}, nil
	})

	// Registered before the /tasks/{id} routes: order-sensitive routers
	// would otherwise match "bulk" as an {id}.
	huma.Register(api, huma.Operation{
		OperationID: "bulk-update-tasks",
		Method:      http.MethodPut,
		Path:        "/tasks/bulk",
		Summary:     "Apply a batch of drag-and-drop position updates",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *BulkUpdateTasksInput) (*BulkUpdateTasksOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		tasks, err := store.Tasks().BulkUpdate(ctx, input.Body.Tasks)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to bulk update tasks", err)
		}

		if len(tasks) > 0 {
			events.Broadcast(realtime.Event{
				Type:    realtime.EventTaskUpdated,
				Data:    map[string]any{"tasks": tasks},
				BoardID: tasks[0].BoardID,
				UserID:  userID,
			}, userID)
		}

		return &BulkUpdateTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		existing, err := store.Tasks().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Description != nil {
			existing.Description = *input.Body.Description
		}
		if input.Body.ColumnID != "" {
			existing.ColumnID = input.Body.ColumnID
			existing.Status = input.Body.ColumnID
		} else if input.Body.Status != "" {
			existing.ColumnID = input.Body.Status
			existing.Status = input.Body.Status
		}
		if input.Body.AssignedToID != nil {
			existing.AssignedToID = input.Body.AssignedToID
		}
		if input.Body.Order != nil {
			existing.Order = *input.Body.Order
		}
		existing.UpdatedAt = time.Now()

		if err := store.Tasks().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update task", err)
		}

		updated, err := store.Tasks().GetByID(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load updated task", err)
		}

		events.Broadcast(realtime.Event{
			Type:    realtime.EventTaskUpdated,
			Data:    updated,
			BoardID: updated.BoardID,
			UserID:  userID,
		}, userID)

		return &UpdateTaskOutput{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing user context")
		}

		existing, err := store.Tasks().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if err := store.Tasks().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete task", err)
		}

		events.Broadcast(realtime.Event{
			Type:    realtime.EventTaskDeleted,
			Data:    map[string]string{"id": input.ID.String()},
			BoardID: existing.BoardID,
			UserID:  userID,
		}, userID)

		return nil, nil
	})

}

package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/arenahq/arena/internal/domain"
)

type UpdateUserRoleInput struct {
	ID   uuid.UUID `path:"id" doc:"User ID"`
	Body struct {
		Role string `json:"role" enum:"admin,leader,member" doc:"New role"`
	}
}

type UpdateUserRoleOutput struct {
	Body *domain.User
}

type DeleteUserInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

// RegisterAdminRoutes exposes user administration. The router mounts these
// behind the admin-only middleware, so handlers do not re-check the role.
func RegisterAdminRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "update-user-role",
		Method:      http.MethodPut,
		Path:        "/users/{id}/role",
		Summary:     "Change a user's role",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpdateUserRoleInput) (*UpdateUserRoleOutput, error) {
		u, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		u.Role = input.Body.Role
		u.UpdatedAt = time.Now()

		if err := store.Users().Update(ctx, u); err != nil {
			return nil, huma.Error500InternalServerError("failed to update user", err)
		}

		return &UpdateUserRoleOutput{Body: u}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Delete a user account",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *DeleteUserInput) (*struct{}, error) {
		if err := store.Users().Delete(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete user", err)
		}

		return nil, nil
	})
}

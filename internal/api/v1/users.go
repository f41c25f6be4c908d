package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/arenahq/arena/internal/domain"
)

type ListUsersOutput struct {
	Body []*domain.User
}

// RegisterUserRoutes exposes the assignable-user list consumed by task
// assignment dialogs and the client store's LoadUsers.
func RegisterUserRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List assignable users",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		users, err := store.Users().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		return &ListUsersOutput{Body: users}, nil
	})
}

package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/arenahq/arena/internal/api/v1"
	"github.com/arenahq/arena/internal/auth"
	"github.com/arenahq/arena/internal/domain"
)

// ---------------------------------------------------------------------------
// TestRegister
// ---------------------------------------------------------------------------

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, email, _, name string) (*domain.User, error) {
				assert.Equal(t, "jess@example.com", email)
				assert.Equal(t, "Jess", name)
				return &domain.User{ID: uuid.New(), Email: email, Name: name, Role: domain.RoleMember}, nil
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/register", map[string]any{
			"email":    "jess@example.com",
			"password": "hunter2hunter2",
			"name":     "Jess",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, domain.RoleMember, body.Role, "new accounts start as members")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, _, _, _ string) (*domain.User, error) {
				return nil, auth.ErrUserAlreadyExists
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/register", map[string]any{
			"email":    "jess@example.com",
			"password": "hunter2hunter2",
			"name":     "Jess",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestLogin
// ---------------------------------------------------------------------------

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, email, password string) (string, string, error) {
				assert.Equal(t, "jess@example.com", email)
				assert.Equal(t, "hunter2hunter2", password)
				return "access-token", "refresh-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "jess@example.com",
			"password": "hunter2hunter2",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "access-token", body.AccessToken)
		assert.Equal(t, "refresh-token", body.RefreshToken)
	})

	t.Run("invalid_credentials", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (string, string, error) {
				return "", "", auth.ErrInvalidCredentials
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "jess@example.com",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestRefreshToken
// ---------------------------------------------------------------------------

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			refreshTokenFunc: func(_ context.Context, refreshToken string) (string, error) {
				assert.Equal(t, "refresh-token", refreshToken)
				return "new-access-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refreshToken": "refresh-token",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "new-access-token", body.AccessToken)
	})

	t.Run("invalid_token", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			refreshTokenFunc: func(_ context.Context, _ string) (string, error) {
				return "", auth.ErrInvalidToken
			},
		}
		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refreshToken": "garbage",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

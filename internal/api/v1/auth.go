package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/arenahq/arena/internal/auth"
	"github.com/arenahq/arena/internal/domain"
)

type RegisterInput struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Password"`
		Name     string `json:"name" minLength:"1" maxLength:"200" doc:"Display name"`
	}
}

type RegisterOutput struct {
	Body *domain.User
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"User email"`
		Password string `json:"password" minLength:"1" doc:"Password"`
	}
}

type LoginOutput struct {
	Body struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refreshToken" minLength:"1" doc:"Refresh token"`
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"accessToken"`
	}
}

func RegisterAuthRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		user, err := authSvc.Register(ctx, input.Body.Email, input.Body.Password, input.Body.Name)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}

		return &RegisterOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		access, refresh, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid credentials")
			}
			return nil, huma.Error500InternalServerError("failed to log in", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = access
		out.Body.RefreshToken = refresh
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Exchange a refresh token for a new access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		access, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = access
		return out, nil
	})
}

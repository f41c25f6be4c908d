package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arenahq/arena/internal/domain"
	"github.com/arenahq/arena/internal/server/middleware"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/squads", nil)
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserRole, role)
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	t.Run("allowed_role_passes", func(t *testing.T) {
		t.Parallel()

		next := &contextHandler{}
		handler := middleware.RequireRole(domain.RoleAdmin, domain.RoleLeader)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithRole(domain.RoleLeader))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
	})

	t.Run("disallowed_role_forbidden", func(t *testing.T) {
		t.Parallel()

		next := &contextHandler{}
		handler := middleware.RequireRole(domain.RoleAdmin)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithRole(domain.RoleMember))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, next.called)
	})

	t.Run("missing_role_unauthorized", func(t *testing.T) {
		t.Parallel()

		next := &contextHandler{}
		handler := middleware.RequireRole(domain.RoleAdmin)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/squads", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, next.called)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	next := &contextHandler{}
	handler := middleware.RequireAdmin()(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(domain.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(domain.RoleLeader))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

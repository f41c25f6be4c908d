package v1_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/arenahq/arena/internal/api/v1"
	"github.com/arenahq/arena/internal/domain"
)

// ---------------------------------------------------------------------------
// TestCreateSquad
// ---------------------------------------------------------------------------

func TestCreateSquad(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	leaderID := uuid.New()

	t.Run("admin_creates_squad", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
					assert.Equal(t, leaderID, id)
					return &domain.User{ID: id, Role: domain.RoleLeader}, nil
				},
			},
			squads: &mockSquadRepo{
				createFunc: func(_ context.Context, s *domain.Squad) error {
					createCalled = true
					assert.Equal(t, "Valorant Red", s.Name)
					assert.Equal(t, leaderID, s.LeaderID)
					return nil
				},
			},
		}
		v1.RegisterSquadRoutes(api, store)

		resp := api.PostCtx(userCtx(adminID, domain.RoleAdmin), "/squads", map[string]any{
			"name":     "Valorant Red",
			"game":     "Valorant",
			"leaderId": leaderID.String(),
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, createCalled)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{users: &mockUserRepo{}, squads: &mockSquadRepo{}}
		v1.RegisterSquadRoutes(api, store)

		resp := api.PostCtx(userCtx(uuid.New(), domain.RoleLeader), "/squads", map[string]any{
			"name":     "Rogue squad",
			"leaderId": leaderID.String(),
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("unknown_leader", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
					return nil, domain.ErrNotFound
				},
			},
			squads: &mockSquadRepo{},
		}
		v1.RegisterSquadRoutes(api, store)

		resp := api.PostCtx(userCtx(adminID, domain.RoleAdmin), "/squads", map[string]any{
			"name":     "Headless",
			"leaderId": uuid.New().String(),
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestSquadMembership
// ---------------------------------------------------------------------------

func TestSquadMembership(t *testing.T) {
	t.Parallel()

	leaderID := uuid.New()
	squadID := uuid.New()
	memberID := uuid.New()

	squadRepo := func(addFunc func(ctx context.Context, squadID, userID uuid.UUID) error) *mockSquadRepo {
		return &mockSquadRepo{
			getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Squad, error) {
				return &domain.Squad{ID: id, LeaderID: leaderID}, nil
			},
			addMemberFunc: addFunc,
			removeMemberFunc: func(_ context.Context, _, _ uuid.UUID) error {
				return nil
			},
		}
	}

	t.Run("leader_adds_member_to_own_squad", func(t *testing.T) {
		t.Parallel()

		var addCalled bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			squads: squadRepo(func(_ context.Context, sid, uid uuid.UUID) error {
				addCalled = true
				assert.Equal(t, squadID, sid)
				assert.Equal(t, memberID, uid)
				return nil
			}),
		}
		v1.RegisterSquadRoutes(api, store)

		resp := api.PostCtx(userCtx(leaderID, domain.RoleLeader), "/squads/"+squadID.String()+"/members", map[string]any{
			"userId": memberID.String(),
		})

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, addCalled)
	})

	t.Run("other_leader_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{squads: squadRepo(nil)}
		v1.RegisterSquadRoutes(api, store)

		resp := api.PostCtx(userCtx(uuid.New(), domain.RoleLeader), "/squads/"+squadID.String()+"/members", map[string]any{
			"userId": memberID.String(),
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("member_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{squads: squadRepo(nil)}
		v1.RegisterSquadRoutes(api, store)

		resp := api.DeleteCtx(userCtx(memberID, domain.RoleMember), "/squads/"+squadID.String()+"/members/"+memberID.String())

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("admin_removes_member_anywhere", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{squads: squadRepo(nil)}
		v1.RegisterSquadRoutes(api, store)

		resp := api.DeleteCtx(userCtx(uuid.New(), domain.RoleAdmin), "/squads/"+squadID.String()+"/members/"+memberID.String())

		assert.Equal(t, http.StatusNoContent, resp.Code)
	})
}

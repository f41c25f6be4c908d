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
	"github.com/arenahq/arena/internal/domain"
	"github.com/arenahq/arena/internal/realtime"
)

// ---------------------------------------------------------------------------
// TestListBoards
// ---------------------------------------------------------------------------

func TestListBoards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("member_sees_own_boards", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				listByOwnerFunc: func(_ context.Context, ownerID uuid.UUID) ([]*domain.Board, error) {
					assert.Equal(t, userID, ownerID)
					return []*domain.Board{{ID: uuid.New(), Title: "Mine", OwnerID: ownerID}}, nil
				},
			},
		}
		v1.RegisterBoardRoutes(api, store, &mockBroadcaster{})

		resp := api.GetCtx(userCtx(userID, domain.RoleMember), "/boards")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Board
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "Mine", body[0].Title)
	})

	t.Run("admin_sees_all_boards", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				listFunc: func(_ context.Context) ([]*domain.Board, error) {
					return []*domain.Board{
						{ID: uuid.New(), Title: "Alpha"},
						{ID: uuid.New(), Title: "Bravo"},
					}, nil
				},
			},
		}
		v1.RegisterBoardRoutes(api, store, &mockBroadcaster{})

		resp := api.GetCtx(userCtx(userID, domain.RoleAdmin), "/boards")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Board
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body, 2)
	})

	t.Run("missing_user", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{boards: &mockBoardRepo{}}
		v1.RegisterBoardRoutes(api, store, &mockBroadcaster{})

		resp := api.GetCtx(context.Background(), "/boards")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestCreateBoard
// ---------------------------------------------------------------------------

func TestCreateBoard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		_, api := humatest.New(t)
		events := &mockBroadcaster{}
		store := &mockDataStore{
			boards: &mockBoardRepo{
				createFunc: func(_ context.Context, b *domain.Board) error {
					createCalled = true
					assert.Equal(t, "Season 12 roster", b.Title)
					assert.Equal(t, userID, b.OwnerID)
					assert.NotEqual(t, uuid.Nil, b.ID)
					return nil
				},
			},
		}
		v1.RegisterBoardRoutes(api, store, events)

		resp := api.PostCtx(userCtx(userID, domain.RoleLeader), "/boards", map[string]any{
			"title": "Season 12 roster",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, createCalled)

		sent := events.sent()
		require.Len(t, sent, 1)
		assert.Equal(t, realtime.EventBoardUpdated, sent[0].Type)
		assert.Equal(t, userID, events.excluded[0])
	})

	t.Run("store_failure_surfaces", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		events := &mockBroadcaster{}
		store := &mockDataStore{
			boards: &mockBoardRepo{
				createFunc: func(_ context.Context, _ *domain.Board) error {
					return assert.AnError
				},
			},
		}
		v1.RegisterBoardRoutes(api, store, events)

		resp := api.PostCtx(userCtx(userID, domain.RoleLeader), "/boards", map[string]any{
			"title": "Doomed",
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Empty(t, events.sent(), "no event for a failed create")
	})
}

// ---------------------------------------------------------------------------
// TestUpdateBoard
// ---------------------------------------------------------------------------

func TestUpdateBoard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	boardID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var updated *domain.Board
		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
					return &domain.Board{ID: id, Title: "Old name", OwnerID: userID}, nil
				},
				updateFunc: func(_ context.Context, b *domain.Board) error {
					updated = b
					return nil
				},
			},
		}
		v1.RegisterBoardRoutes(api, store, &mockBroadcaster{})

		resp := api.PutCtx(userCtx(userID, domain.RoleMember), "/boards/"+boardID.String(), map[string]any{
			"title": "New name",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, updated)
		assert.Equal(t, "New name", updated.Title)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Board, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterBoardRoutes(api, store, &mockBroadcaster{})

		resp := api.PutCtx(userCtx(userID, domain.RoleMember), "/boards/"+uuid.New().String(), map[string]any{
			"title": "Ghost",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

package v1_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/arenahq/arena/internal/domain"
	"github.com/arenahq/arena/internal/realtime"
	"github.com/arenahq/arena/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject user/role into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID, role string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users   domain.UserRepository
	squads  domain.SquadRepository
	boards  domain.BoardRepository
	columns domain.ColumnRepository
	tasks   domain.TaskRepository
}

func (m *mockDataStore) Users() domain.UserRepository     { return m.users }
func (m *mockDataStore) Squads() domain.SquadRepository   { return m.squads }
func (m *mockDataStore) Boards() domain.BoardRepository   { return m.boards }
func (m *mockDataStore) Columns() domain.ColumnRepository { return m.columns }
func (m *mockDataStore) Tasks() domain.TaskRepository     { return m.tasks }

// ---------------------------------------------------------------------------
// Mock Broadcaster — records every event it is asked to fan out
// ---------------------------------------------------------------------------

type mockBroadcaster struct {
	mu       sync.Mutex
	events   []realtime.Event
	excluded []uuid.UUID
}

func (m *mockBroadcaster) Broadcast(evt realtime.Event, excludeUserID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	m.excluded = append(m.excluded, excludeUserID)
}

func (m *mockBroadcaster) sent() []realtime.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]realtime.Event(nil), m.events...)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	listFunc       func(ctx context.Context) ([]*domain.User, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFunc(ctx)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock SquadRepository
// ---------------------------------------------------------------------------

type mockSquadRepo struct {
	createFunc       func(ctx context.Context, s *domain.Squad) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Squad, error)
	updateFunc       func(ctx context.Context, s *domain.Squad) error
	listFunc         func(ctx context.Context) ([]*domain.Squad, error)
	listByLeaderFunc func(ctx context.Context, leaderID uuid.UUID) ([]*domain.Squad, error)
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
	addMemberFunc    func(ctx context.Context, squadID, userID uuid.UUID) error
	removeMemberFunc func(ctx context.Context, squadID, userID uuid.UUID) error
	listMembersFunc  func(ctx context.Context, squadID uuid.UUID) ([]*domain.UserRef, error)
}

func (m *mockSquadRepo) Create(ctx context.Context, s *domain.Squad) error {
	return m.createFunc(ctx, s)
}

func (m *mockSquadRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Squad, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSquadRepo) Update(ctx context.Context, s *domain.Squad) error {
	return m.updateFunc(ctx, s)
}

func (m *mockSquadRepo) List(ctx context.Context) ([]*domain.Squad, error) {
	return m.listFunc(ctx)
}

func (m *mockSquadRepo) ListByLeader(ctx context.Context, leaderID uuid.UUID) ([]*domain.Squad, error) {
	return m.listByLeaderFunc(ctx, leaderID)
}

func (m *mockSquadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockSquadRepo) AddMember(ctx context.Context, squadID, userID uuid.UUID) error {
	return m.addMemberFunc(ctx, squadID, userID)
}

func (m *mockSquadRepo) RemoveMember(ctx context.Context, squadID, userID uuid.UUID) error {
	return m.removeMemberFunc(ctx, squadID, userID)
}

func (m *mockSquadRepo) ListMembers(ctx context.Context, squadID uuid.UUID) ([]*domain.UserRef, error) {
	return m.listMembersFunc(ctx, squadID)
}

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc      func(ctx context.Context, b *domain.Board) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	listFunc        func(ctx context.Context) ([]*domain.Board, error)
	listByOwnerFunc func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Board, error)
	updateFunc      func(ctx context.Context, b *domain.Board) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBoardRepo) List(ctx context.Context) ([]*domain.Board, error) {
	return m.listFunc(ctx)
}

func (m *mockBoardRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Board, error) {
	return m.listByOwnerFunc(ctx, ownerID)
}

func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ColumnRepository
// ---------------------------------------------------------------------------

type mockColumnRepo struct {
	createFunc      func(ctx context.Context, c *domain.Column) error
	getByIDFunc     func(ctx context.Context, boardID uuid.UUID, id string) (*domain.Column, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	updateFunc      func(ctx context.Context, c *domain.Column) error
	deleteFunc      func(ctx context.Context, boardID uuid.UUID, id string) error
}

func (m *mockColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	return m.createFunc(ctx, c)
}

func (m *mockColumnRepo) GetByID(ctx context.Context, boardID uuid.UUID, id string) (*domain.Column, error) {
	return m.getByIDFunc(ctx, boardID, id)
}

func (m *mockColumnRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockColumnRepo) Update(ctx context.Context, c *domain.Column) error {
	return m.updateFunc(ctx, c)
}

func (m *mockColumnRepo) Delete(ctx context.Context, boardID uuid.UUID, id string) error {
	return m.deleteFunc(ctx, boardID, id)
}

// ---------------------------------------------------------------------------
// Mock TaskRepository
// ---------------------------------------------------------------------------

type mockTaskRepo struct {
	createFunc      func(ctx context.Context, t *domain.Task) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	updateFunc      func(ctx context.Context, t *domain.Task) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
	bulkUpdateFunc  func(ctx context.Context, patches []domain.TaskPatch) ([]*domain.Task, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.createFunc(ctx, t)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTaskRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockTaskRepo) BulkUpdate(ctx context.Context, patches []domain.TaskPatch) ([]*domain.Task, error) {
	return m.bulkUpdateFunc(ctx, patches)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFunc        func(ctx context.Context, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

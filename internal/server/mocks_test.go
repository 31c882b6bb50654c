package server

import (
	"context"
	"io"
	"testing"
	"time"

	"gramly/internal/config"
	"gramly/internal/models"
	"gramly/internal/otp"
	"gramly/internal/payment"
	"gramly/internal/service"
	"gramly/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDWithPosts(ctx context.Context, id uint, limit int) (*models.User, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	args := m.Called(ctx, mobile)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListVerified(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByAuthorIDs(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, authorIDs, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, postID uint) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) FollowerIDs(ctx context.Context, followeeID uint) ([]uint, error) {
	args := m.Called(ctx, followeeID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockGateway is a mock of the payment.Client interface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amountMinorUnits int, currency string) (*payment.Order, error) {
	args := m.Called(ctx, amountMinorUnits, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockGateway) KeyID() string {
	return "key_test"
}

type noopMailer struct{}

func (noopMailer) SendCode(ctx context.Context, to string, code int, name string) {}

type noopMedia struct{}

func (noopMedia) Save(ctx context.Context, contentType string, r io.Reader, size int64) (string, error) {
	return "http://cdn.test/obj.jpg", nil
}

// testDeps bundles the mocks behind a test Server so individual tests can
// set expectations on whichever layer they exercise.
type testDeps struct {
	userRepo    *MockUserRepository
	postRepo    *MockPostRepository
	commentRepo *MockCommentRepository
	followRepo  *MockFollowRepository
	gateway     *MockGateway
	sessions    *session.Store
}

func newTestServer(t *testing.T) (*Server, *testDeps) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	deps := &testDeps{
		userRepo:    new(MockUserRepository),
		postRepo:    new(MockPostRepository),
		commentRepo: new(MockCommentRepository),
		followRepo:  new(MockFollowRepository),
		gateway:     new(MockGateway),
		sessions:    session.NewStore(client, time.Hour),
	}

	s := &Server{
		config:      &config.Config{Env: "test", SessionTTLHours: 1},
		sessions:    deps.sessions,
		userRepo:    deps.userRepo,
		postRepo:    deps.postRepo,
		commentRepo: deps.commentRepo,
		followRepo:  deps.followRepo,
	}
	s.identity = service.NewIdentityService(deps.userRepo, deps.sessions, otp.NewIssuer(), noopMailer{})
	s.profiles = service.NewProfileService(deps.userRepo, noopMedia{})
	s.graph = service.NewGraphService(deps.followRepo, deps.userRepo)
	s.feed = service.NewFeedService(deps.postRepo, deps.commentRepo, deps.followRepo, noopMedia{})
	s.prime = service.NewPrimeService(deps.userRepo, deps.gateway)

	return s, deps
}

// asUser fakes an authenticated request by seeding the request-scoped user id
// the way SessionRequired would.
func asUser(userID uint) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

package service

import (
	"context"
	"io"

	"gramly/internal/models"
	"gramly/internal/payment"
)

type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn func(context.Context, uint, int) (*models.User, error)
	getByUsernameFn    func(context.Context, string) (*models.User, error)
	existsByEmailFn    func(context.Context, string) (bool, error)
	existsByMobileFn   func(context.Context, string) (bool, error)
	existsByUsernameFn func(context.Context, string) (bool, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
	listVerifiedFn     func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id, limit)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	return s.existsByMobileFn(ctx, mobile)
}
func (s *userRepoStub) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.existsByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) ListVerified(ctx context.Context) ([]models.User, error) {
	return s.listVerifiedFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:          func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByIDWithPostsFn: func(context.Context, uint, int) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		existsByEmailFn:    func(context.Context, string) (bool, error) { return false, nil },
		existsByMobileFn:   func(context.Context, string) (bool, error) { return false, nil },
		existsByUsernameFn: func(context.Context, string) (bool, error) { return false, nil },
		createFn:           func(context.Context, *models.User) error { return nil },
		updateFn:           func(context.Context, *models.User) error { return nil },
		listVerifiedFn:     func(context.Context) ([]models.User, error) { return nil, nil },
	}
}

type followRepoStub struct {
	createFn      func(context.Context, uint, uint) error
	deleteFn      func(context.Context, uint, uint) error
	existsFn      func(context.Context, uint, uint) (bool, error)
	followersFn   func(context.Context, uint) ([]models.User, error)
	followingFn   func(context.Context, uint) ([]models.User, error)
	followeeIDsFn func(context.Context, uint) ([]uint, error)
	followerIDsFn func(context.Context, uint) ([]uint, error)
	countsFn      func(context.Context, uint) (int64, int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) error {
	return s.createFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) error {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followeeIDsFn(ctx, followerID)
}
func (s *followRepoStub) FollowerIDs(ctx context.Context, followeeID uint) ([]uint, error) {
	return s.followerIDsFn(ctx, followeeID)
}
func (s *followRepoStub) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	return s.countsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:      func(context.Context, uint, uint) error { return nil },
		deleteFn:      func(context.Context, uint, uint) error { return nil },
		existsFn:      func(context.Context, uint, uint) (bool, error) { return false, nil },
		followersFn:   func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followingFn:   func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followeeIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
		followerIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
		countsFn:      func(context.Context, uint) (int64, int64, error) { return 0, 0, nil },
	}
}

type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn    func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	getByAuthorIDsFn func(context.Context, []uint, int, int, uint) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	isLikedFn        func(context.Context, uint, uint) (bool, error)
	likeFn           func(context.Context, uint, uint) error
	unlikeFn         func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByAuthorIDs(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByAuthorIDsFn(ctx, authorIDs, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(context.Context, uint, uint) (*models.Post, error) { return &models.Post{}, nil },
		getByUserIDFn: func(context.Context, uint, int, int, uint) ([]*models.Post, error) {
			return nil, nil
		},
		getByAuthorIDsFn: func(context.Context, []uint, int, int, uint) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn:  func(context.Context, *models.Post) error { return nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		isLikedFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:    func(context.Context, uint, uint) error { return nil },
		unlikeFn:  func(context.Context, uint, uint) error { return nil },
	}
}

type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	listByPostFn   func(context.Context, uint) ([]*models.Comment, error)
	deleteByPostFn func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) DeleteByPost(ctx context.Context, postID uint) error {
	return s.deleteByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:       func(context.Context, *models.Comment) error { return nil },
		listByPostFn:   func(context.Context, uint) ([]*models.Comment, error) { return nil, nil },
		deleteByPostFn: func(context.Context, uint) error { return nil },
	}
}

// mailStub captures delivered codes on a channel so tests can wait for the
// fire-and-forget sender goroutine.
type mailStub struct {
	delivered chan int
	ctxs      chan context.Context
}

func newMailStub() *mailStub {
	return &mailStub{
		delivered: make(chan int, 8),
		ctxs:      make(chan context.Context, 8),
	}
}

func (m *mailStub) SendCode(ctx context.Context, _ string, code int, _ string) {
	m.ctxs <- ctx
	m.delivered <- code
}

// mediaStub returns a canned URL for any upload.
type mediaStub struct {
	url string
	err error
}

func (m *mediaStub) Save(_ context.Context, _ string, _ io.Reader, _ int64) (string, error) {
	return m.url, m.err
}

type gatewayStub struct {
	createOrderFn func(context.Context, int, string) (*payment.Order, error)
}

func (g *gatewayStub) CreateOrder(ctx context.Context, amount int, currency string) (*payment.Order, error) {
	return g.createOrderFn(ctx, amount, currency)
}

func (g *gatewayStub) KeyID() string { return "key_test" }

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/minhhai1907/social-network-BE/internal/cache"
	"github.com/minhhai1907/social-network-BE/internal/database"
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type friendRepoStub struct {
	createFn                    func(context.Context, *models.Friendship) error
	getByIDFn                   func(context.Context, uint) (*models.Friendship, error)
	getFriendshipBetweenUsersFn func(context.Context, uint, uint) (*models.Friendship, error)
	reopenFn                    func(context.Context, *models.Friendship) error
	transitionStatusFn          func(context.Context, uint, models.FriendshipStatus, models.FriendshipStatus) error
	deletePendingFn             func(context.Context, uint, uint) (*models.Friendship, error)
	removeAcceptedFn            func(context.Context, uint, uint) (*models.Friendship, error)
	listByViewFn                func(context.Context, uint, repository.FriendView) ([]models.Friendship, error)
}

func (s *friendRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	return s.createFn(ctx, friendship)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	return s.getFriendshipBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) Reopen(ctx context.Context, friendship *models.Friendship) error {
	return s.reopenFn(ctx, friendship)
}
func (s *friendRepoStub) TransitionStatus(ctx context.Context, id uint, from, to models.FriendshipStatus) error {
	return s.transitionStatusFn(ctx, id, from, to)
}
func (s *friendRepoStub) DeletePending(ctx context.Context, requesterID, addresseeID uint) (*models.Friendship, error) {
	return s.deletePendingFn(ctx, requesterID, addresseeID)
}
func (s *friendRepoStub) RemoveAccepted(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	return s.removeAcceptedFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) ListByView(ctx context.Context, userID uint, view repository.FriendView) ([]models.Friendship, error) {
	return s.listByViewFn(ctx, userID, view)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createFn:                    func(context.Context, *models.Friendship) error { return nil },
		getByIDFn:                   func(context.Context, uint) (*models.Friendship, error) { return &models.Friendship{}, nil },
		getFriendshipBetweenUsersFn: func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		reopenFn:                    func(context.Context, *models.Friendship) error { return nil },
		transitionStatusFn: func(context.Context, uint, models.FriendshipStatus, models.FriendshipStatus) error {
			return nil
		},
		deletePendingFn:  func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		removeAcceptedFn: func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		listByViewFn: func(context.Context, uint, repository.FriendView) ([]models.Friendship, error) {
			return nil, nil
		},
	}
}

type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	existsFn     func(context.Context, uint) (bool, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	listFn       func(context.Context, models.ListQuery) ([]models.User, int64, error)
	listByIDsFn  func(context.Context, []uint, models.ListQuery) ([]models.User, int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, q models.ListQuery) ([]models.User, int64, error) {
	return s.listFn(ctx, q)
}
func (s *userRepoStub) ListByIDs(ctx context.Context, ids []uint, q models.ListQuery) ([]models.User, int64, error) {
	return s.listByIDsFn(ctx, ids, q)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		existsFn:     func(context.Context, uint) (bool, error) { return true, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
		updateFn:     func(context.Context, *models.User) error { return nil },
		listFn: func(context.Context, models.ListQuery) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		listByIDsFn: func(context.Context, []uint, models.ListQuery) ([]models.User, int64, error) {
			return nil, 0, nil
		},
	}
}

// recalcStub records every recompute request.
type recalcStub struct {
	mu       sync.Mutex
	friends  [][]uint
	comments []uint
	targets  []models.ReactionTarget
	err      error
}

func (r *recalcStub) RecountFriends(_ context.Context, userIDs ...uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.friends = append(r.friends, userIDs)
	return r.err
}

func (r *recalcStub) RecountComments(_ context.Context, postID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, postID)
	return r.err
}

func (r *recalcStub) TallyReactions(_ context.Context, target models.ReactionTarget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
	return r.err
}

// setupMiniredis points the package cache at a fresh miniredis for one test.
func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
		mr.Close()
	})
	return mr
}

// setupTestDB opens a private in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// graph wires the real services over a sqlite database.
type graph struct {
	db         *gorm.DB
	friends    *FriendService
	lists      *FriendListService
	aggregates *AggregateService
	comments   *CommentService
	reactions  *ReactionService
	posts      *PostService
	users      *UserService
}

func newGraph(t *testing.T) *graph {
	t.Helper()
	db := setupTestDB(t)

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	aggregates := NewAggregateService(repository.NewAggregateRepository(db))

	return &graph{
		db:         db,
		friends:    NewFriendService(friendRepo, userRepo, aggregates),
		lists:      NewFriendListService(friendRepo, userRepo),
		aggregates: aggregates,
		comments:   NewCommentService(commentRepo, postRepo, reactionRepo, aggregates),
		reactions:  NewReactionService(reactionRepo, postRepo, commentRepo, aggregates),
		posts:      NewPostService(postRepo),
		users:      NewUserService(userRepo, friendRepo, "test-secret", time.Hour),
	}
}

func (g *graph) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, g.db.Create(u).Error)
	return u
}

func (g *graph) friendCount(t *testing.T, id uint) int {
	t.Helper()
	var u models.User
	require.NoError(t, g.db.Unscoped().First(&u, id).Error)
	return u.FriendCount
}

func (g *graph) pairRecords(t *testing.T, a, b uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, g.db.Model(&models.Friendship{}).
		Where("pair_key = ?", models.PairKey(a, b)).
		Count(&n).Error)
	return n
}

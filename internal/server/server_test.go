package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhhai1907/social-network-BE/internal/cache"
	"github.com/minhhai1907/social-network-BE/internal/config"
	"github.com/minhhai1907/social-network-BE/internal/database"
	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	redis *miniredis.Miniredis
}

// envelope mirrors models.APIResponse with a raw payload.
type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Errors  *models.ErrorResponse `json:"errors"`
	Message string                `json:"message"`
}

func newTestEnv(t *testing.T) *testEnv {
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

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
		mr.Close()
		_ = sqlDB.Close()
	})

	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        testSecret,
		JWTTTLHours:      1,
		AllowedOrigins:   "http://localhost:3000",
		DefaultPageLimit: 10,
	}
	return &testEnv{app: NewServer(cfg, db, rdb).NewApp(), db: db, redis: mr}
}

func (e *testEnv) user(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, e.db.Create(u).Error)
	token, err := middleware.IssueToken(u.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["redis"])

	env.redis.SetError("LOADING")
	defer env.redis.SetError("")
	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "redis is optional")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, body.Success)

	status, _ = env.do(t, http.MethodGet, "/api/friends", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Lan", "email": "lan@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, body.Errors)
	var reg struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &reg))
	assert.NotEmpty(t, reg.Token)

	status, body = env.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Lan", "email": "lan@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Register Error", body.Message)

	status, body = env.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Lan", "email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body.Errors.Code)

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "lan@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "lan@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	status, body = env.do(t, http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var me models.User
	require.NoError(t, json.Unmarshal(body.Data, &me))
	assert.Equal(t, reg.User.ID, me.ID)
}

func TestFriendRequestFlow(t *testing.T) {
	env := newTestEnv(t)
	a, tokenA := env.user(t, "alice")
	b, tokenB := env.user(t, "bob")

	// Warm the profile cache so the recount has something to invalidate.
	status, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", a.ID), tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.redis.Exists(cache.UserKey(a.ID)))

	status, body := env.do(t, http.MethodPost, "/api/friends/requests", tokenA, fiber.Map{"to": b.ID, "message": "hi"})
	require.Equal(t, http.StatusOK, status, body.Errors)
	assert.Equal(t, "Request has been sent", body.Message)
	var request models.Friendship
	require.NoError(t, json.Unmarshal(body.Data, &request))

	status, body = env.do(t, http.MethodPost, "/api/friends/requests", tokenA, fiber.Map{"to": b.ID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "You have already sent a request to this user", body.Errors.Message)

	status, body = env.do(t, http.MethodPost, "/api/friends/requests", tokenB, fiber.Map{"to": a.ID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "You have received a request from this user", body.Errors.Message)

	status, body = env.do(t, http.MethodGet, "/api/friends/requests/incoming", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	var incoming struct {
		Users []struct {
			ID         uint `json:"id"`
			Friendship struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			} `json:"friendship"`
		} `json:"users"`
		TotalPages int `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &incoming))
	require.Len(t, incoming.Users, 1)
	assert.Equal(t, a.ID, incoming.Users[0].ID)
	assert.Equal(t, "pending", incoming.Users[0].Friendship.Status)
	assert.Equal(t, "hi", incoming.Users[0].Friendship.Message)
	assert.Equal(t, 1, incoming.TotalPages)

	path := fmt.Sprintf("/api/friends/requests/%d", request.ID)
	status, _ = env.do(t, http.MethodPut, path, tokenA, fiber.Map{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, status, "only the recipient may react")

	status, body = env.do(t, http.MethodPut, path, tokenB, fiber.Map{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPut, path, tokenB, fiber.Map{"status": "accepted"})
	require.Equal(t, http.StatusOK, status)
	assert.False(t, env.redis.Exists(cache.UserKey(a.ID)), "recount invalidates the cached profile")

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", a.ID), tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		FriendCount int `json:"friend_count"`
		Friendships []struct {
			Status string `json:"status"`
		} `json:"friendships"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.Equal(t, 1, profile.FriendCount)
	require.Len(t, profile.Friendships, 1)
	assert.Equal(t, "accepted", profile.Friendships[0].Status)

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/friends/status/%d", b.ID), tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	var rel struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &rel))
	assert.Equal(t, "friends", rel.Status)

	status, body = env.do(t, http.MethodDelete, fmt.Sprintf("/api/friends/%d", a.ID), tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Friend has been removed", body.Message)

	status, body = env.do(t, http.MethodGet, "/api/friends", tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	var friends struct {
		Users []json.RawMessage `json:"users"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &friends))
	assert.Empty(t, friends.Users)
	assert.Zero(t, friends.Total)
}

func TestCancelFriendRequestIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	_, tokenA := env.user(t, "alice")
	b, _ := env.user(t, "bob")

	path := fmt.Sprintf("/api/friends/requests/%d", b.ID)
	status, body := env.do(t, http.MethodDelete, path, tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(body.Data))

	status, _ = env.do(t, http.MethodPost, "/api/friends/requests", tokenA, fiber.Map{"to": b.ID})
	require.Equal(t, http.StatusOK, status)
	status, body = env.do(t, http.MethodDelete, path, tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Friend request has been cancelled", body.Message)

	var n int64
	require.NoError(t, env.db.Model(&models.Friendship{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSendFriendRequestErrors(t *testing.T) {
	env := newTestEnv(t)
	a, tokenA := env.user(t, "alice")

	tests := []struct {
		name   string
		body   fiber.Map
		status int
	}{
		{"missing target", fiber.Map{}, http.StatusBadRequest},
		{"self", fiber.Map{"to": a.ID}, http.StatusBadRequest},
		{"unknown target", fiber.Map{"to": 4242}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/friends/requests", tokenA, tt.body)
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, "Send Friend Request Error", body.Message)
		})
	}
}

func TestCommentAndReactionCounters(t *testing.T) {
	env := newTestEnv(t)
	_, tokenA := env.user(t, "alice")
	_, tokenB := env.user(t, "bob")

	status, body := env.do(t, http.MethodPost, "/api/posts", tokenA, fiber.Map{"title": "Hello", "content": "World"})
	require.Equal(t, http.StatusCreated, status, body.Errors)
	var post models.Post
	require.NoError(t, json.Unmarshal(body.Data, &post))

	var commentIDs []uint
	for i := 0; i < 3; i++ {
		status, body = env.do(t, http.MethodPost, "/api/comments", tokenB, fiber.Map{"post_id": post.ID, "content": fmt.Sprintf("c%d", i)})
		require.Equal(t, http.StatusCreated, status, body.Errors)
		var comment models.Comment
		require.NoError(t, json.Unmarshal(body.Data, &comment))
		commentIDs = append(commentIDs, comment.ID)
	}

	postPath := fmt.Sprintf("/api/posts/%d", post.ID)
	status, body = env.do(t, http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &post))
	assert.Equal(t, 3, post.CommentCount)

	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentIDs[0]), tokenA, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentIDs[0]), tokenB, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &post))
	assert.Equal(t, 2, post.CommentCount, "cached post detail is invalidated by the recount")

	status, body = env.do(t, http.MethodPost, "/api/reactions", tokenA, fiber.Map{
		"target_type": "Comment", "target_id": commentIDs[1], "emoji": "like",
	})
	require.Equal(t, http.StatusOK, status, body.Errors)
	status, body = env.do(t, http.MethodPost, "/api/reactions", tokenB, fiber.Map{
		"target_type": "Comment", "target_id": commentIDs[1], "emoji": "dislike",
	})
	require.Equal(t, http.StatusOK, status)
	var result struct {
		Emoji     *string               `json:"emoji"`
		Reactions models.ReactionCounts `json:"reactions"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &result))
	require.NotNil(t, result.Emoji)
	assert.Equal(t, "dislike", *result.Emoji)
	assert.Equal(t, models.ReactionCounts{Like: 1, Dislike: 1}, result.Reactions)

	status, body = env.do(t, http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	var detail models.Post
	require.NoError(t, json.Unmarshal(body.Data, &detail))
	var embedded *models.Comment
	for i := range detail.Comments {
		if detail.Comments[i].ID == commentIDs[1] {
			embedded = &detail.Comments[i]
		}
	}
	require.NotNil(t, embedded)
	assert.Equal(t, models.ReactionCounts{Like: 1, Dislike: 1}, embedded.Reactions, "cached post detail shows the new comment tally")

	status, body = env.do(t, http.MethodPost, "/api/reactions", tokenB, fiber.Map{
		"target_type": "Photo", "target_id": 1, "emoji": "like",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Send Reaction Error", body.Message)

	status, _ = env.do(t, http.MethodPost, "/api/reactions", tokenB, fiber.Map{
		"target_type": "Post", "target_id": 999, "emoji": "like",
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodGet, postPath+"/comments?limit=1", "", nil)
	require.Equal(t, http.StatusOK, status)
	var comments struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &comments))
	assert.Equal(t, int64(2), comments.Total)
	assert.Equal(t, 2, comments.TotalPages)
}

func TestGetPostsFilters(t *testing.T) {
	env := newTestEnv(t)
	alice, tokenA := env.user(t, "alice")
	_, tokenB := env.user(t, "bob")

	for _, p := range []struct {
		token, title string
	}{
		{tokenA, "Hello world"},
		{tokenA, "Weekend plans"},
		{tokenB, "hello from bob"},
	} {
		status, body := env.do(t, http.MethodPost, "/api/posts", p.token, fiber.Map{"title": p.title, "content": "body"})
		require.Equal(t, http.StatusCreated, status, body.Errors)
	}

	type feed struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	list := func(query string) (int, feed) {
		status, body := env.do(t, http.MethodGet, "/api/posts"+query, "", nil)
		var f feed
		if status == http.StatusOK {
			require.NoError(t, json.Unmarshal(body.Data, &f))
		}
		return status, f
	}

	tests := []struct {
		name   string
		query  string
		status int
		total  int64
	}{
		{"all", "", http.StatusOK, 3},
		{"by author", fmt.Sprintf("?author=%d", alice.ID), http.StatusOK, 2},
		{"by title", "?title=HELLO", http.StatusOK, 2},
		{"author and title", fmt.Sprintf("?author=%d&title=hello", alice.ID), http.StatusOK, 1},
		{"unknown author", "?author=999", http.StatusOK, 0},
		{"invalid author", "?author=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, f := list(tt.query)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.total, f.Total)
			assert.Len(t, f.Posts, int(tt.total))
		})
	}

	status, f := list("?page=9000000000000000000")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), f.Total)
	assert.Empty(t, f.Posts, "a huge page is past the end, not page one")
}

func TestSwaggerDocs(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/swagger/doc.json", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "/api", doc.BasePath)
	assert.Contains(t, doc.Paths["/friends/requests/{id}"], "put")
	assert.Contains(t, doc.Paths["/friends/requests/{id}"], "delete")
	assert.Contains(t, doc.Paths["/reactions"], "post")
	assert.Contains(t, doc.Paths["/posts"], "get")
}

func TestInvalidRouteID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user(t, "alice")

	status, body := env.do(t, http.MethodGet, "/api/friends/status/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID", body.Errors.Message)
}

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"commentId", "comment ID"},
		{"friendRequestId", "friend request ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

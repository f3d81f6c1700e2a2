package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kindnest/internal/auth"
	"kindnest/internal/cache"
	"kindnest/internal/config"
	"kindnest/internal/database"
	"kindnest/internal/middleware"
	"kindnest/internal/models"
	"kindnest/internal/repository"
	"kindnest/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server over an in-memory database and the full
// route table. redisClient may be nil; the cache degrades to pass-through.
func newTestServer(t *testing.T, redisClient *redis.Client) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
		Env:            "test",
	}

	cache.SetClient(redisClient)
	t.Cleanup(func() { cache.SetClient(nil) })

	s := &Server{
		config:     cfg,
		db:         db,
		redis:      redisClient,
		tokens:     auth.NewTokens(cfg.JWTSecret, time.Hour),
		childRepo:  repository.NewChildRepository(db),
		parentRepo: repository.NewParentRepository(db),
		postRepo:   repository.NewPostRepository(db),
		likeRepo:   repository.NewLikeRepository(db),
		followRepo: repository.NewFollowRepository(db),
	}
	s.engagementService = service.NewEngagementService(db)
	s.postService = service.NewPostService(s.postRepo, s.likeRepo)
	s.profileService = service.NewProfileService(s.childRepo, s.followRepo)

	middleware.InitMiddleware(cfg)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

// authHeader issues a bearer token for actor against the test server's
// signing key.
func authHeader(t *testing.T, s *Server, actor models.Actor) string {
	t.Helper()
	token, err := s.tokens.Issue(actor)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func seedChild(t *testing.T, db *gorm.DB, username string) *models.Child {
	t.Helper()
	child := &models.Child{Username: username, DisplayName: username, Password: "pw"}
	require.NoError(t, db.Create(child).Error)
	return child
}

func seedParent(t *testing.T, db *gorm.DB, username string) *models.Parent {
	t.Helper()
	parent := &models.Parent{Username: username, Email: username + "@example.com", Password: "pw"}
	require.NoError(t, db.Create(parent).Error)
	return parent
}

func seedPost(t *testing.T, db *gorm.DB, childID uint) *models.Post {
	t.Helper()
	post := &models.Post{ChildID: childID, Caption: "hello world"}
	require.NoError(t, db.Create(post).Error)
	return post
}

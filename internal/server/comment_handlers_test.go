package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"murmur/internal/config"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// commentTestApp wires the comment routes the way SetupRoutes does: listing
// is public, writing sits behind AuthRequired.
func commentTestApp(t *testing.T, commentRepo *MockCommentRepository, postRepo *MockPostRepository) *fiber.App {
	t.Helper()
	cfg := &config.Config{JWTSecret: testJWTSecret}
	middleware.InitMiddleware(cfg)

	s := &Server{config: cfg}
	s.commentService = service.NewCommentService(commentRepo, postRepo)

	app := fiber.New()
	app.Get("/api/posts/:id/comments", s.ListComments)
	app.Post("/api/posts/:id/comments", middleware.AuthRequired, s.CreateComment)
	return app
}

func TestCreateComment_RequiresAuth(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	app := commentTestApp(t, commentRepo, postRepo)

	body, _ := json.Marshal(map[string]string{"content": "nice post"})
	req := httptest.NewRequest(http.MethodPost, "/api/posts/42/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_AuthorIsCaller(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	app := commentTestApp(t, commentRepo, postRepo)

	postRepo.On("GetByID", mock.Anything, uint(42), uint(7)).
		Return(&models.Post{ID: 42, UserID: 3}, nil)
	commentRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.PostID == 42 && c.UserID == 7 && c.Content == "nice post"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Comment).ID = 99
	}).Return(nil)

	body, _ := json.Marshal(map[string]string{"content": "nice post"})
	req := httptest.NewRequest(http.MethodPost, "/api/posts/42/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken(t, 7))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, uint(99), created.ID)
	assert.Equal(t, uint(7), created.UserID)
	commentRepo.AssertExpectations(t)
}

func TestCreateComment_MissingPost(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	app := commentTestApp(t, commentRepo, postRepo)

	postRepo.On("GetByID", mock.Anything, uint(404), uint(7)).
		Return(nil, models.NewNotFoundError("Post", uint(404)))

	body, _ := json.Marshal(map[string]string{"content": "hello?"})
	req := httptest.NewRequest(http.MethodPost, "/api/posts/404/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken(t, 7))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_BlankContent(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	app := commentTestApp(t, commentRepo, postRepo)

	body, _ := json.Marshal(map[string]string{"content": "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/posts/42/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken(t, 7))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListComments_PublicRead(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	app := commentTestApp(t, commentRepo, postRepo)

	postRepo.On("GetByID", mock.Anything, uint(42), uint(0)).
		Return(&models.Post{ID: 42}, nil)
	commentRepo.On("ListByPost", mock.Anything, uint(42)).Return([]*models.Comment{
		{ID: 2, PostID: 42, UserID: 5, Content: "second"},
		{ID: 1, PostID: 42, UserID: 7, Content: "first"},
	}, nil)

	// No Authorization header: reading comments is public.
	req := httptest.NewRequest(http.MethodGet, "/api/posts/42/comments", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Comments []models.Comment `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Comments, 2)
	assert.Equal(t, uint(2), body.Comments[0].ID)
}

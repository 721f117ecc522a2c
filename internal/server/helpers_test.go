package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// authToken signs a short-lived access token for handler tests.
func authToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": "murmur-api",
		"aud": "murmur-client",
		"exp": time.Now().Add(time.Hour).Unix(),
		"jti": "test-jti-" + strconv.FormatUint(uint64(userID), 10),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return str
}

// --- parseID ---

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"Valid", "/items/42", http.StatusOK},
		{"NonNumeric", "/items/abc", http.StatusBadRequest},
		{"Zero", "/items/0", http.StatusBadRequest},
		{"Negative", "/items/-3", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

// --- parsePagination ---

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		page, pageSize := parsePagination(c)
		return c.JSON(fiber.Map{"page": page, "page_size": pageSize})
	})

	tests := []struct {
		name             string
		query            string
		expectedPage     float64
		expectedPageSize float64
	}{
		{"Defaults", "", 1, 5},
		{"Custom", "?page=3&page_size=20", 3, 20},
		{"CappedPageSize", "?page_size=5000", 1, 100},
		{"NegativeValues", "?page=-2&page_size=-9", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]float64
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedPage, body["page"])
			assert.Equal(t, tt.expectedPageSize, body["page_size"])
		})
	}
}

// --- parseTags ---

func TestParseTags(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tags": parseTags(c)})
	})

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"Missing", "", nil},
		{"Single", "?tags=music", []string{"music"}},
		{"Multiple", "?tags=music,travel,food", []string{"music", "travel", "food"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body struct {
				Tags []string `json:"tags"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expected, body.Tags)
		})
	}
}

// --- optionalUserID ---

func TestOptionalUserID(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": optionalUserID(c)})
	})
	app.Get("/authed", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(7))
		return c.JSON(fiber.Map{"user_id": optionalUserID(c)})
	})

	for _, tt := range []struct {
		path     string
		expected float64
	}{
		{"/anon", 0},
		{"/authed", 7},
	} {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		var body map[string]float64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tt.expected, body["user_id"], tt.path)
	}
}

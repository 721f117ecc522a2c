package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"murmur/internal/cache"
	"murmur/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// TokenClaims carries the values extracted from a verified access token.
type TokenClaims struct {
	UserID uint
	JTI    string
}

var errInvalidToken = errors.New("invalid token")

// ParseToken verifies the HMAC signature of an access token and extracts
// the subject user id and token id.
func ParseToken(tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errInvalidToken
	}

	// User ID lives in the "sub" claim (subject claim per RFC 7519)
	sub, ok := claims["sub"].(string)
	if !ok {
		return TokenClaims{}, errInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return TokenClaims{}, errInvalidToken
	}

	jti, _ := claims["jti"].(string)

	return TokenClaims{UserID: uint(userID), JTI: jti}, nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	claims, err := ParseToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	// Tokens surrendered via logout are revoked until they expire.
	if claims.JTI != "" {
		revoked, revErr := cache.IsTokenRevoked(c.Context(), claims.JTI)
		if revErr == nil && revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token has been revoked",
			})
		}
	}

	// Store user ID and token ID in context
	c.Locals("userID", claims.UserID)
	c.Locals("tokenJTI", claims.JTI)
	// Sync to UserContext for logging and downstream services
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID))

	return c.Next()
}

// OptionalAuth extracts the caller's identity when a valid Bearer token is
// present but never rejects the request. Anonymous callers proceed with no
// userID local set.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Next()
	}

	claims, err := ParseToken(parts[1])
	if err != nil {
		return c.Next()
	}

	if claims.JTI != "" {
		revoked, revErr := cache.IsTokenRevoked(c.Context(), claims.JTI)
		if revErr == nil && revoked {
			return c.Next()
		}
	}

	c.Locals("userID", claims.UserID)
	c.Locals("tokenJTI", claims.JTI)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID))

	return c.Next()
}

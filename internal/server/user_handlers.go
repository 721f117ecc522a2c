package server

import (
	"time"

	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)

	in := service.SearchUsersInput{
		Username:     c.Query("username"),
		PlaceOfBirth: c.Query("place_of_birth"),
		Page:         page,
		PageSize:     pageSize,
	}
	if raw := c.Query("birth_date_start"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return respondError(c, models.NewValidationError("birth_date_start must be YYYY-MM-DD"))
		}
		in.BirthDateStart = &t
	}
	if raw := c.Query("birth_date_end"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return respondError(c, models.NewValidationError("birth_date_end must be YYYY-MM-DD"))
		}
		in.BirthDateEnd = &t
	}

	users, err := s.userService.SearchUsers(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
	})
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetMe handles GET /api/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMe handles PATCH /api/me
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	var req struct {
		Username     string  `json:"username"`
		Bio          *string `json:"bio"`
		BirthDate    *string `json:"birth_date"`
		PlaceOfBirth *string `json:"place_of_birth"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	in := service.UpdateProfileInput{
		UserID:       currentUserID(c),
		Username:     req.Username,
		Bio:          req.Bio,
		PlaceOfBirth: req.PlaceOfBirth,
	}
	if req.BirthDate != nil {
		t, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return respondError(c, models.NewValidationError("birth_date must be YYYY-MM-DD"))
		}
		in.BirthDate = &t
	}

	user, err := s.userService.UpdateProfile(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteMe handles DELETE /api/me
func (s *Server) DeleteMe(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.Context(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleFollow handles POST /api/users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	result, err := s.relationshipService.ToggleFollow(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": result,
	})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	users, err := s.relationshipService.Following(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{
		"users": users,
	})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	users, err := s.relationshipService.Followers(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{
		"users": users,
	})
}

package service

import (
	"context"
	"strings"
	"time"

	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID       uint
	Username     string
	Bio          *string
	BirthDate    *time.Time
	PlaceOfBirth *string
}

type SearchUsersInput struct {
	Username       string
	PlaceOfBirth   string
	BirthDateStart *time.Time
	BirthDateEnd   *time.Time
	Page           int
	PageSize       int
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SearchUsers filters users by partial username, place of birth, and a
// birth date range. All criteria are optional and combine with AND.
func (s *UserService) SearchUsers(ctx context.Context, in SearchUsersInput) ([]*models.User, error) {
	page, pageSize := NormalizePage(in.Page, in.PageSize)

	if in.BirthDateStart != nil && in.BirthDateEnd != nil && in.BirthDateEnd.Before(*in.BirthDateStart) {
		return nil, models.NewValidationError("birth_date_end must not precede birth_date_start")
	}

	users, err := s.userRepo.Search(ctx, repository.UserSearch{
		Username:       strings.TrimSpace(in.Username),
		PlaceOfBirth:   strings.TrimSpace(in.PlaceOfBirth),
		BirthDateStart: in.BirthDateStart,
		BirthDateEnd:   in.BirthDateEnd,
		Limit:          pageSize,
		Offset:         (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxPlaceLen = 100

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewValidationError("Username already taken")
		}
		user.Username = in.Username
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.BirthDate != nil {
		if in.BirthDate.After(time.Now()) {
			return nil, models.NewValidationError("Birth date cannot be in the future")
		}
		user.BirthDate = in.BirthDate
	}
	if in.PlaceOfBirth != nil {
		if len(*in.PlaceOfBirth) > maxPlaceLen {
			return nil, models.NewValidationError("Place of birth too long (max 100 characters)")
		}
		user.PlaceOfBirth = *in.PlaceOfBirth
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user together with their posts, comments,
// likes, and follow edges in both directions.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

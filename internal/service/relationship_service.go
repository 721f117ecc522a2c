package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
)

// RelationshipService manages the follow and like edges between users
// and posts. Both edges behave as sets: toggling flips membership and
// reports which direction the flip took.
type RelationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
}

func NewRelationshipService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *RelationshipService {
	return &RelationshipService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
	}
}

// ToggleFollow flips the follow edge from the caller to the target user.
// Following yourself is rejected; repeating the call flips the edge back.
func (s *RelationshipService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (models.ToggleResult, error) {
	if followerID == followeeID {
		return "", models.NewSelfReferenceError("You cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return "", err
	}

	result, err := s.followRepo.Toggle(ctx, followerID, followeeID)
	if err != nil {
		return "", err
	}
	observability.ToggleOperations.WithLabelValues("follow", string(result)).Inc()
	return result, nil
}

// ToggleLike flips the caller's like on the post. Liking your own post
// is allowed.
func (s *RelationshipService) ToggleLike(ctx context.Context, userID, postID uint) (models.ToggleResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return "", err
	}

	result, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return "", err
	}
	observability.ToggleOperations.WithLabelValues("like", string(result)).Inc()
	return result, nil
}

func (s *RelationshipService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}

func (s *RelationshipService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}

func (s *RelationshipService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

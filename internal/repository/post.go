// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"murmur/internal/cache"
	"murmur/internal/models"

	"gorm.io/gorm"
)

// FeedQuery describes one page of the feed.
//
// AuthorIDs is the visible author set: nil means unrestricted (anonymous
// viewer), a non-nil slice restricts results to posts authored by its
// members. TagNames optionally intersects the candidates with posts
// carrying any of the named tags; an empty slice means no filter.
// ViewerID (0 for anonymous) only affects the computed Liked flag.
type FeedQuery struct {
	AuthorIDs []uint
	TagNames  []string
	ViewerID  uint
	Limit     int
	Offset    int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	Feed(ctx context.Context, q FeedQuery) ([]*models.Post, int64, error)
	LikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error)
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	LikerIDs(ctx context.Context, postID uint) ([]uint, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (models.ToggleResult, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePublicFeed(ctx)
	}
	return err
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// applyFeedFilters narrows posts to the visible author set and the optional
// tag filter. The tag subquery keeps each post once no matter how many of
// the requested tags it carries.
func applyFeedFilters(db *gorm.DB, q FeedQuery) *gorm.DB {
	if q.AuthorIDs != nil {
		db = db.Where("posts.user_id IN ?", q.AuthorIDs)
	}
	if len(q.TagNames) > 0 {
		db = db.Where(
			"posts.id IN (SELECT post_tags.post_id FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE tags.name IN ?)",
			q.TagNames,
		)
	}
	return db
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Feed returns one page of the visible, tag-filtered feed, newest first,
// together with the total number of matching posts. Ties on created_at are
// broken by post id descending so the ordering is deterministic.
func (r *postRepository) Feed(ctx context.Context, q FeedQuery) ([]*models.Post, int64, error) {
	var total int64
	if err := applyFeedFilters(r.db.WithContext(ctx).Model(&models.Post{}), q).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := applyFeedFilters(r.applyPostDetails(r.db.WithContext(ctx), q.ViewerID), q).
		Preload("User").
		Preload("Tags").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// LikedBy returns the page of posts the user has liked, newest first.
// Liked posts stay visible regardless of who authored them.
func (r *postRepository) LikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	liked := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("posts.id IN (SELECT post_id FROM likes WHERE user_id = ?)", userID)

	var total int64
	if err := liked.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), userID).
		Where("posts.id IN (SELECT post_id FROM likes WHERE user_id = ?)", userID).
		Preload("User").
		Preload("Tags").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Delete removes the post along with its comments, like edges, and tag
// links in a single transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidatePublicFeed(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) LikerIDs(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// Use INSERT ... ON CONFLICT DO NOTHING to handle race conditions
	// This is atomic and prevents duplicate key errors
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error == nil {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return result.Error
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).Unscoped().Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return err
}

// ToggleLike flips the like edge inside a single transaction so that the
// reported result reflects a consistent before/after state for the caller.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (models.ToggleResult, error) {
	var result models.ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Unscoped().Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected > 0 {
			result = models.ToggleRemoved
			return nil
		}

		ins := tx.Exec(
			`INSERT INTO likes (user_id, post_id, created_at)
			 VALUES (?, ?, NOW())
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID,
		)
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected > 0 {
			result = models.ToggleCreated
			return nil
		}

		// Lost a race with a concurrent toggle on the same edge; undo it
		// so this caller's view stays consistent.
		if err := tx.Unscoped().Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		result = models.ToggleRemoved
		return nil
	})
	if err != nil {
		return "", err
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return result, nil
}

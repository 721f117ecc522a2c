// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	GetOrCreate(ctx context.Context, names []string) ([]models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	PostIDsWithAnyTag(ctx context.Context, names []string) ([]uint, error)
}

// tagRepository implements TagRepository
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetOrCreate(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		var tag models.Tag
		if err := r.db.WithContext(ctx).
			Where(models.Tag{Name: name}).
			FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// PostIDsWithAnyTag returns the union of post ids carrying any of the given
// tag names. An empty input means the caller requested no filter; this
// method is only meaningful for a non-empty name set.
func (r *tagRepository) PostIDsWithAnyTag(ctx context.Context, names []string) ([]uint, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var postIDs []uint
	err := r.db.WithContext(ctx).
		Table("post_tags").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("tags.name IN ?", names).
		Distinct().
		Pluck("post_tags.post_id", &postIDs).Error
	return postIDs, err
}

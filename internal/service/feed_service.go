package service

import (
	"context"
	"strconv"
	"strings"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

// FeedInput describes one feed page request. ViewerID is 0 for anonymous
// viewers. Tags holds the raw comma-separated tag names from the query
// string; empty means no filter.
type FeedInput struct {
	ViewerID uint
	Tags     []string
	Page     int
	PageSize int
}

func NewFeedService(postRepo repository.PostRepository, followRepo repository.FollowRepository) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		followRepo: followRepo,
	}
}

// NormalizePage clamps the 1-indexed page number and page size into range.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func normalizeTags(tags []string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		names = append(names, t)
	}
	return names
}

// GetFeed returns one page of posts visible to the viewer, newest first.
// An authenticated viewer sees posts authored by users they follow plus
// their own; an anonymous viewer sees every post.
func (s *FeedService) GetFeed(ctx context.Context, in FeedInput) (*models.Page[*models.Post], error) {
	page, pageSize := NormalizePage(in.Page, in.PageSize)
	tags := normalizeTags(in.Tags)

	observability.FeedRequests.WithLabelValues(
		viewerKind(in.ViewerID), strconv.FormatBool(len(tags) > 0)).Inc()

	var authorIDs []uint
	if in.ViewerID != 0 {
		following, err := s.followRepo.FollowingIDs(ctx, in.ViewerID)
		if err != nil {
			return nil, err
		}
		authorIDs = append(following, in.ViewerID)
	}

	q := repository.FeedQuery{
		AuthorIDs: authorIDs,
		TagNames:  tags,
		ViewerID:  in.ViewerID,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	// The unfiltered anonymous feed is identical for every caller, so the
	// first few pages are worth caching.
	if in.ViewerID == 0 && len(tags) == 0 && page <= 3 {
		var result models.Page[*models.Post]
		err := cache.Aside(ctx, cache.PublicFeedKey(page, pageSize), &result, cache.FeedTTL, func() error {
			posts, total, fetchErr := s.postRepo.Feed(ctx, q)
			if fetchErr != nil {
				return fetchErr
			}
			result = buildPage(posts, total, page, pageSize)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &result, nil
	}

	posts, total, err := s.postRepo.Feed(ctx, q)
	if err != nil {
		return nil, err
	}
	result := buildPage(posts, total, page, pageSize)
	return &result, nil
}

// GetLikedPosts returns the page of posts the viewer has liked. Liking a
// post keeps it listed here even after unfollowing its author.
func (s *FeedService) GetLikedPosts(ctx context.Context, viewerID uint, page, pageSize int) (*models.Page[*models.Post], error) {
	page, pageSize = NormalizePage(page, pageSize)

	posts, total, err := s.postRepo.LikedBy(ctx, viewerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	result := buildPage(posts, total, page, pageSize)
	return &result, nil
}

func buildPage(posts []*models.Post, total int64, page, pageSize int) models.Page[*models.Post] {
	if posts == nil {
		posts = []*models.Post{}
	}
	return models.Page[*models.Post]{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  posts,
	}
}

func viewerKind(viewerID uint) string {
	if viewerID == 0 {
		return "anonymous"
	}
	return "authenticated"
}

// Package tasks runs background jobs alongside the HTTP server.
package tasks

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"murmur/internal/middleware"
	"murmur/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var topicTags = []string{
	"technology", "music", "travel", "food", "sports",
	"books", "science", "gaming", "art", "history",
}

// AutoPoster periodically publishes a generated post on behalf of a
// configured user. It keeps demo environments lively without manual
// posting.
type AutoPoster struct {
	posts    *service.PostService
	userID   uint
	interval time.Duration
}

func NewAutoPoster(posts *service.PostService, userID uint, interval time.Duration) *AutoPoster {
	return &AutoPoster{
		posts:    posts,
		userID:   userID,
		interval: interval,
	}
}

// Run publishes posts on the configured interval until the context is
// cancelled. Call it from its own goroutine.
func (p *AutoPoster) Run(ctx context.Context) {
	if p.interval <= 0 {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	middleware.Logger.InfoContext(ctx, "auto poster started",
		slog.Uint64("user_id", uint64(p.userID)),
		slog.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			middleware.Logger.InfoContext(ctx, "auto poster stopped")
			return
		case <-ticker.C:
			if err := p.publish(ctx); err != nil {
				middleware.Logger.ErrorContext(ctx, "auto post failed",
					slog.String("error", err.Error()))
			}
		}
	}
}

func (p *AutoPoster) publish(ctx context.Context) error {
	tags := []string{topicTags[gofakeit.Number(0, len(topicTags)-1)]}

	title := gofakeit.Sentence(4)
	title = strings.TrimSuffix(title, ".")
	if len(title) > 100 {
		title = title[:100]
	}

	post, err := p.posts.CreatePost(ctx, service.CreatePostInput{
		UserID:  p.userID,
		Title:   title,
		Content: gofakeit.Paragraph(1, 3, 8, "\n"),
		Tags:    tags,
	})
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "auto post published",
		slog.Uint64("post_id", uint64(post.ID)))
	return nil
}

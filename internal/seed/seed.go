package seed

import (
	"fmt"
	"log"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var tagNames = []string{
	"technology", "music", "travel", "food", "sports",
	"books", "science", "gaming", "art", "history",
	"photography", "fitness", "movies", "nature", "programming",
}

// Run populates the database with demo users, posts, tags, follows,
// likes, and comments.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("cleaning database: %w", err)
		}
	}

	f := NewFactory(db)

	tags, err := f.EnsureTags(tagNames)
	if err != nil {
		return fmt.Errorf("creating tags: %w", err)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rnd.Intn(len(users))]
		nTags := f.rnd.Intn(3)
		postTags := make([]models.Tag, 0, nTags)
		for j := 0; j < nTags; j++ {
			postTags = append(postTags, tags[f.rnd.Intn(len(tags))])
		}
		post, err := f.CreatePost(author, dedupeTags(postTags))
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	// Each user follows a handful of others.
	for _, user := range users {
		nFollows := f.rnd.Intn(6) + 1
		for j := 0; j < nFollows; j++ {
			target := users[f.rnd.Intn(len(users))]
			if err := f.CreateFollow(user, target); err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
		}
	}

	// Sprinkle likes and comments over the posts.
	for _, post := range posts {
		nLikes := f.rnd.Intn(5)
		for j := 0; j < nLikes; j++ {
			if err := f.CreateLike(users[f.rnd.Intn(len(users))], post); err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
		}
		nComments := f.rnd.Intn(3)
		for j := 0; j < nComments; j++ {
			if _, err := f.CreateComment(users[f.rnd.Intn(len(users))], post); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}
	}

	log.Println("seeding complete")
	return nil
}

// Clean removes all seeded data. Order matters because of foreign keys.
func Clean(db *gorm.DB) error {
	statements := []string{
		"DELETE FROM comments",
		"DELETE FROM likes",
		"DELETE FROM post_tags",
		"DELETE FROM follows",
		"DELETE FROM posts",
		"DELETE FROM tags",
		"DELETE FROM users",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func dedupeTags(tags []models.Tag) []models.Tag {
	seen := make(map[uint]bool, len(tags))
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

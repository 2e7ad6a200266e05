package service

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type BlogService interface {
	Create(actor domain.Identity, post domain.BlogPost) (int64, error)
	Update(actor domain.Identity, post domain.BlogPost) error
	Delete(actor domain.Identity, id int64) error
	Published(category string, limit, offset int) ([]domain.BlogPost, error)
	PublishedBySlug(slug string) (domain.BlogPost, error)
	All(status string, limit, offset int) ([]domain.BlogPost, error)
	ById(id int64) (domain.BlogPost, error)
	Categories() ([]string, error)
	Stats() (domain.BlogStats, error)
}

type Blog struct {
	storage BlogStorage
}

type BlogStorage interface {
	SavePost(post domain.BlogPost) (int64, error)
	Posts(status string, limit, offset int) ([]domain.BlogPost, error)
	PublishedPosts(category string, limit, offset int) ([]domain.BlogPost, error)
	PostById(id int64) (domain.BlogPost, error)
	PostBySlug(slug string) (domain.BlogPost, error)
	UpdatePost(post domain.BlogPost) error
	DeletePost(id int64) error
	IncrementPostViews(id int64) error
	Categories() ([]string, error)
	BlogStats() (domain.BlogStats, error)
}

func NewBlog(storage BlogStorage) *Blog {
	return &Blog{storage: storage}
}

func (b *Blog) Create(actor domain.Identity, post domain.BlogPost) (int64, error) {
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.Slug == "" {
		return -1, internal_errors.Validation("Cannot derive a slug", map[string]string{"title": "must contain letters or digits"})
	}
	if !validPostStatus(post.Status) {
		return -1, internal_errors.Validation("Unknown post status", map[string]string{"status": "must be draft or published"})
	}
	if id, err := strconv.ParseInt(actor.Subject, 10, 64); err == nil {
		post.AuthorId = &id
	}
	id, err := b.storage.SavePost(post)
	if err != nil {
		return -1, err
	}
	logger.AdminAction(actor.Email, "post created", "post_id", id, "slug", post.Slug)
	return id, nil
}

func (b *Blog) Update(actor domain.Identity, post domain.BlogPost) error {
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if !validPostStatus(post.Status) {
		return internal_errors.Validation("Unknown post status", map[string]string{"status": "must be draft or published"})
	}
	if err := b.storage.UpdatePost(post); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "post updated", "post_id", post.Id)
	return nil
}

func (b *Blog) Delete(actor domain.Identity, id int64) error {
	if err := b.storage.DeletePost(id); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "post deleted", "post_id", id)
	return nil
}

func (b *Blog) Published(category string, limit, offset int) ([]domain.BlogPost, error) {
	posts, err := b.storage.PublishedPosts(category, clampLimit(limit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	// Listings carry excerpts only.
	for i := range posts {
		posts[i].Content = ""
		posts[i].Status = ""
	}
	return posts, nil
}

// PublishedBySlug fetches a single public post and counts the view.
func (b *Blog) PublishedBySlug(slug string) (domain.BlogPost, error) {
	post, err := b.storage.PostBySlug(slug)
	if err != nil {
		return domain.BlogPost{}, err
	}
	if post.Status != domain.PostPublished {
		// Drafts are invisible outside the admin console.
		return domain.BlogPost{}, internal_errors.NotFound("Post not found")
	}
	if err := b.storage.IncrementPostViews(post.Id); err != nil {
		logger.Log.Error("failed to count post view", "post_id", post.Id, "error", err)
	} else {
		post.Views++
	}
	post.Status = ""
	return post, nil
}

func (b *Blog) All(status string, limit, offset int) ([]domain.BlogPost, error) {
	if status != "" && !validPostStatus(status) {
		return nil, internal_errors.Validation("Unknown post status", map[string]string{"status": "must be draft or published"})
	}
	return b.storage.Posts(status, clampLimit(limit), clampOffset(offset))
}

func (b *Blog) ById(id int64) (domain.BlogPost, error) {
	return b.storage.PostById(id)
}

func (b *Blog) Categories() ([]string, error) {
	return b.storage.Categories()
}

func (b *Blog) Stats() (domain.BlogStats, error) {
	return b.storage.BlogStats()
}

func validPostStatus(status string) bool {
	return status == domain.PostDraft || status == domain.PostPublished
}

// Slugify turns a title into a URL slug: lower-cased, runs of anything
// that is not a letter or digit collapsed into single hyphens.
func Slugify(title string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if hyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			hyphen = false
			sb.WriteRune(r)
		} else {
			hyphen = true
		}
	}
	return sb.String()
}

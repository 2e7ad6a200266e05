package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
)

const postColumns = "id, title, slug, content, excerpt, category, status, views, author_id, created_at, updated_at"

func (s *Storage) SavePost(post domain.BlogPost) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO blog_posts(title, slug, content, excerpt, category, status, author_id)
         VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		post.Title, post.Slug, post.Content, post.Excerpt, post.Category, post.Status, post.AuthorId,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return -1, internal_errors.Conflict("Slug already in use")
		}
		return -1, fmt.Errorf("failed to insert blog post: %w", err)
	}
	return id, nil
}

func (s *Storage) Posts(status string, limit, offset int) ([]domain.BlogPost, error) {
	query := "SELECT " + postColumns + " FROM blog_posts"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, status, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}
	return s.queryPosts(query, args...)
}

// PublishedPosts lists published posts, optionally filtered by category.
func (s *Storage) PublishedPosts(category string, limit, offset int) ([]domain.BlogPost, error) {
	if category != "" {
		return s.queryPosts(
			"SELECT "+postColumns+" FROM blog_posts WHERE status = 'published' AND category = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
			category, limit, offset)
	}
	return s.queryPosts(
		"SELECT "+postColumns+" FROM blog_posts WHERE status = 'published' ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
}

func (s *Storage) PostById(id int64) (domain.BlogPost, error) {
	return s.post("id = $1", id)
}

func (s *Storage) PostBySlug(slug string) (domain.BlogPost, error) {
	return s.post("slug = $1", slug)
}

func (s *Storage) UpdatePost(post domain.BlogPost) error {
	err := s.execOne(s.db,
		`UPDATE blog_posts SET title = $1, slug = $2, content = $3, excerpt = $4,
         category = $5, status = $6, updated_at = now() WHERE id = $7`,
		"Post not found",
		post.Title, post.Slug, post.Content, post.Excerpt, post.Category, post.Status, post.Id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return internal_errors.Conflict("Slug already in use")
		}
		return err
	}
	return nil
}

func (s *Storage) DeletePost(id int64) error {
	return s.execOne(s.db, "DELETE FROM blog_posts WHERE id = $1", "Post not found", id)
}

func (s *Storage) IncrementPostViews(id int64) error {
	_, err := s.db.Exec("UPDATE blog_posts SET views = views + 1 WHERE id = $1", id)
	return err
}

func (s *Storage) Categories() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT category FROM blog_posts WHERE status = 'published' AND category <> '' ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Storage) BlogStats() (domain.BlogStats, error) {
	var stats domain.BlogStats
	var views sql.NullInt64
	err := s.db.QueryRow(`
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'published'),
               COUNT(*) FILTER (WHERE status = 'draft'),
               SUM(views)
        FROM blog_posts`,
	).Scan(&stats.Total, &stats.Published, &stats.Drafts, &views)
	if err != nil {
		return domain.BlogStats{}, fmt.Errorf("failed to query blog stats: %w", err)
	}
	if views.Valid {
		stats.TotalViews = views.Int64
	}
	return stats, nil
}

func (s *Storage) post(where string, arg any) (domain.BlogPost, error) {
	row := s.db.QueryRow("SELECT "+postColumns+" FROM blog_posts WHERE "+where, arg)
	post, err := scanPost(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BlogPost{}, internal_errors.NotFound("Post not found")
		}
		return domain.BlogPost{}, fmt.Errorf("failed to query blog post: %w", err)
	}
	return post, nil
}

func (s *Storage) queryPosts(query string, args ...any) ([]domain.BlogPost, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query blog posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.BlogPost{}
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(scan func(...any) error) (domain.BlogPost, error) {
	var post domain.BlogPost
	err := scan(&post.Id, &post.Title, &post.Slug, &post.Content, &post.Excerpt,
		&post.Category, &post.Status, &post.Views, &post.AuthorId, &post.CreatedAt, &post.UpdatedAt)
	return post, err
}

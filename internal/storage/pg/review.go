package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
)

const reviewColumns = "id, author_name, email, rating, content, status, user_id, ip_address, created_at, updated_at"

func (s *Storage) SaveReview(review domain.Review) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO reviews(author_name, email, rating, content, user_id, ip_address)
         VALUES($1, lower($2), $3, $4, $5, $6) RETURNING id`,
		review.AuthorName, review.Email, review.Rating, review.Content, review.UserId, review.Ip,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert review: %w", err)
	}
	return id, nil
}

// Reviews lists reviews newest-first, optionally filtered by status.
func (s *Storage) Reviews(status string, limit, offset int) ([]domain.Review, error) {
	query := "SELECT " + reviewColumns + " FROM reviews"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, status, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}
	return s.queryReviews(query, args...)
}

func (s *Storage) ReviewsByUser(userId domain.UserId, limit, offset int) ([]domain.Review, error) {
	return s.queryReviews(
		"SELECT "+reviewColumns+" FROM reviews WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userId, limit, offset)
}

func (s *Storage) ReviewById(id int64) (domain.Review, error) {
	row := s.db.QueryRow("SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id)
	review, err := scanReview(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, internal_errors.NotFound("Review not found")
		}
		return domain.Review{}, fmt.Errorf("failed to query review: %w", err)
	}
	return review, nil
}

func (s *Storage) UpdateReviewStatus(id int64, status string) error {
	return s.execOne(s.db,
		"UPDATE reviews SET status = $1, updated_at = now() WHERE id = $2",
		"Review not found", status, id)
}

func (s *Storage) DeleteReview(id int64) error {
	return s.execOne(s.db, "DELETE FROM reviews WHERE id = $1", "Review not found", id)
}

// DeleteUserReview deletes a review only when owned by userId.
func (s *Storage) DeleteUserReview(id int64, userId domain.UserId) error {
	return s.execOne(s.db,
		"DELETE FROM reviews WHERE id = $1 AND user_id = $2",
		"Review not found", id, userId)
}

func (s *Storage) ReviewStats() (domain.ReviewStats, error) {
	var stats domain.ReviewStats
	var avg sql.NullFloat64
	err := s.db.QueryRow(`
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'pending'),
               COUNT(*) FILTER (WHERE status = 'approved'),
               AVG(rating) FILTER (WHERE status = 'approved')
        FROM reviews`,
	).Scan(&stats.Total, &stats.Pending, &stats.Approved, &avg)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("failed to query review stats: %w", err)
	}
	if avg.Valid {
		stats.AverageRating = avg.Float64
	}
	return stats, nil
}

func (s *Storage) queryReviews(query string, args ...any) ([]domain.Review, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func scanReview(scan func(...any) error) (domain.Review, error) {
	var review domain.Review
	err := scan(&review.Id, &review.AuthorName, &review.Email, &review.Rating, &review.Content,
		&review.Status, &review.UserId, &review.Ip, &review.CreatedAt, &review.UpdatedAt)
	return review, err
}

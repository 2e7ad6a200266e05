package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
)

const announcementColumns = "id, type, title, content, published, created_at"

func (s *Storage) SaveAnnouncement(a domain.Announcement) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		"INSERT INTO announcements(type, title, content, published) VALUES($1, $2, $3, $4) RETURNING id",
		a.Type, a.Title, a.Content, a.Published,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert announcement: %w", err)
	}
	return id, nil
}

// PublishedAnnouncements lists published announcements, optionally by type.
func (s *Storage) PublishedAnnouncements(announcementType string, limit, offset int) ([]domain.Announcement, error) {
	if announcementType != "" {
		return s.queryAnnouncements(
			"SELECT "+announcementColumns+" FROM announcements WHERE published AND type = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
			announcementType, limit, offset)
	}
	return s.queryAnnouncements(
		"SELECT "+announcementColumns+" FROM announcements WHERE published ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
}

// Announcements lists everything for the admin console.
func (s *Storage) Announcements(limit, offset int) ([]domain.Announcement, error) {
	return s.queryAnnouncements(
		"SELECT "+announcementColumns+" FROM announcements ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
}

func (s *Storage) AnnouncementById(id int64) (domain.Announcement, error) {
	var a domain.Announcement
	err := s.db.QueryRow("SELECT "+announcementColumns+" FROM announcements WHERE id = $1", id).
		Scan(&a.Id, &a.Type, &a.Title, &a.Content, &a.Published, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Announcement{}, internal_errors.NotFound("Announcement not found")
		}
		return domain.Announcement{}, fmt.Errorf("failed to query announcement: %w", err)
	}
	return a, nil
}

func (s *Storage) UpdateAnnouncement(a domain.Announcement) error {
	return s.execOne(s.db,
		"UPDATE announcements SET type = $1, title = $2, content = $3, published = $4 WHERE id = $5",
		"Announcement not found", a.Type, a.Title, a.Content, a.Published, a.Id)
}

func (s *Storage) DeleteAnnouncement(id int64) error {
	return s.execOne(s.db, "DELETE FROM announcements WHERE id = $1", "Announcement not found", id)
}

func (s *Storage) queryAnnouncements(query string, args ...any) ([]domain.Announcement, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	announcements := []domain.Announcement{}
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.Id, &a.Type, &a.Title, &a.Content, &a.Published, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

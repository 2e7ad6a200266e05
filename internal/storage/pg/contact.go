package pg

import (
	"fmt"

	"github.com/wayapps/waysite/internal/domain"
)

const contactColumns = "id, name, email, subject, message, status, ip_address, created_at"

func (s *Storage) SaveContact(c domain.ContactSubmission) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO contact_submissions(name, email, subject, message, ip_address)
         VALUES($1, lower($2), $3, $4, $5) RETURNING id`,
		c.Name, c.Email, c.Subject, c.Message, c.Ip,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert contact submission: %w", err)
	}
	return id, nil
}

// Contacts lists submissions newest-first, optionally filtered by status.
func (s *Storage) Contacts(status string, limit, offset int) ([]domain.ContactSubmission, error) {
	query := "SELECT " + contactColumns + " FROM contact_submissions"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, status, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact submissions: %w", err)
	}
	defer rows.Close()

	contacts := []domain.ContactSubmission{}
	for rows.Next() {
		var c domain.ContactSubmission
		if err := rows.Scan(&c.Id, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.Ip, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact submission: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ContactsByEmail lists the submissions a signed-in user sent, matched on
// their account email.
func (s *Storage) ContactsByEmail(email domain.Email, limit, offset int) ([]domain.ContactSubmission, error) {
	rows, err := s.db.Query(
		"SELECT "+contactColumns+" FROM contact_submissions WHERE email = lower($1) ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		email, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact submissions: %w", err)
	}
	defer rows.Close()

	contacts := []domain.ContactSubmission{}
	for rows.Next() {
		var c domain.ContactSubmission
		if err := rows.Scan(&c.Id, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.Ip, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact submission: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *Storage) UpdateContactStatus(id int64, status string) error {
	return s.execOne(s.db,
		"UPDATE contact_submissions SET status = $1 WHERE id = $2",
		"Submission not found", status, id)
}

func (s *Storage) DeleteContact(id int64) error {
	return s.execOne(s.db, "DELETE FROM contact_submissions WHERE id = $1", "Submission not found", id)
}

// UnreadContacts returns the unread count for the admin dashboard.
func (s *Storage) UnreadContacts() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM contact_submissions WHERE status = 'unread'").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread submissions: %w", err)
	}
	return count, nil
}

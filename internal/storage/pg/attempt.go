package pg

import (
	"fmt"
	"time"

	"github.com/wayapps/waysite/internal/domain"
)

// RecordAttempt appends a login-attempt event. Rows are never mutated and
// only read in aggregate.
func (s *Storage) RecordAttempt(attempt domain.LoginAttempt) error {
	_, err := s.db.Exec(
		"INSERT INTO login_attempts(ip_address, email, success) VALUES($1, lower($2), $3)",
		attempt.Ip, attempt.Email, attempt.Success,
	)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

// CountRecentFailures counts failed attempts from ip within the trailing window.
func (s *Storage) CountRecentFailures(ip string, window time.Duration) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM login_attempts WHERE ip_address = $1 AND success = FALSE AND attempted_at > now() - ($2 * interval '1 second')",
		ip, window.Seconds(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count login failures: %w", err)
	}
	return count, nil
}

// PurgeAttemptsBefore deletes attempt rows older than cutoff. Maintenance
// only: the windowed count already ignores old rows.
func (s *Storage) PurgeAttemptsBefore(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec("DELETE FROM login_attempts WHERE attempted_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge login attempts: %w", err)
	}
	return result.RowsAffected()
}

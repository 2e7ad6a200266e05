package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
)

func (s *Storage) Setting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM site_settings WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", internal_errors.NotFound("Setting not found")
		}
		return "", fmt.Errorf("failed to query setting: %w", err)
	}
	return value, nil
}

func (s *Storage) AllSettings() (domain.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM site_settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := domain.Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// SetSetting writes a key, inserting or overwriting atomically.
func (s *Storage) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO site_settings(key, value) VALUES($1, $2)
         ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

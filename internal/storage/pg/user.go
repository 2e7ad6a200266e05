package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.UserStorage interface)
// =========================================================================

// SaveUser creates a new user record. A duplicate email surfaces as a 409.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// UserByEmail fetches a live (non-deleted) user by case-normalized email.
func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.user(s.db, "email = lower($1)", email)
}

// UserById fetches a live user by id.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.user(s.db, "id = $1", id)
}

// UpdatePassword replaces the password hash for a user.
func (s *Storage) UpdatePassword(id domain.UserId, passHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.execOne(tx,
			"UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL",
			"User not found", passHash, id)
	})
}

// UpdateProfile updates the display name.
func (s *Storage) UpdateProfile(id domain.UserId, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.execOne(tx,
			"UPDATE users SET name = $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL",
			"User not found", name, id)
	})
}

// SoftDeleteUser marks the account deleted; the row is kept but excluded
// from every lookup, so the user can no longer authenticate.
func (s *Storage) SoftDeleteUser(id domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.execOne(tx,
			"UPDATE users SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
			"User not found", id)
	})
}

// IncrementFailedLogins bumps the per-account failure counter and returns
// the new value so the caller can decide whether to lock.
func (s *Storage) IncrementFailedLogins(email domain.Email) (int, error) {
	var count int
	err := s.db.QueryRow(
		"UPDATE users SET failed_logins = failed_logins + 1, updated_at = now() WHERE email = lower($1) AND deleted_at IS NULL RETURNING failed_logins",
		email,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404, Kind: internal_errors.KindNotFound}
		}
		return 0, fmt.Errorf("failed to increment failed logins: %w", err)
	}
	return count, nil
}

// LockUser sets the lock-expiry timestamp.
func (s *Storage) LockUser(email domain.Email, until time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.execOne(tx,
			"UPDATE users SET locked_until = $1, updated_at = now() WHERE email = lower($2) AND deleted_at IS NULL",
			"User not found", until, email)
	})
}

// ResetLoginState clears the failure counter and any lock after a
// successful login.
func (s *Storage) ResetLoginState(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.execOne(tx,
			"UPDATE users SET failed_logins = 0, locked_until = NULL, updated_at = now() WHERE email = lower($1) AND deleted_at IS NULL",
			"User not found", email)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow(
		"INSERT INTO users(email, name, password_hash, role) VALUES(lower($1), $2, $3, $4) RETURNING id",
		user.Email, user.Name, user.PassHash, user.Role,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return -1, internal_errors.Conflict("Email already registered")
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, where string, arg any) (domain.User, error) {
	var user domain.User
	err := q.QueryRow(
		`SELECT id, email, name, password_hash, role, failed_logins, locked_until, deleted_at, created_at
         FROM users WHERE `+where+` AND deleted_at IS NULL`,
		arg,
	).Scan(&user.Id, &user.Email, &user.Name, &user.PassHash, &user.Role,
		&user.FailedLogins, &user.LockedUntil, &user.DeletedAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// execOne runs an UPDATE/DELETE expected to touch exactly one row; zero
// rows means the target does not exist (or is soft-deleted).
func (s *Storage) execOne(q Querier, query, notFoundMsg string, args ...any) error {
	result, err := q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound(notFoundMsg)
	}
	return nil
}

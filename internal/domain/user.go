package domain

import "time"

type (
	UserId = int64
	Email  = string
	Role   = string
)

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the credential-store record. DeletedAt is a soft-delete marker:
// a user with non-nil DeletedAt is invisible to lookups and cannot authenticate.
type User struct {
	Id           UserId
	Email        Email
	Name         string
	PassHash     string
	Role         Role
	FailedLogins int
	LockedUntil  *time.Time
	DeletedAt    *time.Time
	CreatedAt    time.Time
}

func (u *User) Admin() bool {
	return u.Role == RoleAdmin
}

// Locked reports whether the account lockout is still in effect at now.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

type Credentials struct {
	Email    Email
	Password string
}

// Identity is the authenticated principal attached to the request context.
// Subject is the local user id in decimal for self-issued sessions, or the
// provider uid for federated ones.
type Identity struct {
	Subject string `json:"id"`
	Email   Email  `json:"email"`
	Role    Role   `json:"role"`
	Name    string `json:"displayName,omitempty"`
}

func (i *Identity) Admin() bool {
	return i.Role == RoleAdmin
}

// LoginAttempt is an append-only event used in aggregate for brute-force
// throttling. Never mutated; purged after AttemptRetention.
type LoginAttempt struct {
	Ip          string
	Email       Email
	Success     bool
	AttemptedAt time.Time
}

const (
	// MaxFailures is the shared threshold for both throttling mechanisms:
	// failed attempts per IP in FailureWindow, and per-account failures
	// before lockout.
	MaxFailures     = 5
	FailureWindow   = 15 * time.Minute
	LockoutDuration = 15 * time.Minute

	AttemptRetention = 24 * time.Hour
)

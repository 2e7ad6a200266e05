package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/wayapps/waysite/internal/config"
	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type AuthService interface {
	Register(creds domain.Credentials, name string) (string, domain.Identity, error)
	Login(creds domain.Credentials, ip string) (string, domain.Identity, error)
	FederatedLogin(idToken, ip string) (string, domain.Identity, error)
	Refresh(identity domain.Identity) (string, error)
}

type Auth struct {
	storage   AuthStorage
	token     TokenIssuer
	federated FederatedVerifier
	cfg       *config.Config
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
	IncrementFailedLogins(email domain.Email) (int, error)
	LockUser(email domain.Email, until time.Time) error
	ResetLoginState(email domain.Email) error
	RecordAttempt(attempt domain.LoginAttempt) error
	CountRecentFailures(ip string, window time.Duration) (int, error)
}

type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

type FederatedVerifier interface {
	Verify(idToken string) (*domain.Identity, error)
}

func NewAuth(storage AuthStorage, token TokenIssuer, federated FederatedVerifier, cfg *config.Config) *Auth {
	return &Auth{
		storage:   storage,
		token:     token,
		federated: federated,
		cfg:       cfg,
	}
}

// Register creates a local account and logs it straight in.
// The admin allow-list decides the stored role, so a configured admin gets
// admin privileges from the first login.
func (a *Auth) Register(creds domain.Credentials, name string) (string, domain.Identity, error) {
	email := strings.ToLower(creds.Email)

	if err := checkPasswordPolicy(creds.Password); err != nil {
		return "", domain.Identity{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", domain.Identity{}, err
	}

	role := domain.RoleUser
	if a.isAdminEmail(email) {
		role = domain.RoleAdmin
	}

	id, err := a.storage.SaveUser(domain.User{Email: email, Name: name, PassHash: string(passHash), Role: role})
	if err != nil {
		return "", domain.Identity{}, err
	}

	identity := domain.Identity{Subject: strconv.FormatInt(id, 10), Email: email, Role: role, Name: name}
	token, err := a.token.Issue(identity)
	if err != nil {
		logger.Log.Error("failed to issue token", "user_id", id, "error", err)
		return "", domain.Identity{}, err
	}
	logger.Audit.Info("user registered", "user_id", id, "email", email, "role", role)
	return token, identity, nil
}

// Login authenticates local credentials, enforcing both brute-force
// mechanisms: a per-IP sliding-window throttle on failed attempts and a
// per-account lockout after repeated failures.
func (a *Auth) Login(creds domain.Credentials, ip string) (string, domain.Identity, error) {
	email := strings.ToLower(creds.Email)

	failures, err := a.storage.CountRecentFailures(ip, domain.FailureWindow)
	if err != nil {
		return "", domain.Identity{}, err
	}
	if failures >= domain.MaxFailures {
		logger.Audit.Warn("login throttled", "ip", ip, "email", email, "recent_failures", failures)
		return "", domain.Identity{}, internal_errors.RateLimited("Too many failed login attempts. Please try again later.")
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			// to not leak existing users
			a.recordFailure(ip, email)
			return "", domain.Identity{}, internal_errors.InvalidCredentials()
		}
		return "", domain.Identity{}, err
	}

	now := time.Now()
	if user.Locked(now) {
		logger.Audit.Warn("login on locked account", "ip", ip, "email", email)
		return "", domain.Identity{}, lockedError(*user.LockedUntil, now)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		a.recordFailure(ip, email)
		count, incErr := a.storage.IncrementFailedLogins(email)
		if incErr != nil {
			logger.Log.Error("failed to increment login failures", "email", email, "error", incErr)
		} else if count >= domain.MaxFailures {
			until := now.Add(domain.LockoutDuration).UTC()
			if lockErr := a.storage.LockUser(email, until); lockErr != nil {
				logger.Log.Error("failed to lock account", "email", email, "error", lockErr)
			} else {
				logger.Audit.Warn("account locked", "email", email, "failures", count, "until", until)
				return "", domain.Identity{}, lockedError(until, now)
			}
		}
		return "", domain.Identity{}, internal_errors.InvalidCredentials()
	}

	if rerr := a.storage.ResetLoginState(email); rerr != nil {
		logger.Log.Error("failed to reset login state", "email", email, "error", rerr)
	}
	if rerr := a.storage.RecordAttempt(domain.LoginAttempt{Ip: ip, Email: email, Success: true}); rerr != nil {
		logger.Log.Error("failed to record login attempt", "error", rerr)
	}

	identity := domain.Identity{Subject: strconv.FormatInt(user.Id, 10), Email: user.Email, Role: user.Role, Name: user.Name}
	token, err := a.token.Issue(identity)
	if err != nil {
		logger.Log.Error("failed to issue token", "user_id", user.Id, "error", err)
		return "", domain.Identity{}, err
	}
	logger.LoginAttempt(ip, email, true)
	return token, identity, nil
}

// FederatedLogin validates a provider-issued ID token and exchanges it for a
// self-issued session token. Provider tokens expire within the hour, so the
// session outliving them needs a local credential. Attempts count against the
// same per-IP throttle as password logins.
func (a *Auth) FederatedLogin(idToken, ip string) (string, domain.Identity, error) {
	if a.federated == nil {
		return "", domain.Identity{}, internal_errors.Forbidden("Federated sign-in is not enabled")
	}

	failures, err := a.storage.CountRecentFailures(ip, domain.FailureWindow)
	if err != nil {
		return "", domain.Identity{}, err
	}
	if failures >= domain.MaxFailures {
		logger.Audit.Warn("federated login throttled", "ip", ip, "recent_failures", failures)
		return "", domain.Identity{}, internal_errors.RateLimited("Too many failed login attempts. Please try again later.")
	}

	identity, err := a.federated.Verify(idToken)
	if err != nil {
		a.recordFailure(ip, "")
		return "", domain.Identity{}, err
	}
	if a.cfg.Public.AdminOnlyFederated && !identity.Admin() {
		logger.Audit.Warn("federated login rejected", "email", identity.Email)
		a.recordFailure(ip, identity.Email)
		return "", domain.Identity{}, internal_errors.Forbidden("Access denied")
	}

	token, err := a.token.Issue(*identity)
	if err != nil {
		logger.Log.Error("failed to issue token", "subject", identity.Subject, "error", err)
		return "", domain.Identity{}, err
	}

	if rerr := a.storage.RecordAttempt(domain.LoginAttempt{Ip: ip, Email: identity.Email, Success: true}); rerr != nil {
		logger.Log.Error("failed to record login attempt", "error", rerr)
	}
	logger.LoginAttempt(ip, identity.Email, true)
	logger.Audit.Info("federated login", "email", identity.Email, "role", identity.Role)
	return token, *identity, nil
}

// Refresh issues a fresh self-issued token for an already-authenticated
// session, restarting its lifetime.
func (a *Auth) Refresh(identity domain.Identity) (string, error) {
	return a.token.Issue(identity)
}

// recordFailure is best-effort: a throttle bookkeeping error must not mask
// the authentication failure the caller is about to return.
func (a *Auth) recordFailure(ip string, email domain.Email) {
	if err := a.storage.RecordAttempt(domain.LoginAttempt{Ip: ip, Email: email, Success: false}); err != nil {
		logger.Log.Error("failed to record login attempt", "error", err)
	}
	logger.LoginAttempt(ip, email, false)
}

func (a *Auth) isAdminEmail(email domain.Email) bool {
	for _, admin := range a.cfg.AdminEmails() {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

func lockedError(until, now time.Time) *internal_errors.ErrorWithStatusCode {
	minutes := int(until.Sub(now).Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return internal_errors.LockedUntil(
		fmt.Sprintf("Account temporarily locked. Try again in %d minute(s).", minutes), until.UTC())
}

// checkPasswordPolicy enforces the registration password rules: at least
// 8 characters with an upper-case letter, a lower-case letter and a digit.
func checkPasswordPolicy(password string) error {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if len(password) < 8 || !upper || !lower || !digit {
		return internal_errors.Validation("Password does not meet requirements", map[string]string{
			"password": "must be at least 8 characters with an upper-case letter, a lower-case letter and a digit",
		})
	}
	return nil
}

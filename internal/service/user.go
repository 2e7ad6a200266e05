package service

import (
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type UserService interface {
	Profile(identity domain.Identity) (domain.User, error)
	UpdateProfile(identity domain.Identity, name string) error
	ChangePassword(identity domain.Identity, current, next string) error
	DeleteAccount(identity domain.Identity, password string) error
	Reviews(identity domain.Identity, limit, offset int) ([]domain.Review, error)
	DeleteReview(identity domain.Identity, reviewId int64) error
}

type User struct {
	storage UserStorage
}

type UserStorage interface {
	UserById(id domain.UserId) (domain.User, error)
	UpdateProfile(id domain.UserId, name string) error
	UpdatePassword(id domain.UserId, passHash string) error
	SoftDeleteUser(id domain.UserId) error
	ReviewsByUser(userId domain.UserId, limit, offset int) ([]domain.Review, error)
	DeleteUserReview(id int64, userId domain.UserId) error
}

func NewUser(storage UserStorage) *User {
	return &User{storage: storage}
}

// localId resolves the identity's subject to a local user id. Federated
// subjects are provider uids, not row ids, so profile operations reject them.
func localId(identity domain.Identity) (domain.UserId, error) {
	id, err := strconv.ParseInt(identity.Subject, 10, 64)
	if err != nil {
		return 0, internal_errors.Forbidden("Profile operations require a local account")
	}
	return id, nil
}

func (u *User) Profile(identity domain.Identity) (domain.User, error) {
	id, err := localId(identity)
	if err != nil {
		return domain.User{}, err
	}
	return u.storage.UserById(id)
}

func (u *User) UpdateProfile(identity domain.Identity, name string) error {
	id, err := localId(identity)
	if err != nil {
		return err
	}
	return u.storage.UpdateProfile(id, name)
}

// ChangePassword requires the current password so a hijacked session cannot
// silently rotate credentials. The new password passes the same policy as
// registration.
func (u *User) ChangePassword(identity domain.Identity, current, next string) error {
	id, err := localId(identity)
	if err != nil {
		return err
	}
	user, err := u.storage.UserById(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(current)); err != nil {
		return internal_errors.Validation("Current password is incorrect", map[string]string{
			"currentPassword": "does not match",
		})
	}
	if err := checkPasswordPolicy(next); err != nil {
		return err
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	if err := u.storage.UpdatePassword(id, string(passHash)); err != nil {
		return err
	}
	logger.Audit.Info("password changed", "user_id", id)
	return nil
}

// DeleteAccount soft-deletes after re-authenticating with the password.
func (u *User) DeleteAccount(identity domain.Identity, password string) error {
	id, err := localId(identity)
	if err != nil {
		return err
	}
	user, err := u.storage.UserById(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return internal_errors.Validation("Password is incorrect", map[string]string{
			"password": "does not match",
		})
	}
	if err := u.storage.SoftDeleteUser(id); err != nil {
		return err
	}
	logger.Audit.Info("account deleted", "user_id", id, "email", user.Email)
	return nil
}

func (u *User) Reviews(identity domain.Identity, limit, offset int) ([]domain.Review, error) {
	id, err := localId(identity)
	if err != nil {
		return nil, err
	}
	return u.storage.ReviewsByUser(id, clampLimit(limit), offset)
}

func (u *User) DeleteReview(identity domain.Identity, reviewId int64) error {
	id, err := localId(identity)
	if err != nil {
		return err
	}
	return u.storage.DeleteUserReview(reviewId, id)
}

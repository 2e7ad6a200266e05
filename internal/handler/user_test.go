package handler

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/middleware"
)

type MockUserService struct {
	MockProfile        func(identity domain.Identity) (domain.User, error)
	MockUpdateProfile  func(identity domain.Identity, name string) error
	MockChangePassword func(identity domain.Identity, current, next string) error
	MockDeleteAccount  func(identity domain.Identity, password string) error
	MockReviews        func(identity domain.Identity, limit, offset int) ([]domain.Review, error)
	MockDeleteReview   func(identity domain.Identity, reviewId int64) error
}

func (m *MockUserService) Profile(identity domain.Identity) (domain.User, error) {
	if m.MockProfile != nil {
		return m.MockProfile(identity)
	}
	return domain.User{Id: 1, Email: identity.Email, Name: "Test", Role: identity.Role}, nil
}

func (m *MockUserService) UpdateProfile(identity domain.Identity, name string) error {
	if m.MockUpdateProfile != nil {
		return m.MockUpdateProfile(identity, name)
	}
	return nil
}

func (m *MockUserService) ChangePassword(identity domain.Identity, current, next string) error {
	if m.MockChangePassword != nil {
		return m.MockChangePassword(identity, current, next)
	}
	return nil
}

func (m *MockUserService) DeleteAccount(identity domain.Identity, password string) error {
	if m.MockDeleteAccount != nil {
		return m.MockDeleteAccount(identity, password)
	}
	return nil
}

func (m *MockUserService) Reviews(identity domain.Identity, limit, offset int) ([]domain.Review, error) {
	if m.MockReviews != nil {
		return m.MockReviews(identity, limit, offset)
	}
	return []domain.Review{}, nil
}

func (m *MockUserService) DeleteReview(identity domain.Identity, reviewId int64) error {
	if m.MockDeleteReview != nil {
		return m.MockDeleteReview(identity, reviewId)
	}
	return nil
}

var userIdentity = domain.Identity{Subject: "7", Email: "user@example.com", Role: domain.RoleUser}

func TestProfileHandler(t *testing.T) {
	h := &Handler{cfg: testConfig(), users: &MockUserService{}}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/user/profile", withIdentityForTest(h.Profile, userIdentity)).Methods("GET")

	rr := serve(router, createRequest(t, http.MethodGet, "/api/v1/user/profile", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":1,"email":"user@example.com","displayName":"Test","role":"user"}`, rr.Body.String())
}

func TestChangePasswordHandler(t *testing.T) {
	router := mux.NewRouter()

	t.Run("successful request", func(t *testing.T) {
		h := &Handler{cfg: testConfig(), users: &MockUserService{
			MockChangePassword: func(identity domain.Identity, current, next string) error {
				assert.Equal(t, "Password1", current)
				assert.Equal(t, "NewPassword2", next)
				return nil
			},
		}}
		router.HandleFunc("/api/v1/user/password", withIdentityForTest(h.ChangePassword, userIdentity)).Methods("PUT")

		body := []byte(`{"currentPassword": "Password1", "newPassword": "NewPassword2"}`)
		rr := serve(router, createRequest(t, http.MethodPut, "/api/v1/user/password", body))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		h := &Handler{cfg: testConfig(), users: &MockUserService{
			MockChangePassword: func(identity domain.Identity, current, next string) error {
				return internal_errors.Validation("Current password is incorrect", nil)
			},
		}}
		r2 := mux.NewRouter()
		r2.HandleFunc("/api/v1/user/password", withIdentityForTest(h.ChangePassword, userIdentity)).Methods("PUT")

		body := []byte(`{"currentPassword": "wrong", "newPassword": "NewPassword2"}`)
		rr := serve(r2, createRequest(t, http.MethodPut, "/api/v1/user/password", body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteAccountHandler(t *testing.T) {
	h := &Handler{cfg: testConfig(), users: &MockUserService{}}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/user/account", withIdentityForTest(h.DeleteAccount, userIdentity)).Methods("DELETE")

	body := []byte(`{"password": "Password1"}`)
	rr := serve(router, createRequest(t, http.MethodDelete, "/api/v1/user/account", body))

	assert.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1, "session cookie cleared")
	assert.Equal(t, middleware.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestMeHandler(t *testing.T) {
	h := &Handler{cfg: testConfig()}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/auth/me", withIdentityForTest(h.Me, userIdentity)).Methods("GET")

	rr := serve(router, createRequest(t, http.MethodGet, "/api/v1/auth/me", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user":{"id":"7","email":"user@example.com","role":"user"}}`, rr.Body.String())
}

func TestRefreshHandler(t *testing.T) {
	h := &Handler{cfg: testConfig(), auth: &MockAuthService{}}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/auth/refresh", withIdentityForTest(h.Refresh, userIdentity)).Methods("POST")

	rr := serve(router, createRequest(t, http.MethodPost, "/api/v1/auth/refresh", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "fresh-token", cookies[0].Value)
	assert.Contains(t, rr.Body.String(), `"token":"fresh-token"`)
}

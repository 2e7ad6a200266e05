package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/middleware"
	"github.com/wayapps/waysite/internal/web"
)

type profileResponse struct {
	Id    domain.UserId `json:"id"`
	Email domain.Email  `json:"email"`
	Name  string        `json:"displayName"`
	Role  domain.Role   `json:"role"`
}

type updateProfileRequest struct {
	Name string `validate:"required,max=100" json:"name"`
}

type changePasswordRequest struct {
	CurrentPassword string `validate:"required" json:"currentPassword"`
	NewPassword     string `validate:"required" json:"newPassword"`
}

type deleteAccountRequest struct {
	Password string `validate:"required" json:"password"`
}

// requireIdentity is for handlers behind RequireAuth; a nil identity there
// means the router is miswired.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity := middleware.IdentityFromContext(r)
	if identity == nil {
		web.WriteError(w, internal_errors.AuthMissing())
		return domain.Identity{}, false
	}
	return *identity, true
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.users.Profile(identity)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, profileResponse{Id: user.Id, Email: user.Email, Name: user.Name, Role: user.Role})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.users.UpdateProfile(identity, req.Name); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.users.ChangePassword(identity, req.CurrentPassword, req.NewPassword); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteAccount soft-deletes the account and ends the session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req deleteAccountRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.users.DeleteAccount(identity, req.Password); err != nil {
		web.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     middleware.CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) MyReviews(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	reviews, err := h.users.Reviews(identity, limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, reviews)
}

func (h *Handler) MyInquiries(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	inquiries, err := h.contacts.ForEmail(identity.Email, limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, inquiries)
}

func (h *Handler) DeleteMyReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.users.DeleteReview(identity, id); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

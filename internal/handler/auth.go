package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/middleware"
	"github.com/wayapps/waysite/internal/web"
)

type registerRequest struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required" json:"password"`
	Name     string `validate:"max=100" json:"name"`
}

type credentialsRequest struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required" json:"password"`
}

type federatedRequest struct {
	IdToken string `validate:"required" json:"idToken"`
}

// sessionResponse carries the token in the body too, for clients that send
// it back as an Authorization bearer instead of relying on the cookie.
type sessionResponse struct {
	User  domain.Identity `json:"user"`
	Token string          `json:"token,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	token, identity, err := h.auth.Register(domain.Credentials{Email: req.Email, Password: req.Password}, req.Name)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	web.WriteJSON(w, http.StatusCreated, sessionResponse{User: identity, Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	token, identity, err := h.auth.Login(domain.Credentials{Email: req.Email, Password: req.Password}, h.clientIP(r))
	if err != nil {
		web.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	web.WriteJSON(w, http.StatusOK, sessionResponse{User: identity, Token: token})
}

// GoogleLogin exchanges a verified provider ID token for a self-issued
// session token.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req federatedRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	token, identity, err := h.auth.FederatedLogin(req.IdToken, h.clientIP(r))
	if err != nil {
		web.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	web.WriteJSON(w, http.StatusOK, sessionResponse{User: identity, Token: token})
}

// Me reports the authenticated principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r)
	if identity == nil {
		web.WriteError(w, internal_errors.AuthMissing())
		return
	}
	web.WriteJSON(w, http.StatusOK, sessionResponse{User: *identity})
}

// Refresh swaps the current session for a freshly-issued token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r)
	if identity == nil {
		web.WriteError(w, internal_errors.AuthMissing())
		return
	}

	token, err := h.auth.Refresh(*identity)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	web.WriteJSON(w, http.StatusOK, sessionResponse{User: *identity, Token: token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     middleware.CookieName,
		Value:    token,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

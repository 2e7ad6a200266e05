package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/web"
)

// PublicSettings exposes the site settings consumed by the landing page.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All()
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, settings)
}

// Apps reports the release state of the app catalogue.
func (h *Handler) Apps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.settings.Apps()
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, apps)
}

// --- Admin ---

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var changes domain.Settings
	if err := web.DecodeValidate(r.Body, &changes); err != nil {
		web.WriteError(w, err)
		return
	}
	if len(changes) == 0 {
		web.WriteError(w, internal_errors.Validation("No settings provided", nil))
		return
	}

	if err := h.settings.Update(identity, changes); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type releasedAppsRequest struct {
	Released []string `validate:"required" json:"released"`
}

func (h *Handler) SetApps(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req releasedAppsRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.settings.SetApps(identity, req.Released); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

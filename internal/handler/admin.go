package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/web"
)

// Dashboard aggregates the admin console summary numbers.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.stats.Dashboard()
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, dashboard)
}

type trackRequest struct {
	Page string `validate:"required,max=200" json:"page"`
}

// TrackVisit records a page view. Always 204: analytics never fail a client.
func (h *Handler) TrackVisit(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	h.stats.Track(req.Page, h.clientIP(r), r.UserAgent())
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/web"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(); err != nil {
			web.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
			return
		}
	}
	web.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

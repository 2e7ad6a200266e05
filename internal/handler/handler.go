package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wayapps/waysite/internal/config"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/service"
	"github.com/wayapps/waysite/internal/web"
)

type Handler struct {
	auth          service.AuthService
	users         service.UserService
	reviews       service.ReviewService
	blog          service.BlogService
	contacts      service.ContactService
	announcements service.AnnouncementService
	settings      service.SettingsService
	stats         service.StatsService
	cfg           *config.Config
	health        func() error
}

func New(
	auth service.AuthService,
	users service.UserService,
	reviews service.ReviewService,
	blog service.BlogService,
	contacts service.ContactService,
	announcements service.AnnouncementService,
	settings service.SettingsService,
	stats service.StatsService,
	cfg *config.Config,
	health func() error,
) *Handler {
	return &Handler{auth, users, reviews, blog, contacts, announcements, settings, stats, cfg, health}
}

// pathId parses the {id} route variable.
func pathId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, internal_errors.Validation("Invalid id", map[string]string{"id": "must be an integer"})
	}
	return id, nil
}

// pagination reads limit/offset query parameters; services clamp the values.
func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func (h *Handler) clientIP(r *http.Request) string {
	return web.ClientIP(r, h.cfg.Public.TrustedProxy)
}

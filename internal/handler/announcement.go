package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/domain"
	"github.com/wayapps/waysite/internal/web"
)

func (h *Handler) PublishedAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	announcements, err := h.announcements.Published(r.URL.Query().Get("type"), limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, announcements)
}

// --- Admin ---

type announcementRequest struct {
	Type      string `validate:"required,oneof=new_app update announcement" json:"type"`
	Title     string `validate:"required,max=200" json:"title"`
	Content   string `validate:"required,max=2000" json:"content"`
	Published bool   `json:"published"`
}

func (h *Handler) AdminAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	announcements, err := h.announcements.All(limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, announcements)
}

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req announcementRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	id, err := h.announcements.Create(identity, domain.Announcement{
		Type: req.Type, Title: req.Title, Content: req.Content, Published: req.Published,
	})
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, idResponse{Id: id})
}

func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	var req announcementRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	err = h.announcements.Update(identity, domain.Announcement{
		Id: id, Type: req.Type, Title: req.Title, Content: req.Content, Published: req.Published,
	})
	if err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.announcements.Delete(identity, id); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

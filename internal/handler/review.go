package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/domain"
	"github.com/wayapps/waysite/internal/middleware"
	"github.com/wayapps/waysite/internal/web"
)

type submitReviewRequest struct {
	AuthorName string `validate:"required,max=100" json:"authorName"`
	Email      string `validate:"omitempty,email" json:"email"`
	Rating     int    `validate:"gte=1,lte=5" json:"rating"`
	Content    string `validate:"required,max=2000" json:"content"`
}

type idResponse struct {
	Id int64 `json:"id"`
}

// SubmitReview accepts public review submissions; a signed-in caller gets
// the review linked to their account.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	review := domain.Review{AuthorName: req.AuthorName, Email: req.Email, Rating: req.Rating, Content: req.Content}
	id, err := h.reviews.Submit(review, middleware.IdentityFromContext(r), h.clientIP(r))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, idResponse{Id: id})
}

func (h *Handler) ApprovedReviews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	reviews, err := h.reviews.Approved(limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, reviews)
}

func (h *Handler) ApprovedReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	review, err := h.reviews.ApprovedById(id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, review)
}

func (h *Handler) ReviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviews.Stats()
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, stats)
}

// --- Admin ---

func (h *Handler) AdminReviews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	reviews, err := h.reviews.All(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, reviews)
}

type reviewStatusRequest struct {
	Status string `validate:"required" json:"status"`
}

func (h *Handler) SetReviewStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	var req reviewStatusRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.reviews.SetStatus(identity, id, req.Status); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.reviews.Delete(identity, id); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

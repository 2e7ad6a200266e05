package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wayapps/waysite/internal/domain"
	"github.com/wayapps/waysite/internal/web"
)

func (h *Handler) PublishedPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	posts, err := h.blog.Published(r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) PostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.PublishedBySlug(mux.Vars(r)["slug"])
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.blog.Categories()
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, categories)
}

// --- Admin ---

type postRequest struct {
	Title    string `validate:"required,max=200" json:"title"`
	Slug     string `validate:"omitempty,max=200" json:"slug"`
	Content  string `validate:"required" json:"content"`
	Excerpt  string `validate:"max=500" json:"excerpt"`
	Category string `validate:"max=50" json:"category"`
	Status   string `validate:"required,oneof=draft published" json:"status"`
}

func (h *Handler) AdminPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	posts, err := h.blog.All(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) AdminPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	post, err := h.blog.ById(id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	id, err := h.blog.Create(identity, domain.BlogPost{
		Title: req.Title, Slug: req.Slug, Content: req.Content,
		Excerpt: req.Excerpt, Category: req.Category, Status: req.Status,
	})
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, idResponse{Id: id})
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	var req postRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	err = h.blog.Update(identity, domain.BlogPost{
		Id: id, Title: req.Title, Slug: req.Slug, Content: req.Content,
		Excerpt: req.Excerpt, Category: req.Category, Status: req.Status,
	})
	if err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.blog.Delete(identity, id); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

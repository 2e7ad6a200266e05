package handler

import (
	"net/http"

	"github.com/wayapps/waysite/internal/domain"
	"github.com/wayapps/waysite/internal/web"
)

type contactRequest struct {
	Name    string `validate:"required,max=100" json:"name"`
	Email   string `validate:"required,email" json:"email"`
	Subject string `validate:"max=200" json:"subject"`
	Message string `validate:"required,max=5000" json:"message"`
}

func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	submission := domain.ContactSubmission{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message}
	id, err := h.contacts.Submit(submission, h.clientIP(r))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, idResponse{Id: id})
}

type contactInfoResponse struct {
	Email        string `json:"email"`
	AppStoreUrl  string `json:"appStoreUrl,omitempty"`
	PlayStoreUrl string `json:"playStoreUrl,omitempty"`
}

// ContactInfo exposes the contact details the admin maintains in site settings.
func (h *Handler) ContactInfo(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All()
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, contactInfoResponse{
		Email:        settings["contact_email"],
		AppStoreUrl:  settings["app_store_url"],
		PlayStoreUrl: settings["play_store_url"],
	})
}

// --- Admin ---

func (h *Handler) AdminContacts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	contacts, err := h.contacts.All(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, contacts)
}

type contactStatusRequest struct {
	Status string `validate:"required" json:"status"`
}

func (h *Handler) SetContactStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	var req contactStatusRequest
	if err := web.DecodeValidate(r.Body, &req); err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.contacts.SetStatus(identity, id, req.Status); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if err := h.contacts.Delete(identity, id); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

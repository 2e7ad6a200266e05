package service

import (
	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type ContactService interface {
	Submit(submission domain.ContactSubmission, ip string) (int64, error)
	All(status string, limit, offset int) ([]domain.ContactSubmission, error)
	ForEmail(email domain.Email, limit, offset int) ([]domain.ContactSubmission, error)
	SetStatus(actor domain.Identity, id int64, status string) error
	Delete(actor domain.Identity, id int64) error
}

type Contact struct {
	storage ContactStorage
}

type ContactStorage interface {
	SaveContact(c domain.ContactSubmission) (int64, error)
	Contacts(status string, limit, offset int) ([]domain.ContactSubmission, error)
	ContactsByEmail(email domain.Email, limit, offset int) ([]domain.ContactSubmission, error)
	UpdateContactStatus(id int64, status string) error
	DeleteContact(id int64) error
}

func NewContact(storage ContactStorage) *Contact {
	return &Contact{storage: storage}
}

func (c *Contact) Submit(submission domain.ContactSubmission, ip string) (int64, error) {
	submission.Status = domain.ContactUnread
	submission.Ip = ip
	return c.storage.SaveContact(submission)
}

func (c *Contact) All(status string, limit, offset int) ([]domain.ContactSubmission, error) {
	if status != "" && !validContactStatus(status) {
		return nil, internal_errors.Validation("Unknown submission status", map[string]string{"status": "must be unread, read or replied"})
	}
	return c.storage.Contacts(status, clampLimit(limit), clampOffset(offset))
}

// ForEmail lists a user's own inquiries.
func (c *Contact) ForEmail(email domain.Email, limit, offset int) ([]domain.ContactSubmission, error) {
	return c.storage.ContactsByEmail(email, clampLimit(limit), clampOffset(offset))
}

func (c *Contact) SetStatus(actor domain.Identity, id int64, status string) error {
	if !validContactStatus(status) {
		return internal_errors.Validation("Unknown submission status", map[string]string{"status": "must be unread, read or replied"})
	}
	if err := c.storage.UpdateContactStatus(id, status); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "contact status", "submission_id", id, "status", status)
	return nil
}

func (c *Contact) Delete(actor domain.Identity, id int64) error {
	if err := c.storage.DeleteContact(id); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "contact deleted", "submission_id", id)
	return nil
}

func validContactStatus(status string) bool {
	return status == domain.ContactUnread || status == domain.ContactRead || status == domain.ContactReplied
}

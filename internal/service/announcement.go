package service

import (
	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type AnnouncementService interface {
	Published(announcementType string, limit, offset int) ([]domain.Announcement, error)
	All(limit, offset int) ([]domain.Announcement, error)
	Create(actor domain.Identity, a domain.Announcement) (int64, error)
	Update(actor domain.Identity, a domain.Announcement) error
	Delete(actor domain.Identity, id int64) error
}

type Announcement struct {
	storage AnnouncementStorage
}

type AnnouncementStorage interface {
	SaveAnnouncement(a domain.Announcement) (int64, error)
	PublishedAnnouncements(announcementType string, limit, offset int) ([]domain.Announcement, error)
	Announcements(limit, offset int) ([]domain.Announcement, error)
	UpdateAnnouncement(a domain.Announcement) error
	DeleteAnnouncement(id int64) error
}

func NewAnnouncement(storage AnnouncementStorage) *Announcement {
	return &Announcement{storage: storage}
}

func (s *Announcement) Published(announcementType string, limit, offset int) ([]domain.Announcement, error) {
	if announcementType != "" && !validAnnouncementType(announcementType) {
		return nil, internal_errors.Validation("Unknown announcement type", map[string]string{"type": "must be new_app, update or announcement"})
	}
	return s.storage.PublishedAnnouncements(announcementType, clampLimit(limit), clampOffset(offset))
}

func (s *Announcement) All(limit, offset int) ([]domain.Announcement, error) {
	return s.storage.Announcements(clampLimit(limit), clampOffset(offset))
}

func (s *Announcement) Create(actor domain.Identity, a domain.Announcement) (int64, error) {
	if !validAnnouncementType(a.Type) {
		return -1, internal_errors.Validation("Unknown announcement type", map[string]string{"type": "must be new_app, update or announcement"})
	}
	id, err := s.storage.SaveAnnouncement(a)
	if err != nil {
		return -1, err
	}
	logger.AdminAction(actor.Email, "announcement created", "announcement_id", id)
	return id, nil
}

func (s *Announcement) Update(actor domain.Identity, a domain.Announcement) error {
	if !validAnnouncementType(a.Type) {
		return internal_errors.Validation("Unknown announcement type", map[string]string{"type": "must be new_app, update or announcement"})
	}
	if err := s.storage.UpdateAnnouncement(a); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "announcement updated", "announcement_id", a.Id)
	return nil
}

func (s *Announcement) Delete(actor domain.Identity, id int64) error {
	if err := s.storage.DeleteAnnouncement(id); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "announcement deleted", "announcement_id", id)
	return nil
}

func validAnnouncementType(t string) bool {
	return t == domain.AnnouncementNewApp || t == domain.AnnouncementUpdate || t == domain.AnnouncementGeneral
}

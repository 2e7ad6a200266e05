package service

import (
	"github.com/wayapps/waysite/internal/domain"
	"github.com/wayapps/waysite/internal/logger"
)

// dashboardDays is the trailing window the admin dashboard reports on.
const dashboardDays = 30

type StatsService interface {
	Track(page, ip, userAgent string)
	Dashboard() (domain.Dashboard, error)
}

type Stats struct {
	storage StatsStorage
}

type StatsStorage interface {
	RecordVisit(page, ip, userAgent string) error
	VisitorStats(days int) (domain.VisitorStats, error)
	PageViews(days int) ([]domain.PageViews, error)
	ReviewStats() (domain.ReviewStats, error)
	BlogStats() (domain.BlogStats, error)
	UnreadContacts() (int, error)
}

func NewStats(storage StatsStorage) *Stats {
	return &Stats{storage: storage}
}

// Track is fire-and-forget: analytics must never fail a page load.
func (s *Stats) Track(page, ip, userAgent string) {
	if err := s.storage.RecordVisit(page, ip, userAgent); err != nil {
		logger.Log.Error("failed to record visit", "page", page, "error", err)
	}
}

func (s *Stats) Dashboard() (domain.Dashboard, error) {
	reviews, err := s.storage.ReviewStats()
	if err != nil {
		return domain.Dashboard{}, err
	}
	blog, err := s.storage.BlogStats()
	if err != nil {
		return domain.Dashboard{}, err
	}
	unread, err := s.storage.UnreadContacts()
	if err != nil {
		return domain.Dashboard{}, err
	}
	visitors, err := s.storage.VisitorStats(dashboardDays)
	if err != nil {
		return domain.Dashboard{}, err
	}
	pages, err := s.storage.PageViews(dashboardDays)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return domain.Dashboard{
		Reviews:        reviews,
		Blog:           blog,
		UnreadContacts: unread,
		Visitors:       visitors,
		TopPages:       pages,
	}, nil
}

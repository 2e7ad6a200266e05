package pg

import (
	"fmt"

	"github.com/wayapps/waysite/internal/domain"
)

// RecordVisit appends a page-view row. Best-effort analytics, callers may
// ignore the error.
func (s *Storage) RecordVisit(page, ip, userAgent string) error {
	_, err := s.db.Exec(
		"INSERT INTO visitor_stats(page, ip_address, user_agent) VALUES($1, $2, $3)",
		page, ip, userAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// VisitorStats aggregates the trailing N days of traffic.
func (s *Storage) VisitorStats(days int) (domain.VisitorStats, error) {
	var stats domain.VisitorStats
	err := s.db.QueryRow(
		`SELECT COUNT(DISTINCT ip_address), COUNT(*)
         FROM visitor_stats WHERE visited_at > now() - ($1 * interval '1 day')`,
		days,
	).Scan(&stats.UniqueVisitors, &stats.TotalVisits)
	if err != nil {
		return domain.VisitorStats{}, fmt.Errorf("failed to query visitor stats: %w", err)
	}
	return stats, nil
}

// PageViews returns per-page view counts for the trailing N days,
// most-viewed first.
func (s *Storage) PageViews(days int) ([]domain.PageViews, error) {
	rows, err := s.db.Query(
		`SELECT page, COUNT(*) FROM visitor_stats
         WHERE visited_at > now() - ($1 * interval '1 day')
         GROUP BY page ORDER BY COUNT(*) DESC`,
		days,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query page views: %w", err)
	}
	defer rows.Close()

	views := []domain.PageViews{}
	for rows.Next() {
		var pv domain.PageViews
		if err := rows.Scan(&pv.Page, &pv.Views); err != nil {
			return nil, fmt.Errorf("failed to scan page views: %w", err)
		}
		views = append(views, pv)
	}
	return views, rows.Err()
}

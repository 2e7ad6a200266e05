package service

import (
	"strconv"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type ReviewService interface {
	Submit(review domain.Review, identity *domain.Identity, ip string) (int64, error)
	Approved(limit, offset int) ([]domain.Review, error)
	ApprovedById(id int64) (domain.Review, error)
	All(status string, limit, offset int) ([]domain.Review, error)
	SetStatus(actor domain.Identity, id int64, status string) error
	Delete(actor domain.Identity, id int64) error
	Stats() (domain.ReviewStats, error)
}

type Review struct {
	storage ReviewStorage
}

type ReviewStorage interface {
	SaveReview(review domain.Review) (int64, error)
	Reviews(status string, limit, offset int) ([]domain.Review, error)
	ReviewById(id int64) (domain.Review, error)
	UpdateReviewStatus(id int64, status string) error
	DeleteReview(id int64) error
	ReviewStats() (domain.ReviewStats, error)
}

func NewReview(storage ReviewStorage) *Review {
	return &Review{storage: storage}
}

// Submit stores a review in pending state. A logged-in submitter gets the
// review attached to their account; anonymous submissions are allowed.
func (r *Review) Submit(review domain.Review, identity *domain.Identity, ip string) (int64, error) {
	review.Status = domain.ReviewPending
	review.Ip = ip
	review.UserId = nil
	if identity != nil {
		if id, err := strconv.ParseInt(identity.Subject, 10, 64); err == nil {
			review.UserId = &id
		}
		if review.Email == "" {
			review.Email = identity.Email
		}
	}
	return r.storage.SaveReview(review)
}

// Approved is the public listing. Submitter emails stay private.
func (r *Review) Approved(limit, offset int) ([]domain.Review, error) {
	reviews, err := r.storage.Reviews(domain.ReviewApproved, clampLimit(limit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].Email = ""
		reviews[i].Status = ""
	}
	return reviews, nil
}

// ApprovedById fetches a single review for the public site. Reviews still in
// moderation look like missing ones to outside callers.
func (r *Review) ApprovedById(id int64) (domain.Review, error) {
	review, err := r.storage.ReviewById(id)
	if err != nil {
		return domain.Review{}, err
	}
	if review.Status != domain.ReviewApproved {
		return domain.Review{}, internal_errors.NotFound("Review not found")
	}
	review.Email = ""
	review.Status = ""
	return review, nil
}

func (r *Review) All(status string, limit, offset int) ([]domain.Review, error) {
	if status != "" && !validReviewStatus(status) {
		return nil, internal_errors.Validation("Unknown review status", map[string]string{"status": "must be pending, approved or rejected"})
	}
	return r.storage.Reviews(status, clampLimit(limit), clampOffset(offset))
}

func (r *Review) SetStatus(actor domain.Identity, id int64, status string) error {
	if !validReviewStatus(status) {
		return internal_errors.Validation("Unknown review status", map[string]string{"status": "must be pending, approved or rejected"})
	}
	if err := r.storage.UpdateReviewStatus(id, status); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "review status", "review_id", id, "status", status)
	return nil
}

func (r *Review) Delete(actor domain.Identity, id int64) error {
	if err := r.storage.DeleteReview(id); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "review deleted", "review_id", id)
	return nil
}

func (r *Review) Stats() (domain.ReviewStats, error) {
	return r.storage.ReviewStats()
}

func validReviewStatus(status string) bool {
	return status == domain.ReviewPending || status == domain.ReviewApproved || status == domain.ReviewRejected
}

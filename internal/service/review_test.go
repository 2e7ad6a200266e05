package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayapps/waysite/internal/domain"
)

type MockReviewStorage struct {
	SaveReviewFunc         func(review domain.Review) (int64, error)
	ReviewsFunc            func(status string, limit, offset int) ([]domain.Review, error)
	ReviewByIdFunc         func(id int64) (domain.Review, error)
	UpdateReviewStatusFunc func(id int64, status string) error
	DeleteReviewFunc       func(id int64) error
	ReviewStatsFunc        func() (domain.ReviewStats, error)
}

func (m *MockReviewStorage) SaveReview(review domain.Review) (int64, error) {
	if m.SaveReviewFunc != nil {
		return m.SaveReviewFunc(review)
	}
	return 1, nil
}

func (m *MockReviewStorage) Reviews(status string, limit, offset int) ([]domain.Review, error) {
	if m.ReviewsFunc != nil {
		return m.ReviewsFunc(status, limit, offset)
	}
	return []domain.Review{}, nil
}

func (m *MockReviewStorage) ReviewById(id int64) (domain.Review, error) {
	if m.ReviewByIdFunc != nil {
		return m.ReviewByIdFunc(id)
	}
	return domain.Review{Id: id, Status: domain.ReviewApproved}, nil
}

func (m *MockReviewStorage) UpdateReviewStatus(id int64, status string) error {
	if m.UpdateReviewStatusFunc != nil {
		return m.UpdateReviewStatusFunc(id, status)
	}
	return nil
}

func (m *MockReviewStorage) DeleteReview(id int64) error {
	if m.DeleteReviewFunc != nil {
		return m.DeleteReviewFunc(id)
	}
	return nil
}

func (m *MockReviewStorage) ReviewStats() (domain.ReviewStats, error) {
	if m.ReviewStatsFunc != nil {
		return m.ReviewStatsFunc()
	}
	return domain.ReviewStats{}, nil
}

func TestSubmitReview(t *testing.T) {
	var saved domain.Review
	svc := NewReview(&MockReviewStorage{
		SaveReviewFunc: func(review domain.Review) (int64, error) {
			saved = review
			return 9, nil
		},
	})

	id, err := svc.Submit(domain.Review{AuthorName: "Alice", Rating: 5, Content: "Nice", Status: "approved"},
		&localIdentity, "203.0.113.1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, domain.ReviewPending, saved.Status, "client-supplied status is ignored")
	assert.Equal(t, "203.0.113.1", saved.Ip)
	require.NotNil(t, saved.UserId)
	assert.Equal(t, domain.UserId(7), *saved.UserId)
	assert.Equal(t, localIdentity.Email, saved.Email, "email inherited from the session")
}

func TestSubmitReviewAnonymous(t *testing.T) {
	var saved domain.Review
	svc := NewReview(&MockReviewStorage{
		SaveReviewFunc: func(review domain.Review) (int64, error) {
			saved = review
			return 9, nil
		},
	})

	_, err := svc.Submit(domain.Review{AuthorName: "Anon", Rating: 3, Content: "ok"}, nil, "203.0.113.1")
	require.NoError(t, err)
	assert.Nil(t, saved.UserId)
}

func TestSubmitReviewFederatedIdentity(t *testing.T) {
	var saved domain.Review
	svc := NewReview(&MockReviewStorage{
		SaveReviewFunc: func(review domain.Review) (int64, error) {
			saved = review
			return 9, nil
		},
	})

	// A federated subject is not a local row id, so no ownership link.
	_, err := svc.Submit(domain.Review{AuthorName: "Fed", Rating: 4, Content: "ok"}, &federatedIdentity, "203.0.113.1")
	require.NoError(t, err)
	assert.Nil(t, saved.UserId)
}

func TestApprovedHidesPrivateFields(t *testing.T) {
	svc := NewReview(&MockReviewStorage{
		ReviewsFunc: func(status string, limit, offset int) ([]domain.Review, error) {
			assert.Equal(t, domain.ReviewApproved, status)
			return []domain.Review{{Id: 1, Email: "private@example.com", Status: domain.ReviewApproved}}, nil
		},
	})

	reviews, err := svc.Approved(10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Empty(t, reviews[0].Email)
	assert.Empty(t, reviews[0].Status)
}

func TestApprovedByIdHidesPending(t *testing.T) {
	svc := NewReview(&MockReviewStorage{
		ReviewByIdFunc: func(id int64) (domain.Review, error) {
			return domain.Review{Id: id, Status: domain.ReviewPending, Email: "private@example.com"}, nil
		},
	})

	_, err := svc.ApprovedById(3)
	requireStatus(t, err, 404)
}

func TestApprovedByIdStripsEmail(t *testing.T) {
	svc := NewReview(&MockReviewStorage{
		ReviewByIdFunc: func(id int64) (domain.Review, error) {
			return domain.Review{Id: id, Status: domain.ReviewApproved, Email: "private@example.com"}, nil
		},
	})

	review, err := svc.ApprovedById(3)
	require.NoError(t, err)
	assert.Empty(t, review.Email)
	assert.Empty(t, review.Status)
}

func TestSetReviewStatus(t *testing.T) {
	svc := NewReview(&MockReviewStorage{})

	require.NoError(t, svc.SetStatus(adminIdentity, 1, domain.ReviewApproved))
	requireStatus(t, svc.SetStatus(adminIdentity, 1, "bogus"), 400)
}

func TestAllReviewsBadStatus(t *testing.T) {
	svc := NewReview(&MockReviewStorage{})
	_, err := svc.All("bogus", 10, 0)
	requireStatus(t, err, 400)
}

var adminIdentity = domain.Identity{Subject: "1", Email: "admin@example.com", Role: domain.RoleAdmin}

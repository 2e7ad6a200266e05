package handler

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
)

func TestSubmitReviewHandler(t *testing.T) {
	h := &Handler{cfg: testConfig()}

	route := "/api/v1/reviews"
	router := mux.NewRouter()
	router.HandleFunc(route, h.SubmitReview).Methods("POST")

	t.Run("successful request", func(t *testing.T) {
		var submitted domain.Review
		h.reviews = &MockReviewService{
			MockSubmit: func(review domain.Review, identity *domain.Identity, ip string) (int64, error) {
				submitted = review
				assert.Nil(t, identity, "no session on this request")
				return 7, nil
			},
		}

		body := []byte(`{"authorName": "Alice", "rating": 5, "content": "Great"}`)
		rr := serve(router, createRequest(t, http.MethodPost, route, body))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":7}`, rr.Body.String())
		assert.Equal(t, "Alice", submitted.AuthorName)
		assert.Equal(t, 5, submitted.Rating)
	})

	t.Run("rating out of range", func(t *testing.T) {
		h.reviews = &MockReviewService{}
		body := []byte(`{"authorName": "Alice", "rating": 6, "content": "Great"}`)
		rr := serve(router, createRequest(t, http.MethodPost, route, body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "rating")
	})

	t.Run("missing content", func(t *testing.T) {
		h.reviews = &MockReviewService{}
		body := []byte(`{"authorName": "Alice", "rating": 3}`)
		rr := serve(router, createRequest(t, http.MethodPost, route, body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestApprovedReviewsHandler(t *testing.T) {
	h := &Handler{cfg: testConfig(), reviews: &MockReviewService{
		MockApproved: func(limit, offset int) ([]domain.Review, error) {
			assert.Equal(t, 5, limit)
			assert.Equal(t, 10, offset)
			return []domain.Review{{Id: 1, AuthorName: "Alice", Rating: 5, Content: "Great"}}, nil
		},
	}}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reviews", h.ApprovedReviews).Methods("GET")

	rr := serve(router, createRequest(t, http.MethodGet, "/api/v1/reviews?limit=5&offset=10", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"authorName":"Alice"`)
}

func TestApprovedReviewHandler(t *testing.T) {
	router := mux.NewRouter()

	t.Run("successful request", func(t *testing.T) {
		h := &Handler{cfg: testConfig(), reviews: &MockReviewService{}}
		router.HandleFunc("/api/v1/reviews/{id}", h.ApprovedReview).Methods("GET")

		rr := serve(router, createRequest(t, http.MethodGet, "/api/v1/reviews/3", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"authorName":"Alice"`)
	})

	t.Run("pending review hidden", func(t *testing.T) {
		h := &Handler{cfg: testConfig(), reviews: &MockReviewService{
			MockApprovedById: func(id int64) (domain.Review, error) {
				return domain.Review{}, internal_errors.NotFound("Review not found")
			},
		}}
		r2 := mux.NewRouter()
		r2.HandleFunc("/api/v1/reviews/{id}", h.ApprovedReview).Methods("GET")

		rr := serve(r2, createRequest(t, http.MethodGet, "/api/v1/reviews/3", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSetReviewStatusHandler(t *testing.T) {
	router := mux.NewRouter()

	t.Run("successful request", func(t *testing.T) {
		called := false
		h := &Handler{cfg: testConfig(), reviews: &MockReviewService{
			MockSetStatus: func(actor domain.Identity, id int64, status string) error {
				called = true
				assert.Equal(t, int64(12), id)
				assert.Equal(t, "approved", status)
				return nil
			},
		}}
		router.HandleFunc("/api/v1/admin/reviews/{id}/status", withIdentityForTest(h.SetReviewStatus, adminIdentity)).Methods("PUT")

		body := []byte(`{"status": "approved"}`)
		rr := serve(router, createRequest(t, http.MethodPut, "/api/v1/admin/reviews/12/status", body))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, called)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		h := &Handler{cfg: testConfig(), reviews: &MockReviewService{}}
		r2 := mux.NewRouter()
		r2.HandleFunc("/api/v1/admin/reviews/{id}/status", withIdentityForTest(h.SetReviewStatus, adminIdentity)).Methods("PUT")

		rr := serve(r2, createRequest(t, http.MethodPut, "/api/v1/admin/reviews/abc/status", []byte(`{"status":"approved"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing review", func(t *testing.T) {
		h := &Handler{cfg: testConfig(), reviews: &MockReviewService{
			MockSetStatus: func(actor domain.Identity, id int64, status string) error {
				return internal_errors.NotFound("Review not found")
			},
		}}
		r2 := mux.NewRouter()
		r2.HandleFunc("/api/v1/admin/reviews/{id}/status", withIdentityForTest(h.SetReviewStatus, adminIdentity)).Methods("PUT")

		rr := serve(r2, createRequest(t, http.MethodPut, "/api/v1/admin/reviews/99/status", []byte(`{"status":"approved"}`)))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestReviewStatsHandler(t *testing.T) {
	h := &Handler{cfg: testConfig(), reviews: &MockReviewService{
		MockStats: func() (domain.ReviewStats, error) {
			return domain.ReviewStats{Total: 10, Pending: 2, Approved: 7, AverageRating: 4.5}, nil
		},
	}}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reviews/stats", h.ReviewStats).Methods("GET")

	rr := serve(router, createRequest(t, http.MethodGet, "/api/v1/reviews/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total":10,"pending":2,"approved":7,"averageRating":4.5}`, rr.Body.String())
}

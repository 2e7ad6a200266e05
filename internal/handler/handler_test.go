package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayapps/waysite/internal/config"
	"github.com/wayapps/waysite/internal/domain"
	"github.com/wayapps/waysite/internal/middleware"
)

func createRequest(t *testing.T, method, target string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

var adminIdentity = domain.Identity{Subject: "1", Email: "admin@example.com", Role: domain.RoleAdmin}

// withIdentityForTest stands in for the auth middleware.
func withIdentityForTest(next http.HandlerFunc, identity domain.Identity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(middleware.ContextWithIdentity(r.Context(), &identity)))
	}
}

func testConfig() *config.Config {
	return config.NewForTesting(config.Public{}, config.Private{JwtKey: "test"})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// --- Service mocks ---

type MockAuthService struct {
	MockRegister       func(creds domain.Credentials, name string) (string, domain.Identity, error)
	MockLogin          func(creds domain.Credentials, ip string) (string, domain.Identity, error)
	MockFederatedLogin func(idToken, ip string) (string, domain.Identity, error)
	MockRefresh        func(identity domain.Identity) (string, error)
}

func (m *MockAuthService) Register(creds domain.Credentials, name string) (string, domain.Identity, error) {
	if m.MockRegister != nil {
		return m.MockRegister(creds, name)
	}
	return "token", domain.Identity{Subject: "1", Email: creds.Email, Role: domain.RoleUser, Name: name}, nil
}

func (m *MockAuthService) Login(creds domain.Credentials, ip string) (string, domain.Identity, error) {
	if m.MockLogin != nil {
		return m.MockLogin(creds, ip)
	}
	return "token", domain.Identity{Subject: "1", Email: creds.Email, Role: domain.RoleUser}, nil
}

func (m *MockAuthService) FederatedLogin(idToken, ip string) (string, domain.Identity, error) {
	if m.MockFederatedLogin != nil {
		return m.MockFederatedLogin(idToken, ip)
	}
	return "session-token", domain.Identity{Subject: "uid-1", Email: "fed@example.com", Role: domain.RoleAdmin}, nil
}

func (m *MockAuthService) Refresh(identity domain.Identity) (string, error) {
	if m.MockRefresh != nil {
		return m.MockRefresh(identity)
	}
	return "fresh-token", nil
}

type MockReviewService struct {
	MockSubmit       func(review domain.Review, identity *domain.Identity, ip string) (int64, error)
	MockApproved     func(limit, offset int) ([]domain.Review, error)
	MockApprovedById func(id int64) (domain.Review, error)
	MockAll          func(status string, limit, offset int) ([]domain.Review, error)
	MockSetStatus    func(actor domain.Identity, id int64, status string) error
	MockDelete       func(actor domain.Identity, id int64) error
	MockStats        func() (domain.ReviewStats, error)
}

func (m *MockReviewService) ApprovedById(id int64) (domain.Review, error) {
	if m.MockApprovedById != nil {
		return m.MockApprovedById(id)
	}
	return domain.Review{Id: id, AuthorName: "Alice", Rating: 5, Content: "Great"}, nil
}

func (m *MockReviewService) Submit(review domain.Review, identity *domain.Identity, ip string) (int64, error) {
	if m.MockSubmit != nil {
		return m.MockSubmit(review, identity, ip)
	}
	return 1, nil
}

func (m *MockReviewService) Approved(limit, offset int) ([]domain.Review, error) {
	if m.MockApproved != nil {
		return m.MockApproved(limit, offset)
	}
	return []domain.Review{}, nil
}

func (m *MockReviewService) All(status string, limit, offset int) ([]domain.Review, error) {
	if m.MockAll != nil {
		return m.MockAll(status, limit, offset)
	}
	return []domain.Review{}, nil
}

func (m *MockReviewService) SetStatus(actor domain.Identity, id int64, status string) error {
	if m.MockSetStatus != nil {
		return m.MockSetStatus(actor, id, status)
	}
	return nil
}

func (m *MockReviewService) Delete(actor domain.Identity, id int64) error {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id)
	}
	return nil
}

func (m *MockReviewService) Stats() (domain.ReviewStats, error) {
	if m.MockStats != nil {
		return m.MockStats()
	}
	return domain.ReviewStats{}, nil
}

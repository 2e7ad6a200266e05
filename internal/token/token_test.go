package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := New("test_secret", time.Hour)

	tests := []struct {
		name     string
		identity domain.Identity
	}{
		{"admin", domain.Identity{Subject: "1", Email: "admin@example.com", Role: domain.RoleAdmin, Name: "Admin"}},
		{"user", domain.Identity{Subject: "42", Email: "user@example.com", Role: domain.RoleUser}},
		{"federated subject", domain.Identity{Subject: "fRx91kPq", Email: "g@example.com", Role: domain.RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenStr, err := svc.Issue(tt.identity)
			require.NoError(t, err)

			got, err := svc.Verify(tokenStr)
			require.NoError(t, err)
			assert.Equal(t, tt.identity, *got)
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := New("test_secret", -time.Second)

	tokenStr, err := svc.Issue(domain.Identity{Subject: "1", Email: "a@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = svc.Verify(tokenStr)
	require.Error(t, err)
	assert.True(t, internal_errors.IsExpired(err), "expired token must be distinguishable from invalid")
}

func TestVerifyExpiryBoundary(t *testing.T) {
	// A zero TTL puts exp at the issue instant; validity requires now to be
	// strictly before exp, so the token is already dead at its own expiry
	// second.
	svc := New("test_secret", 0)

	tokenStr, err := svc.Issue(domain.Identity{Subject: "1", Email: "a@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = svc.Verify(tokenStr)
	require.Error(t, err)
	assert.True(t, internal_errors.IsExpired(err))
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := New("secret_a", time.Hour)
	verifier := New("secret_b", time.Hour)

	tokenStr, err := issuer.Issue(domain.Identity{Subject: "1", Email: "a@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(tokenStr)
	require.Error(t, err)
	assert.False(t, internal_errors.IsExpired(err))
}

func TestVerifyGarbage(t *testing.T) {
	svc := New("test_secret", time.Hour)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(tokenStr)
		assert.Error(t, err, tokenStr)
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
	"github.com/wayapps/waysite/internal/web"
)

// CookieName is the session cookie carrying the self-issued token.
const CookieName = "authToken"

// Verifier validates a credential string and resolves the principal.
// Implemented by the local token service and the federated verifier.
type Verifier interface {
	Verify(tokenStr string) (*domain.Identity, error)
}

// Key to store the identity in the request context
type key int

const identityKey key = 0

// Auth gates protected routes. A presented credential is resolved two-tier:
// tried as a federated provider token first, then as a self-issued one, so
// the same cookie/header transports either variant.
type Auth struct {
	local      Verifier
	federated  Verifier // nil when federated sign-in is not configured
	trustProxy bool
}

func NewAuth(local, federated Verifier, trustProxy bool) *Auth {
	return &Auth{local: local, federated: federated, trustProxy: trustProxy}
}

// RequireAuth returns middleware that rejects requests without a valid identity.
func (a *Auth) RequireAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that additionally requires the admin role.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth attaches an identity when a valid credential is present but
// lets anonymous requests through, so handlers can attribute submissions to
// known callers without requiring sign-in.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, err := a.extractIdentity(r); err == nil {
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIdentity pulls the credential from the cookie or the Authorization
// header and verifies it.
func (a *Auth) extractIdentity(r *http.Request) (*domain.Identity, error) {
	var tokenString string
	if cookie, err := r.Cookie(CookieName); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, internal_errors.AuthMissing()
	}

	if a.federated != nil {
		if identity, err := a.federated.Verify(tokenString); err == nil {
			return identity, nil
		}
	}

	// Not provider-issued; the local verifier's error carries the
	// expired/invalid distinction to the client.
	return a.local.Verify(tokenString)
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.extractIdentity(r)
			if err != nil {
				logger.Audit.Warn("authentication failed",
					"ip", web.ClientIP(r, a.trustProxy),
					"path", r.URL.Path,
					"error", err.Error())
				web.WriteError(w, err)
				return
			}

			if adminOnly && !identity.Admin() {
				logger.Audit.Warn("authorization denied",
					"ip", web.ClientIP(r, a.trustProxy),
					"email", identity.Email,
					"path", r.URL.Path)
				web.WriteError(w, internal_errors.Forbidden("Admin access required"))
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

func withIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ContextWithIdentity attaches an identity outside the auth middleware,
// for handler tests and internal adapters.
func ContextWithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return withIdentity(ctx, identity)
}

// IdentityFromContext retrieves the authenticated identity, or nil for
// anonymous requests.
func IdentityFromContext(r *http.Request) *domain.Identity {
	identity, ok := r.Context().Value(identityKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}

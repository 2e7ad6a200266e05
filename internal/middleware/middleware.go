package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/middleware/ratelimiter"
	"github.com/wayapps/waysite/internal/web"
)

// RateLimit applies an identity-scoped limiter. Admins are exempt so
// moderation work is never throttled.
func RateLimit(rl *ratelimiter.IdentityLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity := IdentityFromContext(r); identity != nil && identity.Admin() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				web.WriteError(w, err)
				return
			}
			if !rl.Allow(identity) {
				web.WriteError(w, errors.RateLimited("Rate limit exceeded, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimit caps total throughput across all callers.
func GlobalRateLimit(rl *ratelimiter.IdentityLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// IPKey builds a limiter identity function keyed on client IP.
func IPKey(trustProxy bool) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		return web.ClientIP(r, trustProxy), nil
	}
}

// RequestID tags each request with an id for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders adds the standard hardening headers.
// isHTTPS: if true, adds Strict-Transport-Security header
// csp: Content-Security-Policy value (if empty, no CSP header is set)
func SecurityHeaders(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("X-XSS-Protection", "1; mode=block")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}

			// HSTS - only when using HTTPS
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

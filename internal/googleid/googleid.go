// Package googleid verifies federated identity-provider tokens (Google
// sign-in / Firebase ID tokens) against the provider's published JWKS.
//
// Role is never taken from provider claims: it is recomputed on every
// verification from the configured administrator allow-list, so revoking an
// email downgrades already-issued tokens on their next use.
package googleid

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

// DefaultJWKSURL serves the public keys Firebase signs ID tokens with.
const DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken%40system.gserviceaccount.com"

const keyCacheTTL = time.Hour

type Config struct {
	// JWKSURL overrides the provider key-set endpoint (tests point it at a stub).
	JWKSURL string
	// ProjectId is the Firebase project; enforced as token audience and
	// issuer suffix when non-empty.
	ProjectId string
	// AdminEmails is the administrator allow-list.
	AdminEmails []string
	HTTPClient  *http.Client
}

type Verifier struct {
	jwksURL     string
	projectId   string
	adminEmails map[string]bool
	client      *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func New(cfg Config) *Verifier {
	url := cfg.JWKSURL
	if url == "" {
		url = DefaultJWKSURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = true
		}
	}
	return &Verifier{
		jwksURL:     url,
		projectId:   cfg.ProjectId,
		adminEmails: admins,
		client:      client,
		keys:        make(map[string]*rsa.PublicKey),
	}
}

// IsAdminEmail consults the current allow-list.
func (v *Verifier) IsAdminEmail(email domain.Email) bool {
	return v.adminEmails[strings.ToLower(email)]
}

// Verify validates an ID token and returns the principal with role derived
// from the allow-list. Any failure is KindAuthInvalid: callers fall back to
// local verification, so the distinction expired/invalid is not needed here.
func (v *Verifier) Verify(tokenStr string) (*domain.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return v.key(kid)
	})
	if err != nil || !token.Valid {
		return nil, internal_errors.AuthInvalid()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, internal_errors.AuthInvalid()
	}

	if v.projectId != "" {
		if aud, _ := claims.GetAudience(); !containsAudience(aud, v.projectId) {
			return nil, internal_errors.AuthInvalid()
		}
		iss, _ := claims.GetIssuer()
		if !strings.HasSuffix(iss, "/"+v.projectId) {
			return nil, internal_errors.AuthInvalid()
		}
	}

	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, internal_errors.AuthInvalid()
	}
	email = strings.ToLower(email)

	role := domain.RoleUser
	if v.adminEmails[email] {
		role = domain.RoleAdmin
	}

	identity := &domain.Identity{Subject: sub, Email: email, Role: role}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	return identity, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

// key returns the cached public key for kid, refreshing the key set when the
// kid is unknown or the cache is stale (provider keys rotate).
func (v *Verifier) key(kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Since(v.fetchedAt) < keyCacheTTL
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := v.refresh(); err != nil {
		// A stale key is still better than no key when the fetch fails.
		if ok {
			logger.Log.Warn("jwks refresh failed, using cached key", "error", err)
			return key, nil
		}
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok := v.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("no key for kid %q", kid)
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

func (v *Verifier) refresh() error {
	resp, err := v.client.Get(v.jwksURL)
	if err != nil {
		return fmt.Errorf("failed to fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks endpoint returned %d", resp.StatusCode)
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		key, err := parseRSAKey(k)
		if err != nil {
			logger.Log.Warn("skipping unparsable jwk", "kid", k.Kid, "error", err)
			continue
		}
		keys[k.Kid] = key
	}
	if len(keys) == 0 {
		return fmt.Errorf("jwks contained no usable keys")
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()
	return nil
}

func parseRSAKey(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("bad modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("bad exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}

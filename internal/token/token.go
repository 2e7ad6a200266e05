package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

// Service mints and verifies the self-issued session tokens that carry a
// principal between requests. Tokens are HS256-signed with a server-held
// secret; validity is purely signature + expiry, no server-side session state.
type Service interface {
	Issue(identity domain.Identity) (string, error)
	Verify(tokenStr string) (*domain.Identity, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) TTL() time.Duration {
	return j.ttl
}

func (j *Jwt) Issue(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   identity.Subject,
		"email": identity.Email,
		"role":  identity.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(j.ttl).Unix(),
	}
	if identity.Name != "" {
		claims["name"] = identity.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// An expired token surfaces as KindAuthExpired so callers can prompt a
// refresh instead of a full re-login; everything else is KindAuthInvalid.
func (j *Jwt) Verify(tokenStr string) (*domain.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal_errors.AuthExpired()
		}
		return nil, internal_errors.AuthInvalid()
	}
	if !token.Valid {
		return nil, internal_errors.AuthInvalid()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, internal_errors.AuthInvalid()
	}

	identity := &domain.Identity{}
	if identity.Subject, ok = claims["sub"].(string); !ok {
		return nil, internal_errors.AuthInvalid()
	}
	if identity.Email, ok = claims["email"].(string); !ok {
		return nil, internal_errors.AuthInvalid()
	}
	if identity.Role, ok = claims["role"].(string); !ok {
		return nil, internal_errors.AuthInvalid()
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}

	return identity, nil
}

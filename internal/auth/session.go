package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the resolved caller: an opaque user identifier from the
// identity provider plus whatever role claims the session carries.
type Identity struct {
	UserID string
	Roles  []string
}

// SessionClaims mirrors the JWT payload minted by the identity provider
type SessionClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// SessionService verifies session tokens issued by the external identity
// provider. Tokens are never minted here in production; GenerateToken exists
// for tests and local development.
type SessionService struct {
	secret []byte
	issuer string
}

func NewSessionService(secret, issuer string) *SessionService {
	return &SessionService{secret: []byte(secret), issuer: issuer}
}

// ValidateToken parses and verifies a session token and returns the caller identity
func (s *SessionService) ValidateToken(tokenString string) (*Identity, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("unexpected token issuer")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("session token missing subject")
	}

	return &Identity{UserID: claims.Subject, Roles: claims.Roles}, nil
}

// GenerateToken mints a session token for tests and local development
func (s *SessionService) GenerateToken(userID string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

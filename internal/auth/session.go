package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLength = 32

// SessionService issues and validates the signed session tokens carried by
// the web client. RBAC only consumes the user id a validated token resolves
// to; session policy (expiry, rotation) lives here.
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

// SessionClaims is the JWT payload for a session token.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// NewSessionService constructs a session service with an HS256 signing secret.
func NewSessionService(secret string, ttl time.Duration) (*SessionService, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: session secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed session token for the user.
func (s *SessionService) Issue(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("auth: user id is required")
	}

	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses the token and returns the user id it was issued for.
func (s *SessionService) Validate(token string) (string, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", errors.New("auth: invalid session token")
	}
	return claims.UserID, nil
}

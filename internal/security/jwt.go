package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session token validation errors.
var (
	// ErrInvalidToken indicates a token is malformed or fails signature validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates a token has expired.
	ErrExpiredToken = errors.New("token expired")
)

// SessionClaims is the claims payload embedded in a session token. The
// permission list is the snapshot resolved at mint time; it is not refreshed
// until the next login.
type SessionClaims struct {
	AdminID     uint64   `json:"admin_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session JWT with the configured expiry.
func GenerateSessionToken(secret string, adminID uint64, email, role string, permissions []string, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	if permissions == nil {
		permissions = []string{}
	}
	claims := SessionClaims{
		AdminID:     adminID,
		Email:       email,
		Role:        role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a session JWT and returns its claims. Expired
// tokens are distinguished from tampered or malformed ones for logging;
// callers treat both as an absent session.
func ParseSessionToken(secret string, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

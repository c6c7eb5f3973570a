// Package auth issues and verifies the HS256 bearer tokens used by the API
// and hashes renter passwords. Tokens carry the caller capability
// {user_id, role, points} that the middleware hands to the services.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller capability. Services receive it
// explicitly; nothing looks identity up through ambient state.
type Identity struct {
	UserID int64
	Email  string
	Role   string
	Points int
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool { return id.Role == "admin" }

var (
	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned for malformed, forged or expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// IssueToken signs an HS256 token for the identity, valid for ttl.
func IssueToken(secret string, ident Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    ident.UserID,
		"email":  ident.Email,
		"role":   ident.Role,
		"points": ident.Points,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies a raw token string and extracts the identity.
func ParseToken(secret, tokenStr string) (Identity, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	ident := Identity{}
	if sub, ok := claims["sub"].(float64); ok {
		ident.UserID = int64(sub)
	}
	if ident.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}
	if email, ok := claims["email"].(string); ok {
		ident.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		ident.Role = role
	}
	if points, ok := claims["points"].(float64); ok {
		ident.Points = int(points)
	}
	return ident, nil
}

// FromAuthHeader extracts the identity from an Authorization header value,
// accepting both "Bearer <token>" and a bare token.
func FromAuthHeader(secret, header string) (Identity, error) {
	tokenStr := strings.TrimSpace(header)
	if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
		tokenStr = strings.TrimSpace(tokenStr[7:])
	}
	if tokenStr == "" {
		return Identity{}, ErrMissingToken
	}
	return ParseToken(secret, tokenStr)
}

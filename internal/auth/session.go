package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionIssuer is the iss claim of every session token.
const sessionIssuer = "heritage-sites"

// SessionClaims is the payload of a login session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username    string `json:"usr"`
	DisplayName string `json:"name,omitempty"`
	Role        Role   `json:"role"`
}

// IssueSession creates a signed session token for user valid for ttl.
func IssueSession(user *User, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("session ttl must be positive")
	}

	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// ParseSession validates a session token and returns its claims.
// Expired tokens yield ErrTokenExpired; every other failure ErrTokenInvalid.
func ParseSession(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if !IsValidUserRole(claims.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}

	return claims, nil
}

// CanEdit reports whether the session may change the catalog.
func (c *SessionClaims) CanEdit() bool {
	return c != nil && (c.Role == RoleEditor || c.Role == RoleAdmin)
}

// Label returns the display name, falling back to the username.
func (c *SessionClaims) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Username
}

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadCookie = errors.New("session: invalid cookie")

// CookieCodec signs the session id into the cookie value (HS256 with
// SESSION_SECRET). The session itself stays server-side: a valid cookie
// whose record is gone is still unauthenticated.
type CookieCodec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewCookieCodec(secret string, maxAge time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), maxAge: maxAge, now: time.Now}
}

// Encode returns the signed cookie value for sid.
func (c *CookieCodec) Encode(sid string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
	}
	v, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign cookie: %w", err)
	}
	return v, nil
}

// Decode verifies value and returns the session id.
func (c *CookieCodec) Decode(value string) (string, error) {
	if value == "" {
		return "", ErrBadCookie
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadCookie, err)
	}
	if claims.ID == "" {
		return "", ErrBadCookie
	}
	return claims.ID, nil
}

// Package auth guards the write side of the API with HS256 bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoAuthHeader      = errors.New("authorization header missing")
	ErrInvalidAuthHeader = errors.New("authorization header is not a bearer token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
)

const issuer = "marks"

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// Gate issues and checks bearer tokens. The secret is fixed at construction.
type Gate struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGate creates a gate signing with secret. Issued tokens expire after ttl.
func NewGate(secret string, ttl time.Duration) *Gate {
	return &Gate{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token and returns it with its expiry
func (g *Gate) Issue() (string, time.Time, error) {
	now := g.now()
	expires := now.Add(g.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Validate checks a token's signature, algorithm and time claims
func (g *Gate) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrExpiredToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	// WithIssuedAt only rejects future iat values; a token without one is
	// rejected here.
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrInvalidToken)
	}

	return claims, nil
}

// Authorize extracts and validates the bearer token in h.
func (g *Gate) Authorize(h http.Header) (*Claims, error) {
	header := h.Get("Authorization")
	if header == "" {
		return nil, ErrNoAuthHeader
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, ErrInvalidAuthHeader
	}

	return g.Validate(strings.TrimSpace(token))
}

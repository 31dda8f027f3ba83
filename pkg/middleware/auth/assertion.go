package auth

import (
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token body deliveryd accepts.
type Claims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid,omitempty"`
	Roles []string `json:"roles,omitempty"`
	Role  string   `json:"role,omitempty"`
}

func (m *Middleware) validateToken(raw string) (User, error) {
	if len(m.secret) == 0 {
		return User{}, errors.New("token secret not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.leeway),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	tok, err := jwt.NewParser(opts...).ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return User{}, errors.New("invalid token")
	}

	username := firstNonEmpty(claims.UID, claims.Subject)
	if username == "" {
		return User{}, errors.New("missing uid")
	}

	return User{
		Username:             username,
		AuthenticationSource: AuthenticationSource{Provider: "bearer"},
		Role:                 Role{Name: firstNonEmpty(claims.Role, first(claims.Roles...))},
	}, nil
}

// Sign issues an HS256 token for claims. Operators use it to mint tokens for callers.
func (m *Middleware) Sign(claims Claims) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("token secret not configured")
	}
	if m.issuer != "" && claims.Issuer == "" {
		claims.Issuer = m.issuer
	}
	if m.audience != "" && !slices.Contains(claims.Audience, m.audience) {
		claims.Audience = append(claims.Audience, m.audience)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

package auth

import (
	"time"

	"github.com/joeydtaylor/steeze-firehose/pkg/settings"
)

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// Middleware authenticates HS256 bearer tokens signed with a shared secret. With no
// secret configured every request passes through unauthenticated.
type Middleware struct {
	secret    []byte
	issuer    string
	audience  string
	adminRole string
	leeway    time.Duration
	devBypass bool
}

func New(cfg settings.Auth) *Middleware {
	return &Middleware{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		adminRole: cfg.AdminRole,
		leeway:    cfg.Leeway,
		devBypass: cfg.DevBypass,
	}
}

// Enabled reports whether tokens are checked at all.
func (m *Middleware) Enabled() bool { return m != nil && (len(m.secret) > 0 || m.devBypass) }

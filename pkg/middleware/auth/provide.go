package auth

import (
	"github.com/joeydtaylor/steeze-firehose/pkg/settings"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideAuthentication builds the bearer middleware from service settings.
func ProvideAuthentication(s settings.Settings, zl *zap.Logger) *Middleware {
	m := New(s.Auth)
	switch {
	case m.devBypass:
		zl.Warn("auth dev bypass enabled; X-Dev-User headers are trusted")
	case !m.Enabled():
		zl.Warn("auth disabled; set auth.jwt_secret to require bearer tokens")
	}
	return m
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)

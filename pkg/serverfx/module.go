package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-firehose/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-firehose/pkg/compilerapi"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-firehose/pkg/settings"
	"github.com/joeydtaylor/steeze-firehose/pkg/template"
	"github.com/joeydtaylor/steeze-firehose/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Config struct {
	Service        string // for logs only
	SettingsEnv    string // env var naming the settings file
	DefaultSetting string // used when SettingsEnv is unset
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithSettingsEnv(k string) Option        { return func(c *Config) { c.SettingsEnv = k } }
func WithDefaultSettings(path string) Option { return func(c *Config) { c.DefaultSetting = path } }

func defaultConfig() Config {
	return Config{
		Service:        "deliveryd",
		SettingsEnv:    settings.ConfigEnv,
		DefaultSetting: "deliveryd.yaml",
	}
}

// Module returns the complete Fx option set for the compiler service.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		fx.Provide(func() Config { return cfg }),
		fx.Provide(provideSettings),
		// auth, logger, metrics
		bundlefx.Module,
		fx.Provide(httpx.NewChi),
		fx.Provide(provideCompiler),
		fx.Provide(provideAPI),
		fx.Provide(fx.Annotate(
			provideRouter,
			fx.ParamTags(``, ``, ``, `name:"metrics"`, ``, ``, ``), // s,a,lm,m,api,r,zl
			fx.ResultTags(`name:"app"`),
		)),
		fx.Invoke(registerHooks),
	)
}

func provideSettings(cfg Config) (settings.Settings, error) {
	return settings.Load(envOr(cfg.SettingsEnv, cfg.DefaultSetting))
}

func provideCompiler(s settings.Settings, zl *zap.Logger) *template.Compiler {
	return template.New(
		template.WithDescription(s.Template.Description),
		template.WithLogRetentionDays(s.Template.LogRetentionDays),
		template.WithLogger(zl.Named("compiler")),
	)
}

func provideAPI(s settings.Settings, c *template.Compiler, zl *zap.Logger) *compilerapi.API {
	return compilerapi.New(c,
		compilerapi.WithMaxBodyBytes(s.MaxBodyBytes),
		compilerapi.WithLogger(zl.Named("api")),
	)
}

// ---------- Router ----------

// NewHandler assembles the middleware chain and routes. Exposed for tests and for
// embedding the API in another server.
func NewHandler(
	s settings.Settings,
	a *auth.Middleware,
	lm *logger.Middleware,
	m http.Handler,
	api *compilerapi.API,
	r httpx.Router,
) http.Handler {
	r.Use(chimd.RequestID, chimd.RealIP, chimd.Recoverer, chimd.Heartbeat("/ping"))
	r.Use(a.Middleware())
	if lm != nil {
		r.Use(lm.Middleware(a))
	}
	r.Use(metrics.Collect(a))
	if s.RequestTimeout > 0 {
		r.Use(chimd.Timeout(s.RequestTimeout))
	}

	if m != nil {
		r.Handle(http.MethodGet, "/metrics", m)
	}
	api.Routes(r, a.RequireRole(s.Auth.RequiredRole))
	return r.Mux()
}

func provideRouter(
	s settings.Settings,
	a *auth.Middleware,
	lm *logger.Middleware,
	/* name:"metrics" */ m http.Handler,
	api *compilerapi.API,
	r httpx.Router,
	zl *zap.Logger,
) http.Handler {
	zl.Info("routes ready",
		zap.Bool("auth", a.Enabled()),
		zap.String("requiredRole", s.Auth.RequiredRole),
		zap.Int64("maxBodyBytes", s.MaxBodyBytes),
	)
	return NewHandler(s, a, lm, m, api, r)
}

// ---------- Lifecycle ----------

type serverDeps struct {
	fx.In
	Settings settings.Settings
	Logger   *zap.Logger
	App      http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	s := d.Settings
	srv := &http.Server{
		Addr:         s.Listen,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	useTLS := s.TLS.Enabled() && fileExists(s.TLS.Cert) && fileExists(s.TLS.Key)
	if useTLS {
		srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS13}
	} else if s.TLS.Enabled() {
		d.Logger.Warn("tls files missing; serving plaintext",
			zap.String("cert", s.TLS.Cert),
			zap.String("key", s.TLS.Key),
		)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Bind synchronously so a taken port fails startup instead of a goroutine.
			ln, err := net.Listen("tcp", s.Listen)
			if err != nil {
				return err
			}
			mode := "PLAINTEXT"
			if useTLS {
				mode = "TLS"
			}
			d.Logger.Info("server starting",
				zap.String("service", cfg.Service),
				zap.String("addr", ln.Addr().String()),
				zap.String("mode", mode),
			)
			go func() {
				var err error
				if useTLS {
					err = srv.ServeTLS(ln, s.TLS.Cert, s.TLS.Key)
				} else {
					err = srv.Serve(ln)
				}
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", cfg.Service))
			err := srv.Shutdown(ctx)
			_ = d.Logger.Sync()
			return err
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

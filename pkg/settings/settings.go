package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes every environment override, e.g. DELIVERYD_AUTH__JWT_SECRET.
const EnvPrefix = "DELIVERYD_"

// ConfigEnv names the variable holding the settings file path.
const ConfigEnv = EnvPrefix + "CONFIG"

type TLS struct {
	Cert string `koanf:"cert"`
	Key  string `koanf:"key"`
}

// Enabled reports whether both halves of the key pair are configured.
func (t TLS) Enabled() bool { return t.Cert != "" && t.Key != "" }

type Auth struct {
	JWTSecret    string        `koanf:"jwt_secret"` // empty disables bearer auth
	Issuer       string        `koanf:"issuer"`
	Audience     string        `koanf:"audience"`
	RequiredRole string        `koanf:"required_role"` // role needed for compile calls
	AdminRole    string        `koanf:"admin_role"`
	Leeway       time.Duration `koanf:"leeway"`
	DevBypass    bool          `koanf:"dev_bypass"` // trust X-Dev-* headers; never in prod
}

type Template struct {
	Description      string `koanf:"description"`
	LogRetentionDays int    `koanf:"log_retention_days"`
}

// Settings configures the deliveryd service.
type Settings struct {
	Listen         string        `koanf:"listen"`
	TLS            TLS           `koanf:"tls"`
	LogFile        string        `koanf:"log_file"`
	AccessLogFile  string        `koanf:"access_log_file"`
	MaxBodyBytes   int64         `koanf:"max_body_bytes"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	Auth           Auth          `koanf:"auth"`
	Template       Template      `koanf:"template"`
}

// Load merges the YAML file at path (optional; a missing file is not an error) with
// DELIVERYD_* environment variables, `__` separating nested keys, then fills defaults.
func Load(path string) (Settings, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("settings %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return Settings{}, fmt.Errorf("settings env: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("settings decode: %w", err)
	}
	applyDefaults(&s)
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	var s Settings
	applyDefaults(&s)
	return s
}

func applyDefaults(s *Settings) {
	if s.Listen == "" {
		s.Listen = ":4000"
	}
	if s.LogFile == "" {
		s.LogFile = "deliveryd.log"
	}
	if s.AccessLogFile == "" {
		s.AccessLogFile = "http-access.log"
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = 1 << 20
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 10 * time.Second
	}
	if s.Auth.Leeway == 0 {
		s.Auth.Leeway = 60 * time.Second
	}
	if s.Template.LogRetentionDays == 0 {
		s.Template.LogRetentionDays = 731
	}
}

func (s Settings) validate() error {
	if s.MaxBodyBytes < 0 {
		return fmt.Errorf("settings: max_body_bytes must be positive, got %d", s.MaxBodyBytes)
	}
	if (s.TLS.Cert == "") != (s.TLS.Key == "") {
		return errors.New("settings: tls.cert and tls.key must be set together")
	}
	if s.Template.LogRetentionDays < 0 {
		return fmt.Errorf("settings: template.log_retention_days must not be negative, got %d", s.Template.LogRetentionDays)
	}
	return nil
}

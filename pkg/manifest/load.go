package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/steeze-firehose/pkg/codec"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name or file extension ("yml", ".toml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported manifest format %q (toml|yaml|json)", s)
	}
}

// LoadConfig reads, decodes and validates the manifest at path. The format follows the
// file extension; files without one are read as TOML.
func LoadConfig(path string) (Config, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return Config{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Decode(f, b)
}

// Decode parses b in format f and validates the result. Unknown keys are rejected.
func Decode(f Format, b []byte) (Config, error) {
	var cfg Config
	var err error
	switch f {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(&cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	case FormatJSON:
		err = codec.JSONStrict.Unmarshal(b, &cfg)
	default:
		err = fmt.Errorf("unsupported manifest format %q", f)
	}
	if err != nil {
		return Config{}, &DecodeError{Format: f, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeError reports a manifest that could not be parsed at all.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s manifest: %v", e.Format, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err came from parsing rather than validation.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

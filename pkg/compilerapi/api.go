// Package compilerapi serves manifest validation and template compilation over HTTP.
package compilerapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/joeydtaylor/steeze-firehose/pkg/codec"
	"github.com/joeydtaylor/steeze-firehose/pkg/destination"
	"github.com/joeydtaylor/steeze-firehose/pkg/manifest"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-firehose/pkg/template"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes caps manifest uploads.
const DefaultMaxBodyBytes = 1 << 20

type API struct {
	compiler *template.Compiler
	log      *zap.Logger
	maxBody  int64
}

type Option func(*API)

func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

func New(c *template.Compiler, opts ...Option) *API {
	a := &API{compiler: c, log: zap.NewNop(), maxBody: DefaultMaxBodyBytes}
	for _, o := range opts {
		o(a)
	}
	return a
}

// errorBody is every non-2xx response.
type errorBody struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

type validBody struct {
	Valid   bool `json:"valid"`
	Streams int  `json:"streams"`
}

// CompileTemplate handles POST /v1/templates. Only this endpoint feeds the
// compilation counter.
func (a *API) CompileTemplate(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.decode(w, r)
	if err != nil {
		var ve *manifest.ValidationError
		if errors.As(err, &ve) {
			metrics.ObserveCompile(metrics.ResultInvalid)
		} else {
			metrics.ObserveCompile(metrics.ResultError)
		}
		return
	}
	tpl, err := a.compiler.Compile(cfg)
	if err != nil {
		metrics.ObserveCompile(metrics.ResultError)
		a.log.Warn("compile failed", zap.Error(err))
		writeJSON(w, errorBody{Error: "compile failed", Violations: []string{err.Error()}}, http.StatusUnprocessableEntity)
		return
	}
	metrics.ObserveCompile(metrics.ResultOK)
	a.log.Info("template compiled",
		zap.Int("streams", len(cfg.Streams)),
		zap.Int("resources", len(tpl.Resources)),
	)
	writeJSON(w, tpl, http.StatusOK)
}

// Validate handles POST /v1/validate.
func (a *API) Validate(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.decode(w, r)
	if err != nil {
		return
	}
	writeJSON(w, validBody{Valid: true, Streams: len(cfg.Streams)}, http.StatusOK)
}

// Compressions handles GET /v1/compressions.
func (a *API) Compressions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, destination.Compressions(), http.StatusOK)
}

// BackupModes handles GET /v1/backup-modes.
func (a *API) BackupModes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, destination.BackupModes(), http.StatusOK)
}

// decode reads and validates the manifest in r. On failure it has already written
// the error response and returns the cause.
func (a *API) decode(w http.ResponseWriter, r *http.Request) (manifest.Config, error) {
	f, err := requestFormat(r)
	if err != nil {
		writeJSON(w, errorBody{Error: err.Error()}, http.StatusBadRequest)
		return manifest.Config{}, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBody))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, errorBody{Error: fmt.Sprintf("manifest exceeds %d bytes", tooBig.Limit)}, http.StatusRequestEntityTooLarge)
			return manifest.Config{}, err
		}
		writeJSON(w, errorBody{Error: "read body: " + err.Error()}, http.StatusBadRequest)
		return manifest.Config{}, err
	}

	cfg, err := manifest.Decode(f, body)
	var ve *manifest.ValidationError
	switch {
	case err == nil:
		return cfg, nil
	case errors.As(err, &ve):
		v := ve.Violations()
		metrics.ObserveViolations(len(v))
		writeJSON(w, errorBody{Error: "invalid manifest", Violations: v}, http.StatusUnprocessableEntity)
	default:
		writeJSON(w, errorBody{Error: err.Error()}, http.StatusBadRequest)
	}
	return manifest.Config{}, err
}

// requestFormat prefers ?format= and falls back to the Content-Type. Without either the
// body is read as TOML.
func requestFormat(r *http.Request) (manifest.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return manifest.ParseFormat(q)
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return manifest.FormatTOML, nil
	}
	switch mt {
	case "application/json":
		return manifest.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return manifest.FormatYAML, nil
	default:
		return manifest.FormatTOML, nil
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	payload, err := codec.JSONStrict.Marshal(v)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", codec.JSONStrict.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

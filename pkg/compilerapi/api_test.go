package compilerapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-firehose/pkg/settings"
	"github.com/joeydtaylor/steeze-firehose/pkg/template"
	"github.com/joeydtaylor/steeze-firehose/pkg/transport/httpx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clicksTOML = `
[[stream]]
name = "clicks"

[stream.s3]
bucket = "arn:aws:s3:::clicks-archive"
compression = "Snappy"
buffering_interval = "2m"
buffering_size = "8MiB"
`

const clicksJSON = `{"streams":[{"name":"clicks","s3":{"bucket":"arn:aws:s3:::clicks-archive","compression":"GZIP"}}]}`

const clicksYAML = `
streams:
  - name: clicks
    s3:
      bucket: arn:aws:s3:::clicks-archive
      logging: false
`

func newServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	r := httpx.NewChi()
	New(template.New(), opts...).Routes(r)
	return r.Mux()
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCompileTemplate_Formats(t *testing.T) {
	h := newServer(t)
	cases := []struct {
		name, target, ct, body string
		compression            string
	}{
		{"toml default", "/v1/templates", "", clicksTOML, "Snappy"},
		{"json by query", "/v1/templates?format=json", "", clicksJSON, "GZIP"},
		{"json by content type", "/v1/templates", "application/json; charset=utf-8", clicksJSON, "GZIP"},
		{"yaml by content type", "/v1/templates", "application/yaml", clicksYAML, "UNCOMPRESSED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, tc.target, tc.ct, tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var tpl struct {
				Version   string `json:"AWSTemplateFormatVersion"`
				Resources map[string]struct {
					Type       string
					Properties struct {
						ExtendedS3DestinationConfiguration struct {
							CompressionFormat string
						}
					}
				}
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tpl))
			assert.Equal(t, template.FormatVersion, tpl.Version)
			ds, ok := tpl.Resources["ClicksDeliveryStream"]
			require.True(t, ok)
			assert.Equal(t, template.TypeDeliveryStream, ds.Type)
			assert.Equal(t, tc.compression, ds.Properties.ExtendedS3DestinationConfiguration.CompressionFormat)
		})
	}
}

func TestCompileTemplate_Violations(t *testing.T) {
	h := newServer(t)
	body := `
[[stream]]
name = "clicks"

[stream.s3]
bucket = "arn:aws:s3:::clicks-archive"
buffering_interval = "30s"
logging = false
log_group = "/delivery/clicks"
`
	rec := do(h, http.MethodPost, "/v1/templates", "", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := decodeBody[errorBody](t, rec)
	assert.Equal(t, "invalid manifest", got.Error)
	assert.GreaterOrEqual(t, len(got.Violations), 2)
	joined := strings.Join(got.Violations, "\n")
	assert.Contains(t, joined, "buffering_interval and buffering_size must be set together")
	assert.Contains(t, joined, "logging cannot be false when log_group is set")
}

func TestCompileTemplate_BadInput(t *testing.T) {
	h := newServer(t)

	rec := do(h, http.MethodPost, "/v1/templates?format=json", "", `{"streams": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/v1/templates?format=json", "", `{"streams":[{"name":"x","s3":{"bucket":"arn:aws:s3:::b","compression":"BROTLI"}}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorBody](t, rec).Error, "BROTLI")

	rec = do(h, http.MethodPost, "/v1/templates?format=xml", "", clicksTOML)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompileTemplate_TooLarge(t *testing.T) {
	h := newServer(t, WithMaxBodyBytes(64))
	rec := do(h, http.MethodPost, "/v1/templates", "", clicksTOML)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, decodeBody[errorBody](t, rec).Error, "64 bytes")
}

func TestValidate(t *testing.T) {
	h := newServer(t)
	rec := do(h, http.MethodPost, "/v1/validate", "application/json", clicksJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, validBody{Valid: true, Streams: 1}, decodeBody[validBody](t, rec))

	rec = do(h, http.MethodPost, "/v1/validate", "application/json", `{"streams":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"no streams defined"}, decodeBody[errorBody](t, rec).Violations)
}

func TestCompileCounterIgnoresValidate(t *testing.T) {
	h := newServer(t)
	count := func() map[string]float64 {
		out := map[string]float64{}
		for _, r := range []string{metrics.ResultOK, metrics.ResultInvalid, metrics.ResultError} {
			out[r] = testutil.ToFloat64(metrics.CompileCounter(r))
		}
		return out
	}

	before := count()
	do(h, http.MethodPost, "/v1/validate", "application/json", clicksJSON)
	do(h, http.MethodPost, "/v1/validate", "application/json", `{"streams":[]}`)
	do(h, http.MethodPost, "/v1/validate?format=json", "", `{"streams": [`)
	assert.Equal(t, before, count(), "validate must not touch the compile counter")

	do(h, http.MethodPost, "/v1/templates", "application/json", clicksJSON)
	do(h, http.MethodPost, "/v1/templates", "application/json", `{"streams":[]}`)
	do(h, http.MethodPost, "/v1/templates?format=json", "", `{"streams": [`)
	after := count()
	assert.Equal(t, 1.0, after[metrics.ResultOK]-before[metrics.ResultOK])
	assert.Equal(t, 1.0, after[metrics.ResultInvalid]-before[metrics.ResultInvalid])
	assert.Equal(t, 1.0, after[metrics.ResultError]-before[metrics.ResultError])
}

func TestListings(t *testing.T) {
	h := newServer(t)
	rec := do(h, http.MethodGet, "/v1/compressions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"GZIP", "HADOOP_SNAPPY", "Snappy", "UNCOMPRESSED", "ZIP"}, decodeBody[[]string](t, rec))

	rec = do(h, http.MethodGet, "/v1/backup-modes", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ALL", "FAILED", "DISABLED"}, decodeBody[[]string](t, rec))
}

func TestCompileGuard(t *testing.T) {
	a := auth.New(settings.Auth{JWTSecret: "s3cret"})
	r := httpx.NewChi()
	r.Use(a.Middleware())
	New(template.New()).Routes(r, a.RequireRole("publisher"))
	h := r.Mux()

	rec := do(h, http.MethodPost, "/v1/templates", "", clicksTOML)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodPost, "/v1/validate", "", clicksTOML)
	assert.Equal(t, http.StatusOK, rec.Code, "validation stays public")

	tok, err := a.Sign(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		UID:              "ci",
		Role:             "publisher",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/templates", strings.NewReader(clicksTOML))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

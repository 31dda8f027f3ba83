package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMiddleware(zap.New(core))
	AddBodyLogPaths("/v1/validate")

	var got string
	h := m.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"valid":false}`))
	}))

	body := `{"streams":[]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/validate?format=json", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, body, got, "handler must still see the full body")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(http.StatusUnprocessableEntity), fields["status"])
	assert.Equal(t, "/v1/validate", fields["uri"])
	assert.Equal(t, "json", fields["format"])
	assert.Equal(t, body, fields["requestData"])
}

func TestMiddleware_SkipsBodyOffAllowlist(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMiddleware(zap.New(core))

	h := m.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/templates", strings.NewReader("[[stream]]"))
	req.Header.Set("Content-Type", "application/toml")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	_, logged := logs.All()[0].ContextMap()["requestData"]
	assert.False(t, logged)
	assert.Equal(t, int64(http.StatusOK), logs.All()[0].ContextMap()["status"])
}

package compilerapi

import (
	"net/http"

	"github.com/joeydtaylor/steeze-firehose/pkg/transport/httpx"
)

// Routes registers the API on r. compileGuard wraps only POST /v1/templates; the
// listing and validation endpoints stay public.
func (a *API) Routes(r httpx.Router, compileGuard ...func(http.Handler) http.Handler) {
	r.Get("/v1/compressions", http.HandlerFunc(a.Compressions))
	r.Get("/v1/backup-modes", http.HandlerFunc(a.BackupModes))
	r.Post("/v1/validate", http.HandlerFunc(a.Validate))
	r.With(compileGuard...).Post("/v1/templates", http.HandlerFunc(a.CompileTemplate))
}

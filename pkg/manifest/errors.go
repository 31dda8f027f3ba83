package manifest

import (
	"strings"

	"go.uber.org/multierr"
)

// ValidationError carries every violation found in a manifest.
type ValidationError struct{ err error }

func (e *ValidationError) Error() string {
	return "invalid manifest: " + strings.Join(e.Violations(), "; ")
}

func (e *ValidationError) Unwrap() error { return e.err }

// Violations lists the individual problems in the order they were found.
func (e *ValidationError) Violations() []string {
	errs := multierr.Errors(e.err)
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

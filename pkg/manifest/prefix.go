package manifest

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// Key prefixes may embed !{namespace:value} expressions that the delivery service
// evaluates per object.
var prefixExpr = regexp.MustCompile(`!\{([^{}]*)\}`)

const errorOutputType = "firehose:error-output-type"

func validatePrefixes(scope string, data, errorOut *string) error {
	var errs error
	dataExprs, err := prefixExpressions(deref(data))
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s.data_output_prefix: %w", scope, err))
	}
	errExprs, err := prefixExpressions(deref(errorOut))
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s.error_output_prefix: %w", scope, err))
	}
	for _, e := range dataExprs {
		if e == errorOutputType {
			errs = multierr.Append(errs, fmt.Errorf("%s.data_output_prefix: !{%s} is only allowed in error_output_prefix", scope, e))
		}
	}
	if len(dataExprs) > 0 && deref(errorOut) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s: error_output_prefix is required when data_output_prefix uses expressions", scope))
	}
	if len(errExprs) > 0 && !slices.Contains(errExprs, errorOutputType) {
		errs = multierr.Append(errs, fmt.Errorf("%s.error_output_prefix: expressions require !{%s}", scope, errorOutputType))
	}
	return errs
}

// prefixExpressions returns the namespace:value pairs used in p.
func prefixExpressions(p string) ([]string, error) {
	var out []string
	for _, m := range prefixExpr.FindAllStringSubmatch(p, -1) {
		expr := strings.TrimSpace(m[1])
		ns, val, ok := strings.Cut(expr, ":")
		if !ok || val == "" {
			return nil, fmt.Errorf("expression !{%s} must be namespace:value", m[1])
		}
		switch ns {
		case "timestamp":
		case "firehose":
			if val != "error-output-type" && val != "random-string" {
				return nil, fmt.Errorf("unknown firehose expression !{%s}", expr)
			}
		default:
			return nil, fmt.Errorf("unknown expression namespace %q", ns)
		}
		out = append(out, expr)
	}
	if rest := prefixExpr.ReplaceAllString(p, ""); strings.Contains(rest, "!{") {
		return nil, fmt.Errorf("unterminated expression in %q", p)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}


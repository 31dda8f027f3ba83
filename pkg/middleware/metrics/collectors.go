package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10},
		},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_from_role", Help: "http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	templatesCompiled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "delivery_templates_compiled_total", Help: "manifest compilations by result"},
		[]string{"result"},
	)

	manifestViolations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "delivery_manifest_violations_total", Help: "validation violations reported"},
	)
)

// Compile results.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid" // manifest failed validation
	ResultError   = "error"   // undecodable input or a compile failure
)

// CompileCounter is the compilation counter for one result.
func CompileCounter(result string) prometheus.Counter {
	return templatesCompiled.WithLabelValues(result)
}

// ObserveCompile counts one compilation attempt.
func ObserveCompile(result string) { CompileCounter(result).Inc() }

// ObserveViolations adds n reported violations.
func ObserveViolations(n int) {
	if n > 0 {
		manifestViolations.Add(float64(n))
	}
}

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToUri,
		totalHttpRequests,
		templatesCompiled,
		manifestViolations,
	)
}

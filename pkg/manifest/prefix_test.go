package manifest

import (
	"testing"

	d "github.com/joeydtaylor/steeze-firehose/pkg/destination"
	"github.com/stretchr/testify/assert"
)

func TestValidatePrefixes(t *testing.T) {
	cases := []struct {
		name      string
		data, err *string
		want      string
	}{
		{"none", nil, nil, ""},
		{"static", d.String("raw/"), d.String("errors/"), ""},
		{"error only", nil, d.String("errors/"), ""},
		{"expressions", d.String("raw/!{timestamp:yyyy/MM/dd}/"), d.String("errors/!{firehose:error-output-type}/!{timestamp:yyyy}/"), ""},
		{"expression without error prefix", d.String("raw/!{timestamp:yyyy}/"), nil, "error_output_prefix is required"},
		{"error type in data prefix", d.String("raw/!{firehose:error-output-type}/"), d.String("e/!{firehose:error-output-type}"), "only allowed in error_output_prefix"},
		{"error prefix missing error type", d.String("raw/"), d.String("e/!{timestamp:yyyy}/"), "expressions require !{firehose:error-output-type}"},
		{"unknown namespace", d.String("raw/!{partitionKeyFromQuery:id}/"), d.String("e/"), "unknown expression namespace"},
		{"unknown firehose value", d.String("raw/!{firehose:shard}/"), d.String("e/"), "unknown firehose expression"},
		{"unterminated", d.String("raw/!{timestamp:yyyy"), d.String("e/"), "unterminated expression"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePrefixes("s3", tc.data, tc.err)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

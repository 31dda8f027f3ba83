package destination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceValidation(t *testing.T) {
	cases := []struct {
		name string
		ref  interface{ Validate() error }
		ok   bool
	}{
		{"bucket", BucketRef{ARN: "arn:aws:s3:::clicks"}, true},
		{"bucket object", BucketRef{ARN: "arn:aws:s3:::clicks/2024"}, false},
		{"bucket wrong service", BucketRef{ARN: "arn:aws:sqs:us-east-1:123456789012:q"}, false},
		{"bucket empty", BucketRef{}, false},
		{"key", KeyRef{ARN: "arn:aws:kms:us-east-1:123456789012:key/1234abcd-12ab-34cd-56ef-1234567890ab"}, true},
		{"key alias", KeyRef{ARN: "arn:aws:kms:us-east-1:123456789012:alias/delivery"}, true},
		{"key not key", KeyRef{ARN: "arn:aws:kms:us-east-1:123456789012:grant/x"}, false},
		{"role", RoleRef{ARN: "arn:aws:iam::123456789012:role/delivery"}, true},
		{"role user", RoleRef{ARN: "arn:aws:iam::123456789012:user/bob"}, false},
		{"log group arn", *LogGroup("arn:aws:logs:us-east-1:123456789012:log-group:/delivery/clicks:*"), true},
		{"log group name", *LogGroup("/delivery/clicks"), true},
		{"log group bad name", *LogGroup("has space"), false},
		{"processor", Processor("arn:aws:lambda:us-east-1:123456789012:function:enrich"), true},
		{"processor layer", Processor("arn:aws:lambda:us-east-1:123456789012:layer:enrich"), false},
		{"not an arn", RoleRef{ARN: "delivery"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ref.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidReference)
		})
	}
}

func TestReferenceNames(t *testing.T) {
	assert.Equal(t, "clicks", Bucket("arn:aws:s3:::clicks").Name())
	assert.Equal(t, "/delivery/clicks", LogGroup("arn:aws:logs:us-east-1:123456789012:log-group:/delivery/clicks:*").Name())
	assert.Equal(t, "/delivery/clicks", LogGroup("/delivery/clicks").Name())
}

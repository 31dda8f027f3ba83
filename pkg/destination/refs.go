package destination

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// ErrInvalidReference is wrapped by every reference Validate error.
var ErrInvalidReference = errors.New("invalid reference")

// References are non-owning handles to resources created elsewhere. They decode from a
// plain ARN string and are only checked for shape; nothing here looks them up.

func parseRef(kind, service, s string) (arn.ARN, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return arn.ARN{}, fmt.Errorf("%w: %s arn is empty", ErrInvalidReference, kind)
	}
	a, err := arn.Parse(s)
	if err != nil {
		return arn.ARN{}, fmt.Errorf("%w: %s arn %q: %v", ErrInvalidReference, kind, s, err)
	}
	if a.Service != service {
		return arn.ARN{}, fmt.Errorf("%w: %s arn %q has service %q, want %q", ErrInvalidReference, kind, s, a.Service, service)
	}
	return a, nil
}

// BucketRef points at an S3 bucket, e.g. "arn:aws:s3:::my-bucket".
type BucketRef struct{ ARN string }

func Bucket(arnStr string) *BucketRef { return &BucketRef{ARN: arnStr} }

func (r BucketRef) Validate() error {
	a, err := parseRef("bucket", "s3", r.ARN)
	if err != nil {
		return err
	}
	if a.Resource == "" || strings.Contains(a.Resource, "/") {
		return fmt.Errorf("%w: bucket arn %q must name a bucket, not an object", ErrInvalidReference, r.ARN)
	}
	return nil
}

// Name returns the bucket name, or "" if the ARN does not parse.
func (r BucketRef) Name() string {
	a, err := arn.Parse(r.ARN)
	if err != nil {
		return ""
	}
	return a.Resource
}

func (r BucketRef) MarshalText() ([]byte, error) { return []byte(r.ARN), nil }
func (r *BucketRef) UnmarshalText(b []byte) error {
	r.ARN = strings.TrimSpace(string(b))
	return nil
}

// KeyRef points at a KMS key or alias used for server-side encryption.
type KeyRef struct{ ARN string }

func Key(arnStr string) *KeyRef { return &KeyRef{ARN: arnStr} }

func (r KeyRef) Validate() error {
	a, err := parseRef("key", "kms", r.ARN)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(a.Resource, "key/") && !strings.HasPrefix(a.Resource, "alias/") {
		return fmt.Errorf("%w: key arn %q must reference key/ or alias/", ErrInvalidReference, r.ARN)
	}
	return nil
}

func (r KeyRef) MarshalText() ([]byte, error) { return []byte(r.ARN), nil }
func (r *KeyRef) UnmarshalText(b []byte) error {
	r.ARN = strings.TrimSpace(string(b))
	return nil
}

// RoleRef points at the IAM role a delivery stream or processor assumes.
type RoleRef struct{ ARN string }

func Role(arnStr string) *RoleRef { return &RoleRef{ARN: arnStr} }

func (r RoleRef) Validate() error {
	a, err := parseRef("role", "iam", r.ARN)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(a.Resource, "role/") {
		return fmt.Errorf("%w: role arn %q must reference role/", ErrInvalidReference, r.ARN)
	}
	return nil
}

func (r RoleRef) MarshalText() ([]byte, error) { return []byte(r.ARN), nil }
func (r *RoleRef) UnmarshalText(b []byte) error {
	r.ARN = strings.TrimSpace(string(b))
	return nil
}

var logGroupName = regexp.MustCompile(`^[\.\-_/#A-Za-z0-9]{1,512}$`)

// LogGroupRef points at a CloudWatch Logs group, either by ARN
// ("arn:aws:logs:us-east-1:123456789012:log-group:/delivery/clicks") or by bare name.
type LogGroupRef struct {
	ARN       string
	GroupName string
}

// LogGroup builds a reference from either an ARN or a group name.
func LogGroup(s string) *LogGroupRef {
	var r LogGroupRef
	_ = r.UnmarshalText([]byte(s))
	return &r
}

func (r LogGroupRef) Validate() error {
	if r.ARN == "" {
		if !logGroupName.MatchString(r.GroupName) {
			return fmt.Errorf("%w: log group name %q", ErrInvalidReference, r.GroupName)
		}
		return nil
	}
	a, err := parseRef("log group", "logs", r.ARN)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(a.Resource, "log-group:") || !logGroupName.MatchString(r.Name()) {
		return fmt.Errorf("%w: log group arn %q must reference log-group:<name>", ErrInvalidReference, r.ARN)
	}
	return nil
}

// Name returns the group name, taken from the ARN when one is set.
func (r LogGroupRef) Name() string {
	if r.ARN == "" {
		return r.GroupName
	}
	a, err := arn.Parse(r.ARN)
	if err != nil {
		return ""
	}
	name := strings.TrimPrefix(a.Resource, "log-group:")
	return strings.TrimSuffix(name, ":*")
}

func (r LogGroupRef) MarshalText() ([]byte, error) {
	if r.ARN != "" {
		return []byte(r.ARN), nil
	}
	return []byte(r.GroupName), nil
}

func (r *LogGroupRef) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if arn.IsARN(s) {
		r.ARN, r.GroupName = s, ""
		return nil
	}
	r.ARN, r.GroupName = "", s
	return nil
}

// ProcessorRef is one data-transformation step: a Lambda function invoked on each
// buffered batch before delivery. Processors run in the order they are listed.
type ProcessorRef struct {
	FunctionARN string `toml:"function_arn" yaml:"function_arn" json:"function_arn" koanf:"function_arn"`

	// Buffering before the function is invoked. Defaults 60s / 3MiB, bounds [1s, 900s] / [1, 3] MiB.
	BufferInterval *Duration `toml:"buffer_interval,omitempty" yaml:"buffer_interval,omitempty" json:"buffer_interval,omitempty" koanf:"buffer_interval"`
	BufferSize     *Size     `toml:"buffer_size,omitempty" yaml:"buffer_size,omitempty" json:"buffer_size,omitempty" koanf:"buffer_size"`

	// Retries before a batch is treated as failed. Default 3.
	Retries *int `toml:"retries,omitempty" yaml:"retries,omitempty" json:"retries,omitempty" koanf:"retries"`
}

func Processor(functionARN string) ProcessorRef { return ProcessorRef{FunctionARN: functionARN} }

// Validate checks the function ARN shape only; tuning bounds are a consumer concern.
func (p ProcessorRef) Validate() error {
	a, err := parseRef("processor", "lambda", p.FunctionARN)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(a.Resource, "function:") {
		return fmt.Errorf("%w: processor arn %q must reference function:<name>", ErrInvalidReference, p.FunctionARN)
	}
	return nil
}

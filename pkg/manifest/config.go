package manifest

import "github.com/joeydtaylor/steeze-firehose/pkg/destination"

// Config is the top-level manifest: one entry per delivery stream.
type Config struct {
	Description string   `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Streams     []Stream `toml:"stream" yaml:"streams" json:"streams"`
}

// Stream is a direct-put delivery stream writing into one S3 destination.
type Stream struct {
	Name        string        `toml:"name" yaml:"name" json:"name"`
	Destination S3Destination `toml:"s3" yaml:"s3" json:"s3"`
}

// S3Destination is the bucket destination: the target bucket plus the common
// destination and S3 settings.
type S3Destination struct {
	Bucket destination.BucketRef `toml:"bucket" yaml:"bucket" json:"bucket"`

	destination.CommonDestinationProps `yaml:",inline"`
	destination.CommonS3Props          `yaml:",inline"`
}

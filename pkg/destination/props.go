package destination

// DestinationLoggingProps controls delivery error logging.
type DestinationLoggingProps struct {
	// Logging enables error logs. Defaults to true; supplying LogGroup implies true.
	Logging *bool `toml:"logging,omitempty" yaml:"logging,omitempty" json:"logging,omitempty" koanf:"logging"`

	// LogGroup receives the error logs. When unset and logging is on, the consumer
	// provisions a group.
	LogGroup *LogGroupRef `toml:"log_group,omitempty" yaml:"log_group,omitempty" json:"log_group,omitempty" koanf:"log_group"`
}

// CommonS3Props are the buffering, compression, encryption and key-prefix settings shared
// by the primary S3 destination and its backup.
type CommonS3Props struct {
	// BufferingInterval and BufferingSize must be set together.
	// Defaults 300s / 5MiB; bounds [60s, 900s] / [1, 128] MiB.
	BufferingInterval *Duration `toml:"buffering_interval,omitempty" yaml:"buffering_interval,omitempty" json:"buffering_interval,omitempty" koanf:"buffering_interval"`
	BufferingSize     *Size     `toml:"buffering_size,omitempty" yaml:"buffering_size,omitempty" json:"buffering_size,omitempty" koanf:"buffering_size"`

	Compression Compression `toml:"compression,omitempty" yaml:"compression,omitempty" json:"compression,omitempty" koanf:"compression"` // default UNCOMPRESSED

	// EncryptionKey enables SSE-KMS on written objects. Unset means no encryption.
	EncryptionKey *KeyRef `toml:"encryption_key,omitempty" yaml:"encryption_key,omitempty" json:"encryption_key,omitempty" koanf:"encryption_key"`

	// Key prefixes may use !{timestamp:...} and !{firehose:...} expressions.
	// Unset means the service default (YYYY/MM/DD/HH).
	DataOutputPrefix  *string `toml:"data_output_prefix,omitempty" yaml:"data_output_prefix,omitempty" json:"data_output_prefix,omitempty" koanf:"data_output_prefix"`
	ErrorOutputPrefix *string `toml:"error_output_prefix,omitempty" yaml:"error_output_prefix,omitempty" json:"error_output_prefix,omitempty" koanf:"error_output_prefix"`
}

// S3BackupDestinationProps describes the optional backup copy of records.
type S3BackupDestinationProps struct {
	DestinationLoggingProps `yaml:",inline" koanf:",squash"`
	CommonS3Props           `yaml:",inline" koanf:",squash"`

	// Bucket receives backed up records. Supplying it implies Mode ALL unless Mode is set.
	Bucket *BucketRef `toml:"bucket,omitempty" yaml:"bucket,omitempty" json:"bucket,omitempty" koanf:"bucket"`

	Mode BackupMode `toml:"mode,omitempty" yaml:"mode,omitempty" json:"mode,omitempty" koanf:"mode"` // ALL | FAILED | DISABLED
}

// CommonDestinationProps apply to every destination type.
type CommonDestinationProps struct {
	DestinationLoggingProps `yaml:",inline" koanf:",squash"`

	// Role is assumed by the delivery stream. When unset the consumer provisions one.
	Role *RoleRef `toml:"role,omitempty" yaml:"role,omitempty" json:"role,omitempty" koanf:"role"`

	// Processors transform records, applied in slice order, before delivery.
	Processors []ProcessorRef `toml:"processors,omitempty" yaml:"processors,omitempty" json:"processors,omitempty" koanf:"processors"`

	S3Backup *S3BackupDestinationProps `toml:"s3_backup,omitempty" yaml:"s3_backup,omitempty" json:"s3_backup,omitempty" koanf:"s3_backup"`
}

// Bool and String help build optional fields in code.
func Bool(v bool) *bool       { return &v }
func String(v string) *string { return &v }

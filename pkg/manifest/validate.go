package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joeydtaylor/steeze-firehose/pkg/destination"
	"go.uber.org/multierr"
)

var streamName = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// Validate reports every violation in the manifest as a *ValidationError. It does not
// modify the manifest; defaults are applied by Resolve.
func (c *Config) Validate() error {
	var errs error
	if len(c.Streams) == 0 {
		errs = multierr.Append(errs, errors.New("no streams defined"))
	}
	seen := map[string]int{}
	for i := range c.Streams {
		s := &c.Streams[i]
		scope := fmt.Sprintf("stream %d", i)
		if s.Name != "" {
			scope = fmt.Sprintf("stream %d (%s)", i, s.Name)
		}
		switch {
		case strings.TrimSpace(s.Name) == "":
			errs = multierr.Append(errs, fmt.Errorf("%s: name is required", scope))
		case !streamName.MatchString(s.Name):
			errs = multierr.Append(errs, fmt.Errorf("%s: name must match %s", scope, streamName))
		default:
			if j, dup := seen[s.Name]; dup {
				errs = multierr.Append(errs, fmt.Errorf("%s: duplicate name (first used by stream %d)", scope, j))
			} else {
				seen[s.Name] = i
			}
		}
		errs = multierr.Append(errs, s.Destination.validate(scope+": s3"))
	}
	if errs != nil {
		return &ValidationError{err: errs}
	}
	return nil
}

func (d *S3Destination) validate(scope string) error {
	var errs error
	if strings.TrimSpace(d.Bucket.ARN) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s.bucket is required", scope))
	} else if err := d.Bucket.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s.bucket: %w", scope, err))
	}
	errs = multierr.Append(errs, validateLogging(scope, d.DestinationLoggingProps))
	errs = multierr.Append(errs, validateS3(scope, d.CommonS3Props))
	if d.Role != nil {
		if err := d.Role.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.role: %w", scope, err))
		}
	}
	for i, p := range d.Processors {
		errs = multierr.Append(errs, validateProcessor(fmt.Sprintf("%s.processors[%d]", scope, i), p))
	}
	if d.S3Backup != nil {
		errs = multierr.Append(errs, validateBackup(scope+".s3_backup", d.S3Backup))
	}
	return errs
}

func validateLogging(scope string, p destination.DestinationLoggingProps) error {
	var errs error
	if p.LogGroup != nil {
		if p.Logging != nil && !*p.Logging {
			errs = multierr.Append(errs, fmt.Errorf("%s: logging cannot be false when log_group is set", scope))
		}
		if err := p.LogGroup.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.log_group: %w", scope, err))
		}
	}
	return errs
}

func validateS3(scope string, p destination.CommonS3Props) error {
	var errs error
	if (p.BufferingInterval == nil) != (p.BufferingSize == nil) {
		errs = multierr.Append(errs, fmt.Errorf("%s: buffering_interval and buffering_size must be set together", scope))
	}
	if iv := p.BufferingInterval; iv != nil {
		errs = multierr.Append(errs, checkDuration(scope+".buffering_interval", iv.Duration,
			destination.MinBufferingInterval, destination.MaxBufferingInterval))
	}
	if sz := p.BufferingSize; sz != nil {
		errs = multierr.Append(errs, checkSize(scope+".buffering_size", *sz,
			destination.MinBufferingSize, destination.MaxBufferingSize))
	}
	if !p.Compression.IsZero() && !p.Compression.Valid() {
		errs = multierr.Append(errs, fmt.Errorf("%s.compression: %w: %s", scope, destination.ErrUnknownCompression, p.Compression))
	}
	if p.EncryptionKey != nil {
		if err := p.EncryptionKey.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.encryption_key: %w", scope, err))
		}
	}
	errs = multierr.Append(errs, validatePrefixes(scope, p.DataOutputPrefix, p.ErrorOutputPrefix))
	return errs
}

func validateProcessor(scope string, p destination.ProcessorRef) error {
	var errs error
	if err := p.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", scope, err))
	}
	if p.BufferInterval != nil {
		errs = multierr.Append(errs, checkDuration(scope+".buffer_interval", p.BufferInterval.Duration,
			destination.MinProcessorBufferInterval, destination.MaxProcessorBufferInterval))
	}
	if p.BufferSize != nil {
		errs = multierr.Append(errs, checkSize(scope+".buffer_size", *p.BufferSize,
			destination.MinProcessorBufferSize, destination.MaxProcessorBufferSize))
	}
	if p.Retries != nil && *p.Retries < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s.retries must be >= 0", scope))
	}
	return errs
}

func validateBackup(scope string, b *destination.S3BackupDestinationProps) error {
	var errs error
	switch b.Mode {
	case 0, destination.BackupModeAll:
	case destination.BackupModeFailed:
		errs = multierr.Append(errs, fmt.Errorf("%s.mode FAILED is not supported for S3 destinations", scope))
	case destination.BackupModeDisabled:
		if b.Bucket != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: bucket is set but mode is DISABLED", scope))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("%s.mode: %w: %s", scope, destination.ErrUnknownBackupMode, b.Mode))
	}
	if b.Bucket != nil {
		if err := b.Bucket.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.bucket: %w", scope, err))
		}
	}
	errs = multierr.Append(errs, validateLogging(scope, b.DestinationLoggingProps))
	errs = multierr.Append(errs, validateS3(scope, b.CommonS3Props))
	return errs
}

func checkDuration(field string, v, lo, hi time.Duration) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s %s out of range [%s, %s]", field, v, lo, hi)
	}
	if v%time.Second != 0 {
		return fmt.Errorf("%s %s must be a whole number of seconds", field, v)
	}
	return nil
}

func checkSize(field string, v destination.Size, lo, hi int64) error {
	if v.Bytes() < lo || v.Bytes() > hi {
		return fmt.Errorf("%s %s out of range [%dMiB, %dMiB]", field, v, lo/destination.MiB, hi/destination.MiB)
	}
	if !v.IsWholeMebibytes() {
		return fmt.Errorf("%s %s must be a whole number of MiB", field, v)
	}
	return nil
}

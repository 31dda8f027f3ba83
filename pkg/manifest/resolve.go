package manifest

import (
	"time"

	"github.com/joeydtaylor/steeze-firehose/pkg/destination"
)

// ResolvedLogging is DestinationLoggingProps with defaults applied.
type ResolvedLogging struct {
	Enabled  bool
	LogGroup *destination.LogGroupRef // nil: a group must be provisioned when Enabled
}

// ResolvedS3 is CommonS3Props with defaults applied.
type ResolvedS3 struct {
	BufferingInterval time.Duration
	BufferingSize     int64 // bytes
	Compression       destination.Compression
	EncryptionKey     *destination.KeyRef
	DataOutputPrefix  string // "" keeps the service default layout
	ErrorOutputPrefix string
}

type ResolvedProcessor struct {
	FunctionARN    string
	BufferInterval time.Duration
	BufferSize     int64
	Retries        int
}

// ResolvedBackup is the effective backup configuration. Bucket is nil when the
// backup is enabled but a bucket must be provisioned.
type ResolvedBackup struct {
	Mode    destination.BackupMode
	Bucket  *destination.BucketRef
	Logging ResolvedLogging
	S3      ResolvedS3
}

func (b ResolvedBackup) Enabled() bool { return b.Mode == destination.BackupModeAll }

// ResolvedDestination is an S3Destination with every documented default applied.
type ResolvedDestination struct {
	Bucket     destination.BucketRef
	Role       *destination.RoleRef // nil: a role must be provisioned
	Logging    ResolvedLogging
	S3         ResolvedS3
	Processors []ResolvedProcessor
	Backup     ResolvedBackup
}

// Resolve applies defaults to d. It assumes d has passed Validate.
func Resolve(d S3Destination) ResolvedDestination {
	out := ResolvedDestination{
		Bucket:  d.Bucket,
		Role:    d.Role,
		Logging: resolveLogging(d.DestinationLoggingProps),
		S3:      resolveS3(d.CommonS3Props),
		Backup:  resolveBackup(d.S3Backup),
	}
	for _, p := range d.Processors {
		out.Processors = append(out.Processors, resolveProcessor(p))
	}
	return out
}

func resolveLogging(p destination.DestinationLoggingProps) ResolvedLogging {
	enabled := destination.DefaultLogging
	if p.Logging != nil {
		enabled = *p.Logging
	}
	if p.LogGroup != nil {
		enabled = true
	}
	return ResolvedLogging{Enabled: enabled, LogGroup: p.LogGroup}
}

func resolveS3(p destination.CommonS3Props) ResolvedS3 {
	out := ResolvedS3{
		BufferingInterval: destination.DefaultBufferingInterval,
		BufferingSize:     destination.DefaultBufferingSize,
		Compression:       p.Compression.OrDefault(),
		EncryptionKey:     p.EncryptionKey,
		DataOutputPrefix:  deref(p.DataOutputPrefix),
		ErrorOutputPrefix: deref(p.ErrorOutputPrefix),
	}
	if p.BufferingInterval != nil {
		out.BufferingInterval = p.BufferingInterval.Duration
	}
	if p.BufferingSize != nil {
		out.BufferingSize = p.BufferingSize.Bytes()
	}
	return out
}

func resolveProcessor(p destination.ProcessorRef) ResolvedProcessor {
	out := ResolvedProcessor{
		FunctionARN:    p.FunctionARN,
		BufferInterval: destination.DefaultProcessorBufferInterval,
		BufferSize:     destination.DefaultProcessorBufferSize,
		Retries:        destination.DefaultProcessorRetries,
	}
	if p.BufferInterval != nil {
		out.BufferInterval = p.BufferInterval.Duration
	}
	if p.BufferSize != nil {
		out.BufferSize = p.BufferSize.Bytes()
	}
	if p.Retries != nil {
		out.Retries = *p.Retries
	}
	return out
}

func resolveBackup(b *destination.S3BackupDestinationProps) ResolvedBackup {
	if b == nil {
		return ResolvedBackup{Mode: destination.BackupModeDisabled}
	}
	return ResolvedBackup{
		Mode:    destination.ResolveBackupMode(b.Mode, b.Bucket != nil),
		Bucket:  b.Bucket,
		Logging: resolveLogging(b.DestinationLoggingProps),
		S3:      resolveS3(b.CommonS3Props),
	}
}

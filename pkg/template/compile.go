package template

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joeydtaylor/steeze-firehose/pkg/codec"
	"github.com/joeydtaylor/steeze-firehose/pkg/destination"
	"github.com/joeydtaylor/steeze-firehose/pkg/manifest"
	"go.uber.org/zap"
)

// DefaultLogRetentionDays applies to generated log groups.
const DefaultLogRetentionDays = 731

const deliveryStreamType = "DirectPut"

type Option func(*Compiler)

// WithDescription sets the template description used when the manifest has none.
func WithDescription(s string) Option { return func(c *Compiler) { c.description = s } }

// WithLogRetentionDays sets RetentionInDays on generated log groups. 0 keeps logs forever.
func WithLogRetentionDays(n int) Option { return func(c *Compiler) { c.retentionDays = n } }

func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// Compiler renders manifests into templates. It holds no per-call state and is safe
// for concurrent use.
type Compiler struct {
	description   string
	retentionDays int
	log           *zap.Logger
}

func New(opts ...Option) *Compiler {
	c := &Compiler{
		retentionDays: DefaultLogRetentionDays,
		log:           zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile validates cfg and renders one delivery stream per manifest stream along with
// whatever roles, log groups and backup buckets the manifest did not reference.
// Validation failures are returned wrapped; errors.As finds the *manifest.ValidationError.
func (c *Compiler) Compile(cfg manifest.Config) (*Template, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	desc := cfg.Description
	if desc == "" {
		desc = c.description
	}
	t := newTemplate(desc)
	for _, s := range cfg.Streams {
		if err := c.compileStream(t, s); err != nil {
			return nil, fmt.Errorf("compile: stream %q: %w", s.Name, err)
		}
	}
	c.log.Debug("template compiled",
		zap.Int("streams", len(cfg.Streams)),
		zap.Int("resources", len(t.Resources)),
	)
	return t, nil
}

// Render compiles cfg and encodes the template as JSON.
func (c *Compiler) Render(cfg manifest.Config, pretty bool) ([]byte, error) {
	t, err := c.Compile(cfg)
	if err != nil {
		return nil, err
	}
	if pretty {
		return codec.JSONPretty.Marshal(t)
	}
	return codec.JSONStrict.Marshal(t)
}

func (c *Compiler) add(t *Template, id, typ string, props any) error {
	if err := t.add(id, typ, props); err != nil {
		return err
	}
	c.log.Debug("resource", zap.String("id", id), zap.String("type", typ))
	return nil
}

// streamBuild carries the ids and grants of one stream while its resources are added.
type streamBuild struct {
	id       string
	role     any
	grants   grants
	logGroup any // name of the generated group, once added
}

func (c *Compiler) compileStream(t *Template, s manifest.Stream) error {
	d := manifest.Resolve(s.Destination)
	b := &streamBuild{id: LogicalID(s.Name)}
	roleID := b.id + suffixRole
	if d.Role != nil {
		b.role = d.Role.ARN
	} else {
		b.role = GetAtt(roleID, "Arn")
	}

	b.grants.bucket(d.Bucket.ARN)
	if k := d.S3.EncryptionKey; k != nil {
		b.grants.key(k.ARN)
	}
	dest := &ExtendedS3DestinationConfiguration{
		BucketARN:               d.Bucket.ARN,
		RoleARN:                 b.role,
		BufferingHints:          bufferingHints(d.S3),
		CompressionFormat:       d.S3.Compression.Value(),
		EncryptionConfiguration: encryption(d.S3.EncryptionKey),
		Prefix:                  d.S3.DataOutputPrefix,
		ErrorOutputPrefix:       d.S3.ErrorOutputPrefix,
		S3BackupMode:            "Disabled",
	}
	logging, err := c.logging(t, b, d.Logging, suffixDestinationStream, logStreamNameDestination)
	if err != nil {
		return err
	}
	dest.CloudWatchLoggingOptions = logging
	if len(d.Processors) > 0 {
		dest.ProcessingConfiguration = c.processing(b, d.Processors)
	}
	if d.Backup.Enabled() {
		backup, err := c.backup(t, b, d.Backup)
		if err != nil {
			return err
		}
		dest.S3BackupMode = "Enabled"
		dest.S3BackupConfiguration = backup
	}

	if d.Role == nil {
		if err := c.add(t, roleID, TypeRole, serviceRole(b.id+"DeliveryPolicy", b.grants)); err != nil {
			return err
		}
	}

	streamID := b.id + suffixDeliveryStream
	err = c.add(t, streamID, TypeDeliveryStream, DeliveryStreamProperties{
		DeliveryStreamName:                 s.Name,
		DeliveryStreamType:                 deliveryStreamType,
		ExtendedS3DestinationConfiguration: dest,
	})
	if err != nil {
		return err
	}
	t.Outputs[b.id+suffixDeliveryStreamArn] = Output{
		Description: "ARN of delivery stream " + s.Name,
		Value:       GetAtt(streamID, "Arn"),
		Export:      &Export{Name: Sub(exportName(s.Name))},
	}
	return nil
}

// logging returns nil when logging is disabled. Otherwise it adds a log stream, in the
// referenced group or in a group generated once per delivery stream.
func (c *Compiler) logging(t *Template, b *streamBuild, l manifest.ResolvedLogging, suffix, streamName string) (*CloudWatchLoggingOptions, error) {
	if !l.Enabled {
		return nil, nil
	}
	var groupName any
	switch {
	case l.LogGroup != nil:
		groupName = l.LogGroup.Name()
		b.grants.logGroup(logGroupARN(*l.LogGroup))
	case b.logGroup != nil:
		groupName = b.logGroup
	default:
		groupID := b.id + suffixLogGroup
		props := LogGroupProperties{RetentionInDays: c.retentionDays}
		if err := c.add(t, groupID, TypeLogGroup, props); err != nil {
			return nil, err
		}
		b.logGroup = Ref(groupID)
		groupName = b.logGroup
		b.grants.logGroup(GetAtt(groupID, "Arn"))
	}
	streamID := b.id + suffix
	err := c.add(t, streamID, TypeLogStream, LogStreamProperties{
		LogGroupName:  groupName,
		LogStreamName: streamName,
	})
	if err != nil {
		return nil, err
	}
	return &CloudWatchLoggingOptions{
		Enabled:       true,
		LogGroupName:  groupName,
		LogStreamName: Ref(streamID),
	}, nil
}

func logGroupARN(r destination.LogGroupRef) any {
	if r.ARN != "" {
		return r.ARN
	}
	return Sub("arn:${AWS::Partition}:logs:${AWS::Region}:${AWS::AccountId}:log-group:" + r.GroupName + ":*")
}

func (c *Compiler) processing(b *streamBuild, procs []manifest.ResolvedProcessor) *ProcessingConfiguration {
	out := &ProcessingConfiguration{Enabled: true}
	for _, p := range procs {
		b.grants.function(p.FunctionARN)
		out.Processors = append(out.Processors, Processor{
			Type: "Lambda",
			Parameters: []ProcessorParameter{
				{ParameterName: "LambdaArn", ParameterValue: p.FunctionARN},
				{ParameterName: "NumberOfRetries", ParameterValue: strconv.Itoa(p.Retries)},
				{ParameterName: "BufferSizeInMBs", ParameterValue: strconv.FormatInt(p.BufferSize/destination.MiB, 10)},
				{ParameterName: "BufferIntervalInSeconds", ParameterValue: strconv.FormatInt(int64(p.BufferInterval/time.Second), 10)},
				{ParameterName: "RoleArn", ParameterValue: b.role},
			},
		})
	}
	return out
}

func (c *Compiler) backup(t *Template, b *streamBuild, bk manifest.ResolvedBackup) (*S3DestinationConfiguration, error) {
	var bucketARN any
	if bk.Bucket != nil {
		bucketARN = bk.Bucket.ARN
	} else {
		bucketID := b.id + suffixBackupBucket
		var props BucketProperties
		if k := bk.S3.EncryptionKey; k != nil {
			props.BucketEncryption = &BucketEncryption{
				ServerSideEncryptionConfiguration: []ServerSideEncryptionRule{{
					ServerSideEncryptionByDefault: ServerSideEncryptionByDefault{
						SSEAlgorithm:   "aws:kms",
						KMSMasterKeyID: k.ARN,
					},
				}},
			}
		}
		if err := c.add(t, bucketID, TypeBucket, props); err != nil {
			return nil, err
		}
		bucketARN = GetAtt(bucketID, "Arn")
	}
	b.grants.bucket(bucketARN)
	if k := bk.S3.EncryptionKey; k != nil {
		b.grants.key(k.ARN)
	}
	logging, err := c.logging(t, b, bk.Logging, suffixBackupStream, logStreamNameBackup)
	if err != nil {
		return nil, err
	}
	return &S3DestinationConfiguration{
		BucketARN:                bucketARN,
		RoleARN:                  b.role,
		BufferingHints:           bufferingHints(bk.S3),
		CompressionFormat:        bk.S3.Compression.Value(),
		EncryptionConfiguration:  encryption(bk.S3.EncryptionKey),
		Prefix:                   bk.S3.DataOutputPrefix,
		ErrorOutputPrefix:        bk.S3.ErrorOutputPrefix,
		CloudWatchLoggingOptions: logging,
	}, nil
}

func bufferingHints(s manifest.ResolvedS3) BufferingHints {
	return BufferingHints{
		IntervalInSeconds: int(s.BufferingInterval / time.Second),
		SizeInMBs:         int(s.BufferingSize / destination.MiB),
	}
}

func encryption(k *destination.KeyRef) EncryptionConfiguration {
	if k == nil {
		return EncryptionConfiguration{NoEncryptionConfig: "NoEncryption"}
	}
	return EncryptionConfiguration{KMSEncryptionConfig: &KMSEncryptionConfig{AWSKMSKeyARN: k.ARN}}
}

package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	d "github.com/joeydtaylor/steeze-firehose/pkg/destination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlManifest = `
description = "click pipeline"

[[stream]]
name = "clicks"

[stream.s3]
bucket = "arn:aws:s3:::clicks-archive"
role = "arn:aws:iam::123456789012:role/clicks-delivery"
log_group = "/delivery/clicks"
buffering_interval = "2m"
buffering_size = "16MiB"
compression = "HADOOP_SNAPPY"
encryption_key = "arn:aws:kms:us-east-1:123456789012:alias/delivery"
data_output_prefix = "raw/!{timestamp:yyyy/MM/dd}/"
error_output_prefix = "errors/!{firehose:error-output-type}/"

[[stream.s3.processors]]
function_arn = "arn:aws:lambda:us-east-1:123456789012:function:enrich"
buffer_interval = "30s"
retries = 5

[[stream.s3.processors]]
function_arn = "arn:aws:lambda:us-east-1:123456789012:function:redact"

[stream.s3.s3_backup]
bucket = "arn:aws:s3:::clicks-backup"
compression = "GZIP"
`

const yamlManifest = `
streams:
  - name: views
    s3:
      bucket: arn:aws:s3:::views-archive
      logging: false
      buffering_interval: 900
      buffering_size: 128
      compression: zip
      s3_backup:
        mode: ALL
`

const jsonManifest = `{
  "streams": [
    {"name": "orders", "s3": {"bucket": "arn:aws:s3:::orders", "compression": "Snappy", "buffering_interval": 60, "buffering_size": "1MiB"}}
  ]
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadConfig_TOML(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "streams.toml", tomlManifest))
	require.NoError(t, err)
	require.Len(t, cfg.Streams, 1)
	assert.Equal(t, "click pipeline", cfg.Description)

	s := cfg.Streams[0].Destination
	assert.Equal(t, "arn:aws:s3:::clicks-archive", s.Bucket.ARN)
	assert.Equal(t, "arn:aws:iam::123456789012:role/clicks-delivery", s.Role.ARN)
	assert.Equal(t, "/delivery/clicks", s.LogGroup.Name())
	assert.Equal(t, 2*time.Minute, s.BufferingInterval.Duration)
	assert.Equal(t, 16*d.MiB, s.BufferingSize.Bytes())
	assert.Equal(t, d.CompressionHadoopSnappy, s.Compression)
	assert.Equal(t, "raw/!{timestamp:yyyy/MM/dd}/", *s.DataOutputPrefix)
	require.Len(t, s.Processors, 2)
	assert.Equal(t, 30*time.Second, s.Processors[0].BufferInterval.Duration)
	assert.Equal(t, 5, *s.Processors[0].Retries)
	assert.Nil(t, s.Processors[1].Retries)
	require.NotNil(t, s.S3Backup)
	assert.Equal(t, "arn:aws:s3:::clicks-backup", s.S3Backup.Bucket.ARN)
	assert.Equal(t, d.CompressionGzip, s.S3Backup.Compression)
	assert.True(t, s.S3Backup.Mode.IsZero())
}

func TestLoadConfig_YAML(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "streams.yml", yamlManifest))
	require.NoError(t, err)
	s := cfg.Streams[0].Destination
	assert.False(t, *s.Logging)
	assert.Equal(t, 15*time.Minute, s.BufferingInterval.Duration)
	assert.Equal(t, 128*d.MiB, s.BufferingSize.Bytes())
	assert.Equal(t, d.CompressionZip, s.Compression)
	assert.Equal(t, d.BackupModeAll, s.S3Backup.Mode)
}

func TestLoadConfig_JSON(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "streams.json", jsonManifest))
	require.NoError(t, err)
	s := cfg.Streams[0].Destination
	assert.Equal(t, d.CompressionSnappy, s.Compression)
	assert.Equal(t, time.Minute, s.BufferingInterval.Duration)
}

func TestDecode_RejectsUnknownCompression(t *testing.T) {
	_, err := Decode(FormatYAML, []byte("streams:\n  - name: a\n    s3: {bucket: 'arn:aws:s3:::a', compression: LZ4}\n"))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
	assert.ErrorIs(t, err, d.ErrUnknownCompression)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(FormatTOML, []byte("[[stream]]\nname = \"a\"\n[stream.s3]\nbucket = \"arn:aws:s3:::a\"\nbuffer_secs = 3\n"))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
}

func TestDecode_ValidationErrorIsNotDecodeError(t *testing.T) {
	_, err := Decode(FormatJSON, []byte(`{"streams":[{"name":"a","s3":{"bucket":"arn:aws:s3:::a","buffering_size":"8MiB"}}]}`))
	require.Error(t, err)
	assert.False(t, IsDecodeError(err))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"stream 0 (a): s3: buffering_interval and buffering_size must be set together"}, ve.Violations())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTOML, ".toml": FormatTOML, "yml": FormatYAML, ".YAML": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat(".ini")
	assert.Error(t, err)
}

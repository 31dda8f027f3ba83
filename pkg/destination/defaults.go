package destination

import "time"

// Defaults and bounds a consumer applies when rendering a destination. The property
// shapes in this package only carry them; manifest.Validate and manifest.Resolve enforce them.
const (
	DefaultBufferingInterval = 300 * time.Second
	MinBufferingInterval     = 60 * time.Second
	MaxBufferingInterval     = 900 * time.Second

	DefaultBufferingSize = 5 * MiB
	MinBufferingSize     = 1 * MiB
	MaxBufferingSize     = 128 * MiB

	// DefaultPrefix documents the date layout the delivery service uses for object keys
	// when no prefix is given. It is not written into templates.
	DefaultPrefix = "YYYY/MM/DD/HH"

	DefaultLogging = true
)

// Data processor tuning.
const (
	DefaultProcessorBufferInterval = 60 * time.Second
	MinProcessorBufferInterval     = 1 * time.Second
	MaxProcessorBufferInterval     = 900 * time.Second

	DefaultProcessorBufferSize = 3 * MiB
	MinProcessorBufferSize     = 1 * MiB
	MaxProcessorBufferSize     = 3 * MiB

	DefaultProcessorRetries = 3
)

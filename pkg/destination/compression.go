package destination

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCompression is returned when a tag does not name one of the supported formats.
var ErrUnknownCompression = errors.New("unknown compression")

// Compression is the closed set of formats records can be compressed with before they
// land in the bucket. The zero value means "not set".
type Compression uint8

const (
	CompressionGzip Compression = iota + 1
	CompressionHadoopSnappy
	CompressionSnappy
	CompressionUncompressed
	CompressionZip
)

// DefaultCompression applies when a destination leaves compression unset.
const DefaultCompression = CompressionUncompressed

// Tags are passed verbatim to the rendered template. Note "Snappy" is not upper case.
var compressionTags = [...]string{
	CompressionGzip:         "GZIP",
	CompressionHadoopSnappy: "HADOOP_SNAPPY",
	CompressionSnappy:       "Snappy",
	CompressionUncompressed: "UNCOMPRESSED",
	CompressionZip:          "ZIP",
}

// Compressions returns every supported format in declaration order.
func Compressions() []Compression {
	return []Compression{
		CompressionGzip,
		CompressionHadoopSnappy,
		CompressionSnappy,
		CompressionUncompressed,
		CompressionZip,
	}
}

// Value returns the string tag for c, or "" when c is unset or out of range.
func (c Compression) Value() string {
	if !c.Valid() {
		return ""
	}
	return compressionTags[c]
}

func (c Compression) String() string {
	if v := c.Value(); v != "" {
		return v
	}
	if c.IsZero() {
		return "unset"
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

func (c Compression) IsZero() bool { return c == 0 }

// Valid reports whether c is one of the five supported formats.
func (c Compression) Valid() bool {
	return c >= CompressionGzip && c <= CompressionZip
}

// OrDefault returns c, or DefaultCompression when c is unset.
func (c Compression) OrDefault() Compression {
	if c.IsZero() {
		return DefaultCompression
	}
	return c
}

// ParseCompression maps a tag to its format. Exact tags win; otherwise the match is
// case-insensitive so "gzip" and "hadoop_snappy" are accepted too.
func ParseCompression(s string) (Compression, error) {
	s = strings.TrimSpace(s)
	for _, c := range Compressions() {
		if compressionTags[c] == s {
			return c, nil
		}
	}
	for _, c := range Compressions() {
		if strings.EqualFold(compressionTags[c], s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w %q (want one of %s)", ErrUnknownCompression, s, strings.Join(compressionValues(), ", "))
}

func compressionValues() []string {
	out := make([]string, 0, len(compressionTags)-1)
	for _, c := range Compressions() {
		out = append(out, compressionTags[c])
	}
	return out
}

func (c Compression) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return []byte{}, nil
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
	return []byte(compressionTags[c]), nil
}

func (c *Compression) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*c = 0
		return nil
	}
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

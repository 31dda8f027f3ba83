package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Codec encodes request and response payloads.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// JSONStrict rejects unknown fields and trailing content, and never escapes HTML so
// prefix expressions like "!{timestamp:yyyy}" and "<" survive verbatim.
var JSONStrict Codec = jsonCodec{}

// JSONPretty is JSONStrict with two-space indentation on output.
var JSONPretty Codec = jsonCodec{indent: "  "}

type jsonCodec struct{ indent string }

func (c jsonCodec) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	// Probe for trailing data (must be EOF)
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("json trailing content")
	}
	return nil
}

func (jsonCodec) ContentType() string { return "application/json" }

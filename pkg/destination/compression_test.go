package destination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionTags(t *testing.T) {
	want := map[Compression]string{
		CompressionGzip:         "GZIP",
		CompressionHadoopSnappy: "HADOOP_SNAPPY",
		CompressionSnappy:       "Snappy",
		CompressionUncompressed: "UNCOMPRESSED",
		CompressionZip:          "ZIP",
	}
	require.Len(t, Compressions(), 5)
	for _, c := range Compressions() {
		assert.Equal(t, want[c], c.Value())
		assert.Equal(t, want[c], c.String())
	}
}

func TestCompressionClosedSet(t *testing.T) {
	assert.False(t, Compression(0).Valid())
	assert.True(t, Compression(0).IsZero())
	assert.False(t, Compression(42).Valid())
	assert.Equal(t, "", Compression(42).Value())
	assert.Equal(t, CompressionUncompressed, Compression(0).OrDefault())
	assert.Equal(t, CompressionZip, CompressionZip.OrDefault())

	_, err := Compression(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("Snappy")
	require.NoError(t, err)
	assert.Equal(t, CompressionSnappy, c)

	c, err = ParseCompression("hadoop_snappy")
	require.NoError(t, err)
	assert.Equal(t, CompressionHadoopSnappy, c)

	c, err = ParseCompression(" gzip ")
	require.NoError(t, err)
	assert.Equal(t, CompressionGzip, c)

	_, err = ParseCompression("zstd")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestCompressionJSON(t *testing.T) {
	var v struct {
		C Compression `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"c":"Snappy"}`), &v))
	assert.Equal(t, CompressionSnappy, v.C)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"Snappy"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"c":"LZ4"}`), &v))
}

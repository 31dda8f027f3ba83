package destination

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationText(t *testing.T) {
	cases := map[string]time.Duration{
		"300":  300 * time.Second,
		"5m":   5 * time.Minute,
		"90s":  90 * time.Second,
		" 60 ": time.Minute,
	}
	for in, want := range cases {
		var d Duration
		require.NoError(t, d.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, d.Duration, in)
	}
	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Error(t, d.UnmarshalText(nil))
	assert.ErrorContains(t, d.UnmarshalText([]byte("36028797018964268")), "out of range")
	assert.ErrorContains(t, d.UnmarshalText([]byte("-36028797018964268")), "out of range")
	require.NoError(t, d.UnmarshalText([]byte("9223372036")))
	assert.Equal(t, 9223372036*time.Second, d.Duration)
	assert.Equal(t, 300, Seconds(300).WholeSeconds())
}

func TestSizeText(t *testing.T) {
	cases := map[string]int64{
		"5":      5 * MiB,
		"5MiB":   5 * MiB,
		"64 MB":  64 * MiB,
		"512KiB": 512 * KiB,
		"1g":     GiB,
	}
	for in, want := range cases {
		var s Size
		require.NoError(t, s.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, s.Bytes(), in)
	}
	var s Size
	assert.Error(t, s.UnmarshalText([]byte("MiB")))
	assert.Error(t, s.UnmarshalText([]byte("5 parsecs")))
	assert.ErrorContains(t, s.UnmarshalText([]byte("17592186044421MiB")), "out of range")
	assert.ErrorContains(t, s.UnmarshalText([]byte("8589934592GiB")), "out of range")
	require.NoError(t, s.UnmarshalText([]byte("8589934591GiB")))

	assert.Equal(t, "5MiB", Mebibytes(5).String())
	assert.True(t, Mebibytes(5).IsWholeMebibytes())
	assert.False(t, Size{bytes: 512 * KiB}.IsWholeMebibytes())
}

func TestUnitsJSONNumbers(t *testing.T) {
	var v struct {
		Interval Duration `json:"interval"`
		Size     Size     `json:"size"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"interval":120,"size":8}`), &v))
	assert.Equal(t, 2*time.Minute, v.Interval.Duration)
	assert.Equal(t, 8*MiB, v.Size.Bytes())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"interval":"2m0s","size":"8MiB"}`, string(out))
}

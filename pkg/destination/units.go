package destination

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Largest second count a time.Duration can hold.
const maxWholeSeconds = math.MaxInt64 / int64(time.Second)

// Duration is a buffering interval. Text forms: "5m", "300s", or a bare integer
// number of seconds ("300"). JSON numbers are seconds as well.
type Duration struct{ time.Duration }

// Seconds is shorthand for a Duration of n seconds.
func Seconds(n int) Duration { return Duration{time.Duration(n) * time.Second} }

// WholeSeconds returns d truncated to seconds, which is what the template carries.
func (d Duration) WholeSeconds() int { return int(d.Duration / time.Second) }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.Duration.String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > maxWholeSeconds || n < -maxWholeSeconds {
			return fmt.Errorf("duration %q out of range", s)
		}
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	return d.UnmarshalText(bytes.Trim(b, `"`))
}

const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
	GiB int64 = 1 << 30
)

// Size is a buffer size in bytes. Text forms: "5MiB", "5 MB", "512KiB", or a bare
// integer number of mebibytes ("5"). JSON numbers are mebibytes as well.
type Size struct{ bytes int64 }

// Mebibytes is shorthand for a Size of n MiB.
func Mebibytes(n int) Size { return Size{int64(n) * MiB} }

func (s Size) Bytes() int64 { return s.bytes }

// WholeMebibytes returns the size in MiB, truncated.
func (s Size) WholeMebibytes() int { return int(s.bytes / MiB) }

// IsWholeMebibytes reports whether s can be carried as an integer MiB count.
func (s Size) IsWholeMebibytes() bool { return s.bytes%MiB == 0 }

func (s Size) String() string {
	switch {
	case s.bytes != 0 && s.bytes%GiB == 0:
		return fmt.Sprintf("%dGiB", s.bytes/GiB)
	case s.bytes != 0 && s.bytes%MiB == 0:
		return fmt.Sprintf("%dMiB", s.bytes/MiB)
	case s.bytes != 0 && s.bytes%KiB == 0:
		return fmt.Sprintf("%dKiB", s.bytes/KiB)
	default:
		return fmt.Sprintf("%dB", s.bytes)
	}
}

func (s Size) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Binary and decimal spellings are treated alike ("MB" == "MiB").
var sizeUnits = map[string]int64{
	"":    MiB,
	"b":   1,
	"k":   KiB,
	"kb":  KiB,
	"kib": KiB,
	"m":   MiB,
	"mb":  MiB,
	"mib": MiB,
	"g":   GiB,
	"gb":  GiB,
	"gib": GiB,
}

func (s *Size) UnmarshalText(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" {
		return fmt.Errorf("empty size")
	}
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i == 0 {
		return fmt.Errorf("size %q: missing number", raw)
	}
	n, err := strconv.ParseInt(raw[:i], 10, 64)
	if err != nil {
		return fmt.Errorf("size %q: %w", raw, err)
	}
	unit, ok := sizeUnits[strings.ToLower(strings.TrimSpace(raw[i:]))]
	if !ok {
		return fmt.Errorf("size %q: unknown unit", raw)
	}
	if n > math.MaxInt64/unit {
		return fmt.Errorf("size %q out of range", raw)
	}
	s.bytes = n * unit
	return nil
}

func (s *Size) UnmarshalJSON(b []byte) error {
	return s.UnmarshalText(bytes.Trim(b, `"`))
}

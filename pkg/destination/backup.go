package destination

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBackupMode = errors.New("unknown backup mode")

// BackupMode controls which records are also written to the backup bucket.
// The zero value means "not set"; see ResolveBackupMode for how it is defaulted.
type BackupMode uint8

const (
	BackupModeAll      BackupMode = iota + 1 // every record
	BackupModeFailed                         // only records that failed delivery
	BackupModeDisabled                       // no backup
)

var backupModeNames = [...]string{
	BackupModeAll:      "ALL",
	BackupModeFailed:   "FAILED",
	BackupModeDisabled: "DISABLED",
}

// BackupModes returns the three modes.
func BackupModes() []BackupMode {
	return []BackupMode{BackupModeAll, BackupModeFailed, BackupModeDisabled}
}

func (m BackupMode) IsZero() bool { return m == 0 }

func (m BackupMode) Valid() bool { return m >= BackupModeAll && m <= BackupModeDisabled }

func (m BackupMode) String() string {
	if m.Valid() {
		return backupModeNames[m]
	}
	if m.IsZero() {
		return "unset"
	}
	return fmt.Sprintf("BackupMode(%d)", uint8(m))
}

// ResolveBackupMode returns the effective mode: an explicit mode wins, a supplied
// backup bucket implies ALL, and anything else is DISABLED.
func ResolveBackupMode(mode BackupMode, hasBucket bool) BackupMode {
	switch {
	case !mode.IsZero():
		return mode
	case hasBucket:
		return BackupModeAll
	default:
		return BackupModeDisabled
	}
}

func ParseBackupMode(s string) (BackupMode, error) {
	s = strings.TrimSpace(s)
	for _, m := range BackupModes() {
		if strings.EqualFold(backupModeNames[m], s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w %q (want ALL, FAILED or DISABLED)", ErrUnknownBackupMode, s)
}

func (m BackupMode) MarshalText() ([]byte, error) {
	if m.IsZero() {
		return []byte{}, nil
	}
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBackupMode, uint8(m))
	}
	return []byte(backupModeNames[m]), nil
}

func (m *BackupMode) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*m = 0
		return nil
	}
	v, err := ParseBackupMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

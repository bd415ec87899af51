package loggerr

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"golift.io/loggerr/timerotator"
)

// Mode selects how a logger's destination files are rotated.
type Mode uint8

// The two supported rotation modes.
const (
	ModeSize Mode = iota // rotate when the file exceeds a byte threshold.
	ModeTime             // rotate when a clock boundary passes.
)

// Level is the severity of a log record. Records below a Spec's Level are dropped.
type Level int32

// Levels, least to most severe. The zero value is LevelInfo, so a Spec that
// never sets Level writes info and above.
const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

// String returns the upper-case tag written into log records.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "LEVEL(" + strconv.Itoa(int(l)) + ")"
	}
}

// ParseLevel converts a level name into a Level. Case insensitive.
// "warn" and "fatal" are accepted aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadLevel, s)
	}
}

// DateFormat is the default Go time layout for record time stamps.
const DateFormat = "2006-01-02T15:04:05.000"

// Spec is an immutable description of one managed logger. Construct it once
// (usually from your configuration layer) and hand it to New or to a
// registry; loggerr never mutates a Spec it is given.
type Spec struct {
	Name          string             // Logger name, written into every record.
	Level         Level              // Minimum severity to write.
	Timezone      string             // IANA zone for time stamps and boundaries. Empty means local.
	DateFormat    string             // Go time layout for record stamps. Default: DateFormat.
	Directory     string             // Directory holding the log files. Default: os.TempDir().
	Filenames     []string           // Destination files; one rotation handler each. Default: Name + ".log".
	Mode          Mode               // ModeSize or ModeTime.
	MaxBytes      int64              // ModeSize: rotate past this many bytes. Must be positive.
	When          timerotator.When   // ModeTime: calendar boundary or fixed period. Default: midnight.
	Interval      time.Duration      // ModeTime: custom fixed period; overrides When when set.
	RotateAtUTC   bool               // ModeTime: compute boundaries in UTC instead of Timezone.
	ArchiveFormat string             // ModeTime: Go time layout naming rotated archives. Default: timerotator.FormatDefault.
	MaxArchives   int                // Keep at most this many rotated files. 0 keeps all.
	MaxArchiveAge time.Duration      // Delete rotated files older than this. 0 keeps all.
	Compress      bool               // Gzip rotated files.
	Stream        bool               // Also write records to stderr.
	ShowLocation  bool               // Include the file:line of the caller in records.
	Encoding      string             // Charset label for identity and introspection only; records are written verbatim. Default: utf-8.
}

// Fingerprint is a deterministic key over every field of a Spec.
// Equal specs always produce equal fingerprints; the registry uses it
// to find live loggers.
type Fingerprint uint64

// String returns the fingerprint in the fixed-width hex form used in
// error messages and registry diagnostics.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Fingerprint hashes every Spec field into a stable cache key.
func (s *Spec) Fingerprint() Fingerprint {
	digest := xxhash.New()
	field := func(v string) {
		_, _ = digest.WriteString(v)
		_, _ = digest.Write([]byte{0})
	}

	field(s.Name)
	field(strconv.Itoa(int(s.Level)))
	field(s.Timezone)
	field(s.DateFormat)
	field(s.Directory)
	field(strconv.Itoa(len(s.Filenames)))

	for _, name := range s.Filenames {
		field(name)
	}

	field(strconv.Itoa(int(s.Mode)))
	field(strconv.FormatInt(s.MaxBytes, 10))
	field(string(s.When))
	field(strconv.FormatInt(int64(s.Interval), 10))
	field(strconv.FormatBool(s.RotateAtUTC))
	field(s.ArchiveFormat)
	field(strconv.Itoa(s.MaxArchives))
	field(strconv.FormatInt(int64(s.MaxArchiveAge), 10))
	field(strconv.FormatBool(s.Compress))
	field(strconv.FormatBool(s.Stream))
	field(strconv.FormatBool(s.ShowLocation))
	field(s.Encoding)

	return Fingerprint(digest.Sum64())
}

// withDefaults returns a copy of the spec with unset optional fields filled in.
// Required fields are left alone; New validates those.
func (s *Spec) withDefaults() *Spec {
	out := *s
	out.Filenames = append([]string(nil), s.Filenames...)

	if out.Name == "" {
		out.Name = "app"
	}

	if out.DateFormat == "" {
		out.DateFormat = DateFormat
	}

	if out.Directory == "" {
		out.Directory = defaultDirectory()
	}

	if len(out.Filenames) == 0 {
		out.Filenames = []string{out.Name + ".log"}
	}

	if out.Mode == ModeTime && out.When == "" && out.Interval == 0 {
		out.When = timerotator.Midnight
	}

	if out.Encoding == "" {
		out.Encoding = "utf-8"
	}

	return &out
}

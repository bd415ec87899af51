package loggerr_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golift.io/loggerr"
	"golift.io/loggerr/timerotator"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	spec := &loggerr.Spec{
		Name:      "service",
		Level:     loggerr.LevelInfo,
		Directory: "/var/log/service",
		Filenames: []string{"service.log", "errors.log"},
		Mode:      loggerr.ModeSize,
		MaxBytes:  1024,
	}
	same := *spec
	same.Filenames = []string{"service.log", "errors.log"}

	assert.Equal(spec.Fingerprint(), same.Fingerprint(), "equal specs must produce equal fingerprints")

	for _, change := range []func(s *loggerr.Spec){
		func(s *loggerr.Spec) { s.Name = "other" },
		func(s *loggerr.Spec) { s.Level = loggerr.LevelError },
		func(s *loggerr.Spec) { s.Timezone = "UTC" },
		func(s *loggerr.Spec) { s.Filenames = []string{"errors.log", "service.log"} },
		func(s *loggerr.Spec) { s.Mode = loggerr.ModeTime },
		func(s *loggerr.Spec) { s.MaxBytes = 2048 },
		func(s *loggerr.Spec) { s.When = timerotator.Midnight },
		func(s *loggerr.Spec) { s.Interval = time.Minute },
		func(s *loggerr.Spec) { s.RotateAtUTC = true },
		func(s *loggerr.Spec) { s.ArchiveFormat = timerotator.FormatDaily },
		func(s *loggerr.Spec) { s.MaxArchives = 7 },
		func(s *loggerr.Spec) { s.Compress = true },
		func(s *loggerr.Spec) { s.Stream = true },
		func(s *loggerr.Spec) { s.ShowLocation = true },
	} {
		changed := *spec
		changed.Filenames = append([]string(nil), spec.Filenames...)
		change(&changed)
		assert.NotEqual(spec.Fingerprint(), changed.Fingerprint(), "changed spec must change the fingerprint")
	}
}

func TestFingerprintString(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.Len(loggerr.Fingerprint(0).String(), 16, "fingerprints render fixed-width")
	assert.Equal("00000000000000ff", loggerr.Fingerprint(255).String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	for name, want := range map[string]loggerr.Level{
		"debug":    loggerr.LevelDebug,
		"INFO":     loggerr.LevelInfo,
		"warn":     loggerr.LevelWarning,
		" Warning": loggerr.LevelWarning,
		"error":    loggerr.LevelError,
		"fatal":    loggerr.LevelCritical,
		"CRITICAL": loggerr.LevelCritical,
	} {
		level, err := loggerr.ParseLevel(name)
		assert.NoError(err)
		assert.Equal(want, level)
	}

	_, err := loggerr.ParseLevel("loud")
	assert.ErrorIs(err, loggerr.ErrBadLevel)
}

func TestLevelString(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.Equal("WARNING", loggerr.LevelWarning.String())
	assert.Equal("LEVEL(42)", loggerr.Level(42).String())
}

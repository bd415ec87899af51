package loggerr

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golift.io/loggerr/compressor"
	"golift.io/loggerr/rotation"
	"golift.io/loggerr/sizerotator"
	"golift.io/loggerr/timerotator"
)

// Logger is a managed log destination: one rotation handler per configured
// file plus an optional console sink, all behind a lock scoped to this
// instance. Obtain one from New, or share one through a registry.
//
// Log never returns destination I/O errors. When a handler fails, the record
// falls back to the console sink and the handler stays degraded until Reopen
// is called; the failure is available through Err.
type Logger struct {
	spec     *Spec
	fp       Fingerprint
	loc      *time.Location
	mu       sync.Mutex
	handlers []*rotation.Handler
	console  io.Writer
	closed   bool
	lastErr  error
}

func defaultDirectory() string {
	return os.TempDir()
}

// New materializes a spec into a live Logger. It resolves the timezone,
// creates the log directories and opens every destination file. Any failure
// returns a *ConfigError and closes whatever was already opened, so a failed
// construction never leaks a file handle.
func New(spec *Spec) (*Logger, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}

	logger := &Logger{fp: spec.Fingerprint(), console: os.Stderr}
	logger.spec = spec.withDefaults()

	loc, err := loadLocation(logger.spec.Timezone)
	if err != nil {
		return nil, configErr(logger.spec.Name, logger.fp, err)
	}

	logger.loc = loc

	for _, name := range logger.spec.Filenames {
		if name == "" {
			logger.closeHandlers()

			return nil, configErr(logger.spec.Name, logger.fp, ErrNoFilenames)
		}

		config, err := logger.handlerConfig(name)
		if err != nil {
			logger.closeHandlers()

			return nil, configErr(logger.spec.Name, logger.fp, err)
		}

		handler, err := rotation.New(config)
		if err != nil {
			logger.closeHandlers()

			return nil, configErr(logger.spec.Name, logger.fp, err)
		}

		logger.handlers = append(logger.handlers, handler)
	}

	return logger, nil
}

// handlerConfig builds the rotation config for one destination file,
// wiring in the archiver and schedule the spec's mode calls for.
func (l *Logger) handlerConfig(name string) (*rotation.Config, error) {
	spec := l.spec
	config := &rotation.Config{Filepath: filepath.Join(spec.Directory, name)}

	var post func(fileName, newFile string)
	if spec.Compress {
		post = compressor.PostRotate
	}

	switch spec.Mode {
	case ModeTime:
		boundaryLoc := l.loc
		if spec.RotateAtUTC {
			boundaryLoc = time.UTC
		}

		schedule, err := timerotator.NewSchedule(spec.When, spec.Interval, boundaryLoc)
		if err != nil {
			return nil, err
		}

		config.Schedule = schedule
		config.Archiver = &timerotator.Layout{
			FileCount:  spec.MaxArchives,
			FileAge:    spec.MaxArchiveAge,
			UseUTC:     spec.RotateAtUTC,
			Loc:        l.loc,
			Format:     spec.ArchiveFormat,
			PostRotate: post,
		}
	case ModeSize:
		fallthrough
	default:
		if spec.MaxBytes <= 0 {
			return nil, ErrNoThreshold
		}

		config.MaxBytes = spec.MaxBytes
		config.Archiver = &sizerotator.Layout{
			FileCount:  spec.MaxArchives,
			PostRotate: post,
		}
	}

	return config, nil
}

// loadLocation resolves an IANA zone name. An empty name means local time.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrBadTimezone
	}

	return loc, nil
}

// Log writes one record at the given level. Records below the spec's level
// are dropped before formatting. Concurrent calls on the same Logger are
// serialized; records never interleave.
func (l *Logger) Log(level Level, msg string, fields ...any) {
	l.Output(2, level, msg, fields...) //nolint:gomnd
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, fields ...any) {
	l.Output(2, LevelDebug, msg, fields...) //nolint:gomnd
}

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, fields ...any) {
	l.Output(2, LevelInfo, msg, fields...) //nolint:gomnd
}

// Warning logs at LevelWarning.
func (l *Logger) Warning(msg string, fields ...any) {
	l.Output(2, LevelWarning, msg, fields...) //nolint:gomnd
}

// Error logs at LevelError.
func (l *Logger) Error(msg string, fields ...any) {
	l.Output(2, LevelError, msg, fields...) //nolint:gomnd
}

// Critical logs at LevelCritical.
func (l *Logger) Critical(msg string, fields ...any) {
	l.Output(2, LevelCritical, msg, fields...) //nolint:gomnd
}

// Output writes a record with a caller depth, for wrappers that add their
// own stack frame. calldepth works like the standard log package: 2 names
// the caller of the wrapper.
func (l *Logger) Output(calldepth int, level Level, msg string, fields ...any) {
	if level < l.spec.Level {
		return
	}

	record := l.render(calldepth+1, level, msg, fields)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		_, _ = l.console.Write(record)

		return
	}

	wrote := false

	for _, handler := range l.handlers {
		if _, err := handler.Write(record); err != nil {
			l.lastErr = &WriteError{Name: l.spec.Name, Path: handler.Path(), Err: err}
		} else {
			wrote = true
		}
	}

	if l.spec.Stream || !wrote {
		_, _ = l.console.Write(record)
	}
}

// Rotate forces every handler to rotate immediately.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	var firstErr error

	for _, handler := range l.handlers {
		if _, err := handler.Rotate(); err != nil && firstErr == nil {
			firstErr = &WriteError{Name: l.spec.Name, Path: handler.Path(), Err: err}
		}
	}

	return firstErr
}

// Reopen clears degraded handlers and reopens their files. This is the only
// way back from console-only fallback after a destination failure.
func (l *Logger) Reopen() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.lastErr = nil

	var firstErr error

	for _, handler := range l.handlers {
		if err := handler.Reopen(); err != nil && firstErr == nil {
			firstErr = &WriteError{Name: l.spec.Name, Path: handler.Path(), Err: err}
		}
	}

	return firstErr
}

// Close flushes and closes every handler. Repeated calls are a no-op.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true

	var firstErr error

	for _, handler := range l.handlers {
		if err := handler.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// closeHandlers tears down partially-constructed state without marking the
// logger used. Only New calls this.
func (l *Logger) closeHandlers() {
	for _, handler := range l.handlers {
		_ = handler.Close()
	}

	l.handlers = nil
}

// Err returns the most recent destination failure, or nil. Reopen clears it.
func (l *Logger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.lastErr
}

// Degraded reports whether any handler is running in console-only fallback.
func (l *Logger) Degraded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, handler := range l.handlers {
		if handler.Degraded() != nil {
			return true
		}
	}

	return false
}

// SetConsole replaces the console sink (default os.Stderr). Handy for tests
// and for processes that own their stderr.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.console = w
}

// Name returns the spec's logger name.
func (l *Logger) Name() string { return l.spec.Name }

// Fingerprint returns the cache key of the spec this logger was built from.
func (l *Logger) Fingerprint() Fingerprint { return l.fp }

// Spec returns a copy of the resolved spec, defaults filled in.
func (l *Logger) Spec() Spec { return *l.spec }

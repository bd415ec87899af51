// Package rotation contains the state machine that owns one destination log
// file: it opens the file, counts bytes, watches the clock, and hands the
// file to an Archiver when a rotation trigger fires. The archive naming and
// retention policies live in the sizerotator and timerotator packages.
//
// A Handler assumes a single writer at a time. Callers that share a Handler
// across goroutines must serialize access themselves; the Logger facade in
// the root package does exactly that with a per-instance lock.
package rotation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golift.io/loggerr/filer"
)

//go:generate mockgen -destination=../mocks/archiver.go -package=mocks golift.io/loggerr/rotation Archiver

// Archiver decides what happens to a full log file. Rotate renames the file
// out of the way and prunes old archives; Post runs after the fresh file is
// open (compression hooks go here); Dirs is called once on startup to
// validate the policy and list the directories to create.
type Archiver interface {
	Rotate(fileName string) (newFile string, err error)
	Post(fileName, newFile string)
	Dirs(fileName string) (dirPaths []string, err error)
}

// Schedule yields the next wall-clock instant a time-triggered handler must
// rotate at. Implementations live in the timerotator package.
type Schedule interface {
	Next(after time.Time) time.Time
}

// These are the default directory and log file POSIX modes.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o750
)

// Custom errors returned by this package.
var (
	ErrNilArchiver = errors.New("nil Archiver provided")
	ErrClosed      = errors.New("rotation handler is closed")
)

// Config is the data needed to create a new Handler.
type Config struct {
	Filepath string      // REQUIRED: full path to the log file.
	FileMode os.FileMode // POSIX mode for new files.
	DirMode  os.FileMode // POSIX mode for new folders.
	MaxBytes int64       // Rotate when the file would exceed this size. 0 disables the size trigger.
	Schedule Schedule    // Rotate when this boundary passes. Nil disables the time trigger.
	Archiver Archiver    // REQUIRED: archive naming and retention policy.
}

// Handler owns one destination file and its rotation state. Obtain one from
// New. The zero value is not usable.
type Handler struct {
	config *Config
	filer.Filer
	file     *os.File  // the active open file.
	size     int64     // bytes in the active file.
	seq      uint64    // rotations performed; strictly increasing.
	next     time.Time // next time-trigger boundary.
	closed   bool
	degraded error // last write or rotate failure; sticky until Reopen.
}

// New validates the config, creates any needed directories, opens the log
// file and computes the first rotation boundary. Any failure closes whatever
// was already opened before returning.
func New(config *Config) (*Handler, error) {
	if config.Archiver == nil {
		return nil, ErrNilArchiver
	}

	handler := &Handler{config: config, Filer: filer.Default()}
	handler.setConfigDefaults()

	dirs, err := config.Archiver.Dirs(config.Filepath)
	if err != nil {
		return nil, fmt.Errorf("validating archiver: %w", err)
	}

	for _, dir := range dirs {
		if err := handler.MkdirAll(dir, config.DirMode); err != nil {
			return nil, fmt.Errorf("making directories for logfiles: %w", err)
		}
	}

	if err := handler.openLog(); err != nil {
		return nil, err
	}

	if config.Schedule != nil {
		handler.next = config.Schedule.Next(time.Now())
	}

	return handler, nil
}

// setConfigDefaults does exactly what it says. Sets missing values.
func (h *Handler) setConfigDefaults() {
	if h.config.DirMode == 0 {
		h.config.DirMode = DirMode
	}

	if h.config.FileMode == 0 {
		h.config.FileMode = FileMode
	}
}

// openLog opens the log file for writing.
// If the file exists, it is appended to. If it does not exist, it is created.
func (h *Handler) openLog() error {
	if err := h.MkdirAll(filepath.Dir(h.config.Filepath), h.config.DirMode); err != nil {
		return fmt.Errorf("making directories for logfiles: %w", err)
	}

	perm := os.O_WRONLY | os.O_APPEND

	if info, err := h.Stat(h.config.Filepath); err != nil {
		// File doesn't exist, or something wrong, truncate it!
		perm = os.O_WRONLY | os.O_TRUNC | os.O_CREATE
		h.size = 0
	} else {
		h.size = info.Size()
	}

	file, err := h.OpenFile(h.config.Filepath, perm, h.config.FileMode)
	if err != nil {
		return fmt.Errorf("error with new logfile: %w", err)
	}

	h.file = file

	return nil
}

// Write appends one record to the active file, rotating first if the record
// would push the file past the size threshold or the clock passed the next
// boundary. A single record larger than the threshold is written whole,
// exceeding the threshold once, rather than being split. After an I/O
// failure the handler is degraded: Write keeps returning the original error
// until Reopen is called.
func (h *Handler) Write(b []byte) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}

	if h.degraded != nil {
		return 0, h.degraded
	}

	if h.shouldRotate(int64(len(b)), time.Now()) {
		if err := h.rotate(); err != nil {
			h.degraded = err

			return 0, err
		}
	}

	size, err := h.file.Write(b)
	h.size += int64(size)

	if err != nil {
		h.degraded = fmt.Errorf("error writing log msg: %w", err)

		return size, h.degraded
	}

	return size, nil
}

// shouldRotate checks both triggers. The size trigger never fires on an
// empty file, so an oversized record lands whole instead of rotating
// nothing and then overflowing anyway.
func (h *Handler) shouldRotate(pending int64, now time.Time) bool {
	if h.config.MaxBytes > 0 && h.size > 0 && h.size+pending > h.config.MaxBytes {
		return true
	}

	if h.config.Schedule != nil && !now.Before(h.next) {
		return true
	}

	return false
}

// Rotate forces a rotation immediately. Returns the size of the rotated log.
func (h *Handler) Rotate() (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}

	size := h.size

	if err := h.rotate(); err != nil {
		h.degraded = err

		return size, err
	}

	return size, nil
}

// rotate closes the active file, hands it to the Archiver for renaming and
// pruning, opens a fresh file at the canonical path and advances the
// rotation state.
func (h *Handler) rotate() error {
	if err := h.closeFile(); err != nil {
		return err
	}

	newFile, err := h.config.Archiver.Rotate(h.config.Filepath)
	if newFile != "" {
		defer h.config.Archiver.Post(h.config.Filepath, newFile)
	}

	if err != nil {
		return fmt.Errorf("error archiving log: %w", err)
	}

	h.seq++

	if h.config.Schedule != nil {
		h.next = h.config.Schedule.Next(time.Now())
	}

	return h.openLog()
}

// Reopen clears a degraded handler and opens the log file again. It is the
// only way out of the degraded state. Safe to call on a healthy handler.
func (h *Handler) Reopen() error {
	if h.closed {
		return ErrClosed
	}

	h.degraded = nil

	if h.file != nil {
		return nil
	}

	if err := h.openLog(); err != nil {
		h.degraded = err

		return err
	}

	return nil
}

// Close flushes and closes the active file. Repeated calls are a no-op.
func (h *Handler) Close() error {
	if h.closed {
		return nil
	}

	h.closed = true

	return h.closeFile()
}

// closeFile closes the active log file if one is open.
func (h *Handler) closeFile() error {
	if h.file == nil {
		return nil
	}

	err := h.file.Close()
	h.file = nil

	if err != nil {
		return fmt.Errorf("closing log file %s: %w", h.config.Filepath, err)
	}

	return nil
}

// Path returns the canonical path of the active file.
func (h *Handler) Path() string { return h.config.Filepath }

// Size returns the byte count of the active file.
func (h *Handler) Size() int64 { return h.size }

// Sequence returns how many rotations this handler has performed.
func (h *Handler) Sequence() uint64 { return h.seq }

// NextRotation returns the next time-trigger boundary, or the zero time when
// no schedule is configured.
func (h *Handler) NextRotation() time.Time { return h.next }

// Degraded returns the error that degraded the handler, or nil while healthy.
func (h *Handler) Degraded() error { return h.degraded }

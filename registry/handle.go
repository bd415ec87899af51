package registry

import (
	"sync/atomic"

	"golift.io/loggerr"
)

// Handle is one borrowed reference to a cached logger. Writes go through the
// shared underlying Logger; every write also touches the registry entry so
// the TTL countdown restarts. Close returns the borrow without closing the
// shared files — the registry only closes a logger once no handle holds it.
type Handle struct {
	reg      *Registry
	ent      *entry
	released atomic.Bool
}

// Logger exposes the shared underlying logger for callers that need the
// full facade (Rotate, Reopen, SetConsole). It outlives the handle only as
// long as other borrows or the cache entry keep it alive.
func (h *Handle) Logger() *loggerr.Logger {
	return h.ent.logger
}

// Fingerprint returns the cache key this handle was borrowed under.
func (h *Handle) Fingerprint() loggerr.Fingerprint {
	return h.ent.fp
}

// Log writes one record and touches the cache entry.
func (h *Handle) Log(level loggerr.Level, msg string, fields ...any) {
	h.ent.logger.Output(2, level, msg, fields...) //nolint:gomnd
	h.reg.Touch(h.ent.fp)
}

// Debug logs at LevelDebug.
func (h *Handle) Debug(msg string, fields ...any) {
	h.ent.logger.Output(2, loggerr.LevelDebug, msg, fields...) //nolint:gomnd
	h.reg.Touch(h.ent.fp)
}

// Info logs at LevelInfo.
func (h *Handle) Info(msg string, fields ...any) {
	h.ent.logger.Output(2, loggerr.LevelInfo, msg, fields...) //nolint:gomnd
	h.reg.Touch(h.ent.fp)
}

// Warning logs at LevelWarning.
func (h *Handle) Warning(msg string, fields ...any) {
	h.ent.logger.Output(2, loggerr.LevelWarning, msg, fields...) //nolint:gomnd
	h.reg.Touch(h.ent.fp)
}

// Error logs at LevelError.
func (h *Handle) Error(msg string, fields ...any) {
	h.ent.logger.Output(2, loggerr.LevelError, msg, fields...) //nolint:gomnd
	h.reg.Touch(h.ent.fp)
}

// Critical logs at LevelCritical.
func (h *Handle) Critical(msg string, fields ...any) {
	h.ent.logger.Output(2, loggerr.LevelCritical, msg, fields...) //nolint:gomnd
	h.reg.Touch(h.ent.fp)
}

// Close returns this borrow to the registry. Repeated calls are a no-op.
// The underlying files stay open while any other holder remains active.
func (h *Handle) Close() error {
	if !h.released.CompareAndSwap(false, true) {
		return nil
	}

	h.reg.release(h.ent)

	return nil
}

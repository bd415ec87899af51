// Package loggerr provides managed, file-backed loggers with automatic
// rotation, bounded resource usage and safe concurrent access. It is built
// for processes that need many independently-configured log destinations
// without leaking file handles or memory over long runtimes.
//
// A Spec describes one logger: destination files, rotation mode, retention,
// time zone and formatting knobs. New() materializes a Spec into a Logger
// that owns one rotation handler per destination file plus an optional
// console sink. Every mutating call on a Logger is serialized by a lock
// scoped to that instance, so records never interleave and independent
// loggers never contend.
//
// The registry subpackage adds a concurrency-safe, capacity- and TTL-bounded
// cache keyed by Spec fingerprints. It guarantees at-most-one construction
// per fingerprint under concurrent callers and reclaims idle loggers without
// closing files out from under live borrowers.
//
// The rotation state machines live in the rotation package, with the archive
// naming and retention policies in sizerotator (zero-padded sequence
// suffixes) and timerotator (timestamp suffixes and calendar boundaries).
//
//	https://pkg.go.dev/golift.io/loggerr/registry
//	https://pkg.go.dev/golift.io/loggerr/sizerotator
//	https://pkg.go.dev/golift.io/loggerr/timerotator
package loggerr

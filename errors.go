package loggerr

import (
	"errors"
	"fmt"
)

// Custom errors returned by this package.
var (
	ErrNilSpec     = errors.New("nil logger spec provided")
	ErrBadLevel    = errors.New("unknown log level")
	ErrNoThreshold = errors.New("size rotation threshold must be positive")
	ErrBadTimezone = errors.New("unresolvable timezone")
	ErrNoFilenames = errors.New("spec filename is empty")
)

// ConfigError is returned when a Spec cannot be materialized: unwritable
// directory, unresolvable timezone, non-positive threshold. It is fatal at
// construction and never retried internally. The name and fingerprint
// identify the offending spec.
type ConfigError struct {
	Name        string
	Fingerprint Fingerprint
	Err         error
}

// Error satisfies the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("logger %s [%s]: %v", e.Name, e.Fingerprint, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// WriteError records a destination failure: disk full, permission revoked
// mid-run, a rename that did not stick. Log never returns it to callers;
// it is surfaced through Logger.Err and handler introspection while the
// handler runs degraded.
type WriteError struct {
	Name string
	Path string
	Err  error
}

// Error satisfies the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("logger %s: writing %s: %v", e.Name, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

func configErr(name string, fp Fingerprint, err error) error {
	return &ConfigError{Name: name, Fingerprint: fp, Err: err}
}

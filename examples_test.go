package loggerr_test

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golift.io/loggerr"
	"golift.io/loggerr/registry"
	"golift.io/loggerr/timerotator"
)

// This example creates a standalone size-rotated logger. The file rotates at
// 10 megabytes, keeps five gzipped archives, and mirrors records to stderr.
func ExampleNew() {
	logger, err := loggerr.New(&loggerr.Spec{
		Name:        "service",
		Level:       loggerr.LevelInfo,
		Directory:   "/var/log/service",
		MaxBytes:    10 * 1024 * 1024, // 10 megabytes.
		MaxArchives: 5,
		Compress:    true,
		Stream:      true,
	})
	if err != nil {
		panic(err)
	}

	defer logger.Close()

	logger.Info("service starting", "pid", os.Getpid())
}

// Rotate at midnight in the logger's zone; keep a week of daily archives.
// All the time-mode Spec members are shown.
func Example_midnightRotation() {
	logger, err := loggerr.New(&loggerr.Spec{
		Name:          "nightly",
		Directory:     "/var/log/nightly",
		Timezone:      "America/New_York",    // boundaries computed in this zone.
		Mode:          loggerr.ModeTime,      // rotate on a schedule, not size.
		When:          timerotator.Midnight,  // default for time mode.
		Interval:      0,                     // a positive duration wins over When.
		RotateAtUTC:   false,                 // true stamps and rotates on UTC.
		MaxArchives:   7,                     // keep a week.
		MaxArchiveAge: 30 * 24 * time.Hour,   // belt and suspenders.
	})
	if err != nil {
		panic(err)
	}

	defer logger.Close()

	logger.Warning("disk filling", "percent", 91)
}

// The registry deduplicates loggers: every component that asks for the same
// spec shares one set of open files. Handles are cheap; close them when done.
func Example_registry() {
	spec := &loggerr.Spec{
		Name:      "shared",
		Directory: "/var/log/app",
		MaxBytes:  50 * 1024 * 1024,
	}

	handle, err := registry.GetOrCreate(spec)
	if err != nil {
		panic(err)
	}

	defer handle.Close()

	handle.Info("borrowed from the cache", "fingerprint", handle.Fingerprint())

	stats := registry.GetStats()
	log.Printf("cached loggers: %d of %d", stats.Entries, stats.MaxEntries)
}

// Rotate all of a logger's files on SIGHUP.
func ExampleLogger_Rotate() {
	logger, err := loggerr.New(&loggerr.Spec{
		Name:      "daemon",
		Directory: "/var/log/daemon",
		MaxBytes:  100 * 1024 * 1024,
	})
	if err != nil {
		panic(err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGHUP)

	go func() {
		<-sigc

		if err := logger.Rotate(); err != nil {
			log.Printf("rotate failed: %v", err)
		}
	}()
}

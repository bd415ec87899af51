// Package main is a simple example app that exercises the logger registry
// and both rotation modes. Watch the files in /tmp/logdemo while it runs.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golift.io/loggerr"
	"golift.io/loggerr/registry"
)

// ///////////////////////////////////////////////////////////////////////// //

// Usage, size rotation with compression:
//   go run ./cmd/logdemo size
//
// Usage, time rotation on a short interval:
//   go run ./cmd/logdemo time

const (
	logDirectory    = "/tmp/logdemo"
	logFileSize     = 50 * 1024 // 50 kilobytes.
	bytesPerLogLine = 500
	timeBetweenLogs = 5 * time.Millisecond
	rotateInterval  = 2 * time.Second
	archiveCount    = 10
)

// ///////////////////////////////////////////////////////////////////////// //

func main() {
	spec := &loggerr.Spec{
		Name:        "logdemo",
		Level:       loggerr.LevelInfo,
		Directory:   logDirectory,
		MaxArchives: archiveCount,
	}

	switch {
	case isArg("time"):
		spec.Mode = loggerr.ModeTime
		spec.Interval = rotateInterval
	case isArg("size"):
		fallthrough
	default:
		spec.Mode = loggerr.ModeSize
		spec.MaxBytes = logFileSize
		spec.Compress = true
	}

	reg := registry.New(nil)
	defer func() {
		if err := reg.EvictAll(); err != nil {
			log.Printf("evict: %v", err)
		}
	}()

	handle, err := reg.GetOrCreate(spec)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer handle.Close()

	line := strings.Repeat("x", bytesPerLogLine)

	for count := 0; ; count++ {
		handle.Info(line, "count", count)
		time.Sleep(timeBetweenLogs)

		if count%100 == 0 {
			stats := reg.Stats()
			fmt.Printf("entries: %d, referenced: %d, oldest: %v\n",
				stats.Entries, stats.Referenced, stats.OldestAge.Round(time.Second))
		}
	}
}

func isArg(s string) bool {
	return len(os.Args) > 1 && os.Args[1] == s
}

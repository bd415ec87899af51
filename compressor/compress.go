// Package compressor provides the post-rotate hook that gzips archived log
// files. Wire PostRotate into a sizerotator or timerotator Layout; the
// archive keeps its name and gains a .gz extension. A failed compression
// leaves the uncompressed archive in place.
package compressor

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golift.io/loggerr/filer"
)

// SuffixGZ is appended to a fileName to make the new compressed file name.
const SuffixGZ = ".gz"

// CompressLevel sets the global compression level.
var CompressLevel = gzip.DefaultCompression //nolint:gochecknoglobals

// Filer allows overriding os-file procedures.
var Filer = filer.Default() //nolint:gochecknoglobals

// Report contains a report of the compression operation.
// Always check for Error to make sure the New* data is valid.
type Report struct {
	OldFile string
	NewFile string
	OldSize int64
	NewSize int64
	Elapsed time.Duration
	Error   error
}

// Compress gzips a file and returns a report. Blocks until finished.
func Compress(fileName string) (*Report, error) {
	report := &Report{OldFile: fileName, NewFile: fileName + SuffixGZ}

	level := CompressLevel
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	oldFile, err := Filer.Stat(report.OldFile)
	if report.Error = err; report.Error != nil {
		return report, fmt.Errorf("stating old file: %w", report.Error)
	}

	report.OldSize = oldFile.Size()
	start := time.Now()
	report.NewSize, report.Error = compress(report.OldFile, report.NewFile, oldFile.Mode(), level)
	report.Elapsed = time.Since(start)

	if report.Error != nil {
		return report, fmt.Errorf("compressor error: %w", report.Error)
	}

	return report, nil
}

// CompressBackground runs a file compression in the background.
// A report is sent to a provided callback function when compression finishes.
// Avoid using this on files that may be renamed by another thread.
func CompressBackground(fileName string, cb func(report *Report)) {
	go func() {
		report, _ := Compress(fileName)

		if cb != nil {
			cb(report)
		}
	}()
}

// PostRotate satisfies the post-rotate hook in the sizerotator and
// timerotator layouts. It compresses the freshly rotated archive in the
// background and writes a report line with the global logger when done.
func PostRotate(_, newFile string) {
	CompressBackground(newFile, func(report *Report) { Log(report, nil) })
}

// Log sends a report to a custom procedure, or log.Printf when nil.
func Log(report *Report, printf func(msg string, fmt ...any)) {
	if printf == nil {
		printf = log.Printf
	}

	const kilobyte = 1024

	if report.Error != nil {
		printf("Compression Error after %v: %v", report.Elapsed.Round(time.Second), report.Error)
	} else {
		printf("Compression Finished in %v: %s/%dkB -> %s/%dkB", report.Elapsed.Round(time.Second),
			report.OldFile, report.OldSize/kilobyte, report.NewFile, report.NewSize/kilobyte)
	}
}

// compress does the "hard" work: Open the old file, open the new file, create a gzip writer,
// copy the writer to the new file, close all open file handles, and lastly delete the old file.
func compress(oldFile, newFile string, mode os.FileMode, level int) (size int64, err error) {
	var src, dst *os.File

	defer func() { // First, so it executes last.
		if err != nil {
			_ = Filer.Remove(newFile)
		} else {
			_ = Filer.Remove(oldFile)
		}
	}()

	src, err = Filer.OpenFile(oldFile, os.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	dst, err = Filer.OpenFile(newFile, os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		return 0, fmt.Errorf("opening gz file: %w", err)
	}

	defer func() {
		dst.Close()
		// Set size of new file.
		if fs, err := Filer.Stat(newFile); err == nil {
			size = fs.Size()
		}
	}()

	gzw, _ := gzip.NewWriterLevel(dst, level)
	defer gzw.Close()

	size, err = io.Copy(gzw, src)
	if err != nil {
		return size, fmt.Errorf("%s -> %s: %w", oldFile, newFile, err)
	}

	return size, nil
}

// Package timerotator provides an Archiver that names rotated log files with
// a time stamp, plus the Schedule implementations that drive time-triggered
// rotation: calendar boundaries (midnight, a specific weekday) and fixed
// periods (hourly, daily, custom intervals). A rotated service.log becomes
// service.log.2006-01-02T15-04-05, optionally gzipped by a PostRotate hook.
// The stamp marks the instant the closed period ended, so archives sort and
// prune in period order.
package timerotator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golift.io/loggerr/filer"
	"golift.io/loggerr/rotation"
)

// Layout defines how time-stamped archives have their file names decided.
// This also sets how many archives are kept; default is unlimited.
type Layout struct {
	filer.Filer

	ArchiveDir string        // Location where rotated backup logs are moved to.
	FileCount  int           // Maximum number of rotated log files. 0 keeps all.
	FileAge    time.Duration // Maximum age of rotated files. 0 keeps all.
	UseUTC     bool          // Render time stamps in UTC instead of Loc.
	Loc        *time.Location // Zone for time stamps. Nil means local.
	Format     string        // Go Time format used as the archive suffix.
	PostRotate func(fileName, newFile string)
}

// Some Formats you may use in your app.
const (
	FormatDefault = "2006-01-02T15-04-05" // Default: Used if Format = ""
	FormatDaily   = "2006-01-02"          // Example: one archive per day.
)

// Some constants this package uses; not really needed externally.
const (
	Joiner = "."   // joins the file name with the time stamp.
	GZext  = ".gz" // trimmed off found files.
)

// Rotate renames the log file with a stamp for the period that just closed,
// then prunes archives beyond the retention policy, oldest first.
func (l *Layout) Rotate(fileName string) (string, error) {
	now := time.Now().In(l.zone())
	if l.UseUTC {
		now = now.UTC()
	}

	var (
		dir     = l.getArchiveDir(fileName)
		newFile = filepath.Join(dir, l.getPrefix(fileName)+now.Format(l.Format))
	)

	if err := l.Rename(fileName, newFile); err != nil {
		return "", fmt.Errorf("error renaming log: %w", err)
	}

	return newFile, l.deleteOldLogs(l.getAllLogFiles(fileName))
}

// Dirs validates input data and returns the list of directories being used.
func (l *Layout) Dirs(fileName string) ([]string, error) {
	if l.Format == "" {
		l.Format = FormatDefault
	}

	if l.Filer == nil {
		l.Filer = filer.Default()
	}

	switch fpath := filepath.Dir(fileName); {
	case l.ArchiveDir == "" || fpath == l.ArchiveDir:
		return []string{fpath}, nil
	default:
		return []string{fpath, l.ArchiveDir}, nil
	}
}

// Post satisfies the Archiver interface.
func (l *Layout) Post(fileName, newFile string) {
	if l.PostRotate != nil {
		l.PostRotate(fileName, newFile)
	}
}

func (l *Layout) zone() *time.Location {
	if l.Loc != nil {
		return l.Loc
	}

	return time.Local
}

func (l *Layout) getArchiveDir(fileName string) string {
	if l.ArchiveDir != "" {
		return l.ArchiveDir
	}

	return filepath.Dir(fileName)
}

// deleteOldLogs deletes any files that are older than FileAge.
// Then it deletes extra logs if we're over our FileCount.
func (l *Layout) deleteOldLogs(logFiles *backupFiles) error {
	gone := make(map[string]struct{})

	if l.FileAge > 0 {
		// Parse the time stamp out of each file name.
		// If the time is older than FileAge, delete the file.
		for idx, when := range logFiles.value {
			if time.Since(when) < l.FileAge {
				continue
			}

			if err := l.Remove(logFiles.Files[idx]); err != nil {
				return fmt.Errorf("error removing file: %w", err)
			}

			gone[logFiles.Files[idx]] = struct{}{}
		}
	}

	count := len(logFiles.Files) - len(gone)

	if l.FileCount > 0 {
		for _, fileName := range logFiles.Files {
			if count <= l.FileCount {
				return nil
			}

			if _, ok := gone[fileName]; ok {
				continue // already deleted this one.
			}

			if err := l.Remove(fileName); err != nil {
				return fmt.Errorf("error removing file: %w", err)
			}

			count--
		}
	}

	return nil
}

// getPrefix returns the expected prefix on our archive files.
func (l *Layout) getPrefix(fileName string) string {
	return filepath.Base(fileName) + Joiner
}

// getAllLogFiles finds all the archive files that match our Time Format.
func (l *Layout) getAllLogFiles(fileName string) *backupFiles {
	var (
		list   = &backupFiles{Files: []string{}, value: []time.Time{}}
		dir    = l.getArchiveDir(fileName)
		prefix = l.getPrefix(fileName)
	)

	fileList, err := l.ReadDir(dir)
	if err != nil || len(fileList) == 0 {
		return list
	}

	for idx := range fileList {
		name := fileList[idx].Name()
		if !strings.HasPrefix(name, prefix) {
			continue // not our file.
		}

		part := strings.TrimSuffix(strings.TrimPrefix(name, prefix), GZext)

		t, err := time.Parse(l.Format, part)
		if err == nil { // if err != nil, then not our file.
			list.Files = append(list.Files, filepath.Join(dir, name))
			list.value = append(list.value, t)
		}
	}

	sort.Sort(list)

	return list
}

// Our interface must satisfy a rotation.Archiver.
var _ rotation.Archiver = (*Layout)(nil)

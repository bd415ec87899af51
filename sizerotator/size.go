// Package sizerotator provides an Archiver that names rotated log files with
// a zero-padded, strictly increasing sequence number. A rotated service.log
// becomes service.log.0001 (then .0002, and so on), optionally gzipped to
// service.log.0001.gz by a PostRotate hook. The newest archive always
// carries the highest sequence number, so retention pruning deletes from the
// low end.
package sizerotator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golift.io/loggerr/filer"
	"golift.io/loggerr/rotation"
)

// Layout defines how sequence-numbered archives are named and how many are
// kept. The zero value keeps every archive beside the active log file.
type Layout struct {
	ArchiveDir string // Location where rotated backup logs are moved to.
	FileCount  int    // Maximum number of rotated log files. 0 keeps all.
	PostRotate func(fileName, newFile string)
	filer.Filer
}

// Some constants this package uses.
const (
	GZext     = ".gz" // trimmed off found files.
	Joiner    = "."   // joins the file name with the sequence number.
	SeqDigits = 4     // zero-padding width of the sequence number.
)

// Rotate renames the log file to the next free sequence number and prunes
// archives beyond FileCount, oldest first. Returns the new archive name.
func (l *Layout) Rotate(fileName string) (string, error) {
	logFiles := l.getAllLogFiles(fileName)
	sort.Sort(logFiles)

	next := 1
	if count := len(logFiles.value); count > 0 {
		next = logFiles.value[count-1] + 1
	}

	var (
		dir     = l.getArchiveDir(fileName)
		newPath = filepath.Join(dir, l.getPrefix(fileName)+fmt.Sprintf("%0*d", SeqDigits, next))
	)

	if err := l.Rename(fileName, newPath); err != nil {
		return "", fmt.Errorf("error rotating file: %w", err)
	}

	logFiles.Files = append(logFiles.Files, newPath)
	logFiles.value = append(logFiles.value, next)

	return newPath, l.deleteOldLogs(logFiles)
}

// Dirs checks our config and returns the folders for the rotation package to create.
func (l *Layout) Dirs(fileName string) ([]string, error) {
	if l.Filer == nil {
		l.Filer = filer.Default()
	}

	if l.FileCount < 0 {
		l.FileCount = 0
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

// deleteOldLogs deletes the lowest-numbered archives until FileCount remain.
func (l *Layout) deleteOldLogs(logFiles *backupFiles) error {
	if l.FileCount < 1 {
		return nil
	}

	count := len(logFiles.Files)

	for _, fileName := range logFiles.Files {
		if count <= l.FileCount {
			break
		}

		if err := l.Remove(fileName); err != nil {
			return fmt.Errorf("error removing file: %w", err)
		}

		count--
	}

	return nil
}

// getPrefix returns the expected prefix on our archive files. The full base
// name stays in the archive name; only the sequence number is appended.
func (l *Layout) getPrefix(fileName string) string {
	return filepath.Base(fileName) + Joiner
}

// getArchiveDir returns the archive directory if one is set,
// otherwise the directory the log file is in.
func (l *Layout) getArchiveDir(fileName string) string {
	if l.ArchiveDir != "" {
		return l.ArchiveDir
	}

	return filepath.Dir(fileName)
}

// getAllLogFiles finds all the archive files that match our pattern.
func (l *Layout) getAllLogFiles(fileName string) *backupFiles {
	var (
		dir    = l.getArchiveDir(fileName)
		list   = &backupFiles{Files: []string{}, value: []int{}}
		prefix = l.getPrefix(fileName)
	)

	files, err := l.ReadDir(dir)
	if err != nil || len(files) == 0 {
		return list
	}

	for _, file := range files {
		name := file.Name()
		if !strings.HasPrefix(name, prefix) {
			continue // not our file.
		}

		part := strings.TrimSuffix(strings.TrimPrefix(name, prefix), GZext)

		i, err := strconv.Atoi(part)
		if err == nil {
			list.Files = append(list.Files, filepath.Join(dir, name))
			list.value = append(list.value, i)
		}
	}

	return list
}

// Our interface must satisfy a rotation.Archiver.
var _ rotation.Archiver = (*Layout)(nil)

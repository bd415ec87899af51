package sizerotator_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golift.io/loggerr/filer"
	"golift.io/loggerr/mocks"
	"golift.io/loggerr/sizerotator"
)

func TestPost(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	layout := &sizerotator.Layout{PostRotate: func(s1, s2 string) {
		assert.Equal("string1", s1)
		assert.Equal("string2", s2)
	}}
	layout.Post("string1", "string2")

	layout.PostRotate = nil
	layout.Post("string1", "string2")
}

func TestDirs(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	layout := &sizerotator.Layout{ArchiveDir: filepath.Join("/", "var", "log", "archives"), FileCount: -2}
	dirs, err := layout.Dirs(filepath.Join("/", "var", "log", "service.log"))
	assert.NoError(err)
	assert.Equal([]string{filepath.Join("/", "var", "log"), filepath.Join("/", "var", "log", "archives")}, dirs)
	assert.Equal(filer.Default(), layout.Filer)
	assert.Equal(0, layout.FileCount, "a negative file count means keep everything")

	layout = &sizerotator.Layout{}
	dirs, err = layout.Dirs(filepath.Join("/", "var", "log", "service.log"))
	assert.NoError(err)
	assert.Equal([]string{filepath.Join("/", "var", "log")}, dirs)
}

// The first rotation of a fresh log gets sequence 0001.
func TestRotateFirst(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockFiler := mocks.NewMockFiler(mockCtrl)
	fileName := filepath.Join("/", "var", "log", "service.log")
	newName := fileName + ".0001"

	mockFiler.EXPECT().ReadDir(filepath.Dir(fileName)).Return(nil, errors.New("no such dir"))
	mockFiler.EXPECT().Rename(fileName, newName)

	layout := &sizerotator.Layout{Filer: mockFiler}
	rotated, err := layout.Rotate(fileName)
	assert.NoError(err)
	assert.Equal(newName, rotated)
}

// Four rotations with a two-file retention leave the two newest archives.
func TestRetention(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	fileName := filepath.Join(dir, "service.log")
	layout := &sizerotator.Layout{FileCount: 2}

	_, err := layout.Dirs(fileName)
	assert.NoError(err)

	for rotations := 1; rotations <= 4; rotations++ {
		assert.NoError(os.WriteFile(fileName, []byte("data"), 0o600))

		rotated, err := layout.Rotate(fileName)
		assert.NoError(err)
		assert.Equal(fmt.Sprintf("%s.%04d", fileName, rotations), rotated,
			"sequence numbers must strictly increase")
	}

	left, err := os.ReadDir(dir)
	assert.NoError(err)
	assert.Len(left, 2, "retention must prune down to two archives")

	names := []string{left[0].Name(), left[1].Name()}
	assert.Equal([]string{"service.log.0003", "service.log.0004"}, names, "the oldest archives are removed first")
}

// Compressed archives still count toward retention and ordering.
func TestRetentionCompressed(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	fileName := filepath.Join(dir, "service.log")

	for _, name := range []string{"service.log.0001.gz", "service.log.0002.gz", "service.log.0003"} {
		assert.NoError(os.WriteFile(filepath.Join(dir, name), []byte("old"), 0o600))
	}

	assert.NoError(os.WriteFile(fileName, []byte("data"), 0o600))

	layout := &sizerotator.Layout{FileCount: 2}
	_, err := layout.Dirs(fileName)
	assert.NoError(err)

	rotated, err := layout.Rotate(fileName)
	assert.NoError(err)
	assert.Equal(fileName+".0004", rotated, "the next sequence follows the highest archive, gzipped or not")

	left, err := os.ReadDir(dir)
	assert.NoError(err)
	assert.Len(left, 2)
	assert.Equal("service.log.0003", left[0].Name())
	assert.Equal("service.log.0004", left[1].Name())
}

// Files that merely look similar are not treated as our archives.
func TestForeignFilesIgnored(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	fileName := filepath.Join(dir, "service.log")

	for _, name := range []string{"other.log.0009", "service.log.backup", "service.log.2"} {
		assert.NoError(os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	assert.NoError(os.WriteFile(fileName, []byte("data"), 0o600))

	layout := &sizerotator.Layout{}
	_, err := layout.Dirs(fileName)
	assert.NoError(err)

	rotated, err := layout.Rotate(fileName)
	assert.NoError(err)
	assert.Equal(fileName+".0003", rotated,
		"an unpadded sequence from an older layout still orders the next number")
}

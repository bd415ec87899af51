package compressor_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golift.io/loggerr/compressor"
)

// pretty simple test. more can be done by mocking Filer.
func TestCompress(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	r, err := compressor.Compress("/does/not/exist/file")
	assert.NotNil(err)
	assert.Contains(err.Error(), "stating old file:")
	assert.ErrorIs(err, r.Error)

	name := filepath.Join(t.TempDir(), "testfile.log")
	err = os.WriteFile(name, make([]byte, 300000), 0o600)
	assert.Nilf(err, "error writing test file: %v", err)

	r, err = compressor.Compress(name)
	assert.Nil(err)
	assert.Nil(r.Error)
	assert.Equal(name+compressor.SuffixGZ, r.NewFile)
	assert.Less(r.NewSize, r.OldSize, "300k of zeros must shrink")

	_, err = os.Stat(name)
	assert.True(os.IsNotExist(err), "the uncompressed original is removed")
}

func TestPostRotate(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	name := filepath.Join(t.TempDir(), "rotated.log")
	err := os.WriteFile(name, make([]byte, 1024), 0o600)
	assert.Nilf(err, "error writing test file: %v", err)

	var wg sync.WaitGroup

	wg.Add(1)
	compressor.CompressBackground(name, func(report *compressor.Report) {
		defer wg.Done()
		assert.Nil(report.Error)
		assert.Equal(name+compressor.SuffixGZ, report.NewFile)
	})
	wg.Wait()

	_, err = os.Stat(name + compressor.SuffixGZ)
	assert.Nil(err, "the gz archive must exist")
}

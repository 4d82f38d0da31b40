package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, StrongValue, GetPlainLabel(55.5))
	assert.Equal(t, StrongValue, GetPlainLabel(40))
	assert.Equal(t, SolidValue, GetPlainLabel(25))
	assert.Equal(t, SoftValue, GetPlainLabel(9.9))
	assert.Equal(t, WeakValue, GetPlainLabel(4.9))
	assert.Equal(t, WeakValue, GetPlainLabel(0))
}

func TestGetColorLabelContainsPlainText(t *testing.T) {
	// Color codes may or may not be emitted depending on TTY detection,
	// so assert on the embedded plain label.
	assert.Contains(t, GetColorLabel(80), StrongValue)
	assert.Contains(t, GetColorLabel(1), WeakValue)
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSelectOutputFileStdout(t *testing.T) {
	f, err := SelectOutputFile("")
	assert.NoError(t, err)
	assert.NotNil(t, f)
}

func TestDBFilePaths(t *testing.T) {
	assert.Contains(t, GetCacheDBFilePath(), ".endoscope_cache.db")
	assert.Contains(t, GetSnapshotDBFilePath(), ".endoscope_snapshot.db")
	assert.NotEqual(t, GetCacheDBFilePath(), GetSnapshotDBFilePath())
}

package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "precision 1",
			precision: 1,
			value:     33.333333,
			expected:  "33.3",
		},
		{
			name:      "precision 0",
			precision: 0,
			value:     66.67,
			expected:  "67",
		},
		{
			name:      "precision 3",
			precision: 3,
			value:     12.34567,
			expected:  "12.346",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]any{"day": "2026-08-01", "count": 3})
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "2026-08-01", result["day"])
	assert.Equal(t, float64(3), result["count"])
}

func TestWriteJSONError(t *testing.T) {
	// Channels cannot be marshaled
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"day", "active_users"}, func(w *csv.Writer) error {
		for _, row := range [][]string{{"2026-08-01", "3"}, {"2026-08-02", "5"}} {
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "day,active_users\n2026-08-01,3\n2026-08-02,5\n", buf.String())
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(w *csv.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileStdout(t *testing.T) {
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		return nil
	}, "Wrote test")
	require.NoError(t, err)
	assert.True(t, called, "writer function should have been called")
}

func TestWriteWithFileActualFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.txt")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote test")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestWriteWithFileError(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.txt")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return assert.AnError
	}, "Wrote test")
	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	err := writeWithFile("/nonexistent/path/out.txt", func(w io.Writer) error {
		return nil
	}, "Wrote test")
	require.Error(t, err)
}

func TestRequireOutputFile(t *testing.T) {
	require.NoError(t, requireOutputFile("out.parquet", "parquet"))

	err := requireOutputFile("", "parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required for parquet output")
}

func TestWriteCSVIntegration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.csv")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, []string{"name", "count"}, func(cw *csv.Writer) error {
			return cw.Write([]string{"session_start", "42"})
		})
	}, "Wrote CSV")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,count", lines[0])
	assert.Equal(t, "session_start,42", lines[1])
}

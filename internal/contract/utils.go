package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Retention strength label constants.
const (
	StrongValue = "Strong" // Strong retention
	SolidValue  = "Solid"  // Solid retention
	SoftValue   = "Soft"   // Soft retention
	WeakValue   = "Weak"   // Weak retention
)

// Color variables for console output.
var (
	StrongColor = color.New(color.FgGreen, color.Bold) // strongColor marks healthy cohorts.
	SolidColor  = color.New(color.FgCyan)              // solidColor marks acceptable cohorts.
	SoftColor   = color.New(color.FgYellow)            // softColor marks cohorts to watch.
	WeakColor   = color.New(color.FgRed, color.Bold)   // weakColor marks churning cohorts.
)

// GetPlainLabel returns a plain text label for a retention percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(pct float64) string {
	switch {
	case pct >= 40:
		return StrongValue
	case pct >= 20:
		return SolidValue
	case pct >= 5:
		return SoftValue
	default:
		return WeakValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(pct float64) string {
	text := GetPlainLabel(pct)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case SolidValue:
		return SolidColor.Sprint(text)
	case SoftValue:
		return SoftColor.Sprint(text)
	default: // "Weak"
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".endoscope_cache.db"
	}
	return filepath.Join(homeDir, ".endoscope_cache.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".endoscope_snapshot.db"
	}
	return filepath.Join(homeDir, ".endoscope_snapshot.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

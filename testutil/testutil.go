package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
)

// GenerateKeyFile creates a temporary key file with numKeys random integers
// in [minValue, maxValue), eight keys per line and a comment header.
// Returns the file path and a cleanup function.
func GenerateKeyFile(t *testing.T, numKeys int, minValue, maxValue int64, seed int64) (string, func()) {
	t.Helper()

	if maxValue <= minValue {
		t.Fatalf("GenerateKeyFile: maxValue %d must exceed minValue %d", maxValue, minValue)
	}

	rng := rand.New(rand.NewSource(seed))
	keys := make([]string, numKeys)
	for i := range keys {
		keys[i] = fmt.Sprintf("%d", minValue+rng.Int63n(maxValue-minValue))
	}
	return WriteKeyFile(t, keys)
}

// WriteKeyFile writes the given key tokens to a temporary file, eight per
// line. Returns the file path and a cleanup function.
func WriteKeyFile(t *testing.T, keys []string) (string, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test_keys_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp key file: %v", err)
	}

	var content strings.Builder
	content.WriteString("# generated keys\n")
	for i, k := range keys {
		content.WriteString(k)
		if (i+1)%8 == 0 || i == len(keys)-1 {
			content.WriteString("\n")
		} else {
			content.WriteString(" ")
		}
	}

	if _, err := tmpFile.WriteString(content.String()); err != nil {
		t.Fatalf("Failed to write to temp key file: %v", err)
	}

	tmpFile.Close()

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}

	return tmpFile.Name(), cleanup
}

// WriteConfigFile writes TOML content to a temporary config file inside
// t.TempDir().
func WriteConfigFile(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.toml")
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write temp config file: %v", err)
	}
	return tmpFile.Name()
}

// TempFilePath returns a cross-platform temporary file path
// with the given pattern. Does not create the file.
func TempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path) // Remove immediately, just need the path

	return path
}

package output

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ChristianF88/rargsort/bench"
	"github.com/ChristianF88/rargsort/version"
)

// JSONOutput represents the complete result document of one command run
type JSONOutput struct {
	Metadata Metadata       `json:"metadata"`
	Argsort  *ArgsortResult `json:"argsort,omitempty"`
	Bench    *BenchResult   `json:"bench,omitempty"`
	Live     *LiveStats     `json:"live_stats,omitempty"`
	Warnings []Warning      `json:"warnings"`
	Errors   []Error        `json:"errors"`

	// Mutex for thread-safe warning/error appending
	mu sync.Mutex `json:"-"`
}

// Metadata contains information about the run
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Command     string    `json:"command"`
	Version     string    `json:"version"`
	DurationMS  int64     `json:"duration_ms"`
}

// ArgsortResult is the outcome of argsorting one key set
type ArgsortResult struct {
	Input       string  `json:"input,omitempty"`
	KeyType     string  `json:"key_type"`
	Bits        int     `json:"bits"`
	Passes      int     `json:"passes"`
	SignedOrder bool    `json:"signed_order"`
	N           int     `json:"n"`
	Permutation []int   `json:"permutation"`
	Verified    *bool   `json:"verified,omitempty"`
	Parsing     Parsing `json:"parsing"`
	SortTimeUS  int64   `json:"sort_time_us"`
}

// Parsing contains key parsing metrics
type Parsing struct {
	DurationMS    int64 `json:"duration_ms"`
	Tokens        int   `json:"tokens"`
	SkippedTokens int   `json:"skipped_tokens,omitempty"`
}

// BenchResult wraps a benchmark report
type BenchResult struct {
	Sizes    []int         `json:"sizes"`
	BitsList []int         `json:"bits_list"`
	Report   *bench.Report `json:"report"`
}

// LiveStats contains statistics for one live batch
type LiveStats struct {
	Batch         int   `json:"batch"`
	Keys          int   `json:"keys"`
	SkippedEvents int   `json:"skipped_events,omitempty"`
	SkippedKeys   int   `json:"skipped_keys,omitempty"`
	TotalKeys     int   `json:"total_keys"`
	LoopDuration  int64 `json:"loop_duration_ms"`
}

// Warning represents a warning message
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Error represents an error message
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// NewJSONOutput creates a new JSONOutput with default metadata
func NewJSONOutput(command string, startTime time.Time) *JSONOutput {
	return &JSONOutput{
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC(),
			Command:     command,
			Version:     version.Version,
			DurationMS:  time.Since(startTime).Milliseconds(),
		},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// ToJSON converts the output to pretty-printed JSON
func (j *JSONOutput) ToJSON() ([]byte, error) {
	return json.MarshalIndent(j, "", "  ")
}

// ToCompactJSON converts the output to compact JSON
func (j *JSONOutput) ToCompactJSON() ([]byte, error) {
	return json.Marshal(j)
}

// AddWarning adds a warning to the output (thread-safe)
func (j *JSONOutput) AddWarning(warningType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Warnings = append(j.Warnings, Warning{
		Type:    warningType,
		Message: message,
		Count:   count,
	})
}

// AddError adds an error to the output (thread-safe)
func (j *JSONOutput) AddError(errorType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, Error{
		Type:    errorType,
		Message: message,
		Count:   count,
	})
}

// UpdateDuration updates the duration in metadata
func (j *JSONOutput) UpdateDuration(startTime time.Time) {
	j.Metadata.DurationMS = time.Since(startTime).Milliseconds()
}

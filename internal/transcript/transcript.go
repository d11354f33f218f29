// Package transcript implements the append-only, redacted audit log of
// every MCP exchange during a scan. Entries appear in write order;
// request/response pairs are written request-first, and every write is
// flushed so the file survives an ungraceful exit.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"
)

// secretPatterns are the two redaction patterns,
// case-insensitive, matched against every string value in a payload.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password)\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_=]+`),
}

const redactedPlaceholder = "<REDACTED>"

// Entry is one line of the transcript file.
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Direction string                 `json:"direction"`
	Method    string                 `json:"method"`
	RequestID int                    `json:"request_id"`
	Payload   map[string]interface{} `json:"payload"`
	LatencyMs *float64               `json:"latency_ms"`
	Error     *string                `json:"error"`
}

// Writer is the append-only transcript log. Owned exclusively by the scan
// runner and written from a single goroutine.
type Writer struct {
	file   *os.File
	writer *bufio.Writer
}

// New opens path for writing, truncating any existing file, constructing
// a ready-to-use writer with its resource already acquired.
func New(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transcript file: %w", err)
	}
	return &Writer{file: f, writer: bufio.NewWriter(f)}, nil
}

// Record redacts payload and appends one entry. latencyMs and errMsg are
// both optional (nil when not applicable).
func (w *Writer) Record(direction, method string, requestID int, payload map[string]interface{}, latencyMs *float64, errMsg *string) error {
	entry := Entry{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Direction: direction,
		Method:    method,
		RequestID: requestID,
		Payload:   redactValue(payload).(map[string]interface{}),
		LatencyMs: latencyMs,
		Error:     errMsg,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript entry: %w", err)
	}
	if _, err := w.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write transcript entry: %w", err)
	}
	return w.writer.Flush()
}

// Close flushes and releases the underlying file handle.
func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Redact exposes the redaction walk for callers (and tests) that need to
// check idempotence or pre-redact a payload before construing an Entry.
func Redact(value interface{}) interface{} {
	return redactValue(value)
}

// redactValue walks a decoded JSON value depth-first, replacing every
// matched substring in every string value with the redaction placeholder.
// Nested maps and slices recurse; other scalar types pass through
// unchanged.
func redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		redacted := v
		for _, pattern := range secretPatterns {
			redacted = pattern.ReplaceAllString(redacted, redactedPlaceholder)
		}
		return redacted
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = redactValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = redactValue(val)
		}
		return out
	default:
		return v
	}
}

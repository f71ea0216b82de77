package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RequestEntry is one backend exchange in the JSONL request log. Headers
// and bodies are never recorded: they carry the bearer token and passwords.
type RequestEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"ts"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Anonymous  bool      `json:"anonymous,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// RequestLogger appends RequestEntry records to a JSONL file.
type RequestLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewRequestLogger opens (or creates) the log file at path for appending.
func NewRequestLogger(path string) (*RequestLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create request log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open request log %s: %w", path, err)
	}
	return &RequestLogger{file: f, enc: json.NewEncoder(f)}, nil
}

// Log writes an entry. A nil logger is a no-op.
func (rl *RequestLogger) Log(entry RequestEntry) {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.enc == nil {
		return
	}
	_ = rl.enc.Encode(entry)
}

// Close flushes and closes the log file.
func (rl *RequestLogger) Close() error {
	if rl == nil {
		return nil
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	rl.enc = nil
	return err
}

// ReadRequestLog reads the last n entries (all when n <= 0) from path.
// Malformed lines are skipped.
func ReadRequestLog(path string, n int) ([]RequestEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open request log: %w", err)
	}
	defer f.Close()

	var entries []RequestEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		var e RequestEntry
		if json.Unmarshal(scanner.Bytes(), &e) == nil {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read request log: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// FormatRequestLog renders entries one per line.
func FormatRequestLog(entries []RequestEntry) string {
	if len(entries) == 0 {
		return "No requests recorded."
	}
	var sb strings.Builder
	for _, e := range entries {
		status := "---"
		if e.Status != 0 {
			status = fmt.Sprintf("%d", e.Status)
		}
		line := fmt.Sprintf("%s  %-6s %s  %s  %dms", e.Timestamp.Format("2006-01-02 15:04:05"), e.Method, status, e.Path, e.DurationMS)
		if e.Error != "" {
			line += "  " + e.Error
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

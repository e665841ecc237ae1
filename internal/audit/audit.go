// Package audit writes one JSON line per redaction event. Entries record
// what was redacted by type and level, never the original values.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Operations recorded in the audit log.
const (
	OpScrub   = "scrub"
	OpDescrub = "descrub"
)

type Entry struct {
	Timestamp   string         `json:"timestamp"`
	Operation   string         `json:"operation"`
	MappingID   string         `json:"mapping_id,omitempty"`
	Level       string         `json:"level,omitempty"`
	EntityCount map[string]int `json:"entity_count,omitempty"`
	Outcome     string         `json:"outcome"`
	Error       string         `json:"error,omitempty"`
}

type Logger interface {
	Log(entry Entry) error
}

type JSONLLogger struct {
	path string
	mu   sync.Mutex
}

func NewJSONLLogger(path string) (*JSONLLogger, error) {
	// The log records what was redacted where; keep it owner-only.
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create audit log: %w", err)
	}
	_ = f.Close()
	return &JSONLLogger{path: path}, nil
}

func (l *JSONLLogger) Log(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Discard is a Logger that drops every entry. Used when no audit log is
// configured.
type Discard struct{}

func (Discard) Log(Entry) error { return nil }

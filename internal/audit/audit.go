// Package audit provides an append-only trail of vault operations.
//
// Every add, read, delete and purge is recorded as one JSON object per line.
// Entries name the platform and owner and never carry secret material.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Action describes what happened.
type Action string

const (
	ActionCredentialWrite  Action = "credential_write"
	ActionCredentialRead   Action = "credential_read"
	ActionCredentialList   Action = "credential_list"
	ActionCredentialDelete Action = "credential_delete"
	ActionOwnerPurge       Action = "owner_purge"
)

// Entry is a single audit record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Action    Action    `json:"action"`
	Platform  string    `json:"platform,omitempty"`
	Owner     string    `json:"owner"`
	Actor     string    `json:"actor,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Logger writes audit entries to an append-only file.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// NewLogger creates or opens the audit log at path for appending.
func NewLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return &Logger{file: f}, nil
}

// Log writes one entry, stamping it with the current UTC time if unset.
func (l *Logger) Log(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	return nil
}

// Close closes the audit log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Package logstore persists the controller's log under a single key.
//
// The stored value is a versioned envelope:
//
//	{"version":1,"entries":[{"id":"...","type":"info","message":"...","timestamp":"..."}]}
//
// Values written by older clients as a bare JSON array are still accepted.
package logstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"aegis/internal/models"
)

// Key is the single key the log is stored under.
const Key = "aegis_chat_history"

// SchemaVersion is written into every envelope.
const SchemaVersion = 1

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("logstore: store is closed")

// Store loads and saves the whole log.
type Store interface {
	// Load returns the stored log and whether a value was present.
	Load(ctx context.Context) ([]models.LogEntry, bool, error)
	// Save replaces the stored log.
	Save(ctx context.Context, entries []models.LogEntry) error
	Close() error
}

type envelope struct {
	Version int               `json:"version"`
	Entries []models.LogEntry `json:"entries"`
}

// Encode marshals entries into the current envelope format.
func Encode(entries []models.LogEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return json.Marshal(envelope{Version: SchemaVersion, Entries: entries})
}

// Decode accepts an envelope or a legacy bare array.
func Decode(data []byte) ([]models.LogEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("logstore: empty value")
	}

	if trimmed[0] == '[' {
		var legacy []models.LogEntry
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("logstore: decode legacy log: %w", err)
		}
		return legacy, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("logstore: decode log: %w", err)
	}
	if env.Version > SchemaVersion {
		return nil, fmt.Errorf("logstore: unsupported schema version %d", env.Version)
	}
	return env.Entries, nil
}

// Open builds the store named by kind: "file", "sqlite" or "memory".
func Open(kind, path string) (Store, error) {
	switch kind {
	case "file", "":
		return NewFileStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("logstore: unknown store kind %q", kind)
	}
}

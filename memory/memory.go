// Package memory provides the durable record of facts about the user,
// independent of any single conversation's history.
package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Record is the on-disk shape of the memory file. Absence of the file or
// malformed contents degrade to an empty record, never an error.
type Record struct {
	UserName    string `json:"user_name,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Store persists a Record to a single JSON file. Every mutation overwrites
// the whole file synchronously; single-process usage is assumed.
type Store struct {
	path   string
	record Record
	logger *slog.Logger
}

// Open loads the memory file at path. A missing or unreadable file yields an
// empty store.
func Open(path string) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
	}
	s.load()
	return s
}

// SetLogger replaces the logger used to report degraded loads.
func (s *Store) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("ignoring malformed memory file", "path", s.path, "error", err)
		return
	}
	s.record = rec
}

// UserName returns the stored user name, if any.
func (s *Store) UserName() (string, bool) {
	if s.record.UserName == "" {
		return "", false
	}
	return s.record.UserName, true
}

// SetUserName stores the name, stamps the update time, and persists
// immediately.
func (s *Store) SetUserName(name string) error {
	s.record.UserName = name
	s.record.LastUpdated = time.Now().Format(time.RFC3339)
	return s.save()
}

// Summary returns a one-line fact summary for injection into the system
// prompt, or an empty string when nothing is stored.
func (s *Store) Summary() string {
	if s.record.UserName == "" {
		return ""
	}
	return fmt.Sprintf("The user's name is %s.", s.record.UserName)
}

// Clear empties the record and persists the empty state.
func (s *Store) Clear() error {
	s.record = Record{}
	return s.save()
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create memory directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode memory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write memory file: %w", err)
	}
	return nil
}

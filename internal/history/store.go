// Package history keeps the ordered log of executed commands. The whole session
// log lives in memory; only its most recent records are written to disk.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"fileshell/internal/model"
	"fileshell/pkg/cmderror"
)

type Store struct {
	path    string
	limit   int
	mu      sync.Mutex
	records []model.OperationRecord
}

func NewStore(path string, limit int) *Store {
	if limit <= 0 {
		limit = 10
	}
	return &Store{path: path, limit: limit, records: make([]model.OperationRecord, 0, limit)}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Limit() int {
	return s.limit
}

// Load seeds the in-memory log from disk. A missing file yields an empty log.
// An unreadable or corrupt file also yields an empty log, and the error is
// returned so the caller can warn about it.
func (s *Store) Load() ([]model.OperationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var loaded []model.OperationRecord
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}

	for i := range loaded {
		if loaded[i].ID == "" {
			loaded[i].ID = uuid.NewString()
		}
	}

	s.records = append(s.records, loaded...)
	return cloneRecords(s.records), nil
}

// Append adds rec to the end of the log and rewrites the persisted view.
// The record stays in memory even when persisting fails.
func (s *Store) Append(rec model.OperationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	return s.persistLocked()
}

// Remove drops the record with the given id and rewrites the persisted view.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.ID != id {
			continue
		}
		s.records = append(s.records[:i], s.records[i+1:]...)
		return s.persistLocked()
	}

	return cmderror.New(model.ErrNotFound, "NOT_FOUND", "history record not found", id)
}

// Persist writes the last records (at most the configured limit) to disk,
// replacing whatever the file held before.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	start := len(s.records) - s.limit
	if start < 0 {
		start = 0
	}
	tail := s.records[start:]

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(tail); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}

	return nil
}

// Records returns a copy of the full in-memory log, oldest first.
func (s *Store) Records() []model.OperationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecords(s.records)
}

// Tail returns up to n most recent records, oldest first.
func (s *Store) Tail(n int) []model.OperationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		return nil
	}
	start := len(s.records) - n
	if start < 0 {
		start = 0
	}
	return cloneRecords(s.records[start:])
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// LastReversible returns the newest successful copy, move or delete.
func (s *Store) LastReversible() (model.OperationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Reversible() {
			return cloneRecord(s.records[i]), true
		}
	}

	return model.OperationRecord{}, false
}

func cloneRecords(records []model.OperationRecord) []model.OperationRecord {
	out := make([]model.OperationRecord, len(records))
	for i, rec := range records {
		out[i] = cloneRecord(rec)
	}
	return out
}

func cloneRecord(rec model.OperationRecord) model.OperationRecord {
	rec.Args = append([]string{}, rec.Args...)
	return rec
}

// writeFileAtomic replaces path through a temp file in the same directory.
func writeFileAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

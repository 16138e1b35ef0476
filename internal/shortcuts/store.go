package shortcuts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the persisted bindings file inside the data directory
const FileName = "shortcuts.json"

// Store persists the flat action→binding record
type Store interface {
	Load() (map[string]string, error)
	Save(record map[string]string) error
}

// FileStore keeps bindings in a JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a store for dir/shortcuts.json
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, FileName)}
}

// Path returns the full path to the bindings file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the record. A missing file yields an empty record; entries whose
// value is not a string are skipped.
func (s *FileStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read shortcuts: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse shortcuts: %w", err)
	}

	record := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			record[k] = s
		}
	}
	return record, nil
}

// Save writes the record through a temp file so a crash never leaves a torn file
func (s *FileStore) Save(record map[string]string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create shortcuts directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write shortcuts: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write shortcuts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write shortcuts: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write shortcuts: %w", err)
	}
	return nil
}

// Reset removes the file, restoring all defaults on next load
func (s *FileStore) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

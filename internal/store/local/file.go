package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shelfsync/shelfsync/internal/domain"
)

const (
	itemsFile   = "items.json"
	userIDFile  = "user_id"
	pendingFile = "pending.json"
)

// FileStore persists each slot as a file under a data directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// LoadItems returns the saved list. Absent or unparseable data is treated
// as an empty list, never as an error.
func (s *FileStore) LoadItems() ([]domain.Item, error) {
	data, err := os.ReadFile(s.path(itemsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		// Corrupt local state resets to empty.
		return nil, nil
	}
	return items, nil
}

func (s *FileStore) SaveItems(items []domain.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	if err := os.WriteFile(s.path(itemsFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write items file: %w", err)
	}
	return nil
}

func (s *FileStore) LoadUserID() (string, error) {
	data, err := os.ReadFile(s.path(userIDFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read user id: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) SaveUserID(id string) error {
	if err := os.WriteFile(s.path(userIDFile), []byte(id+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write user id: %w", err)
	}
	return nil
}

// LoadPendingWrite returns the retry marker, or nil when none is set.
func (s *FileStore) LoadPendingWrite() (*domain.Document, error) {
	data, err := os.ReadFile(s.path(pendingFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending write: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil
	}
	return &doc, nil
}

func (s *FileStore) SavePendingWrite(doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal pending write: %w", err)
	}
	if err := os.WriteFile(s.path(pendingFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write pending write: %w", err)
	}
	return nil
}

func (s *FileStore) ClearPendingWrite() error {
	err := os.Remove(s.path(pendingFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear pending write: %w", err)
	}
	return nil
}

package local

import (
	"sync"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// MemStore is an in-memory Store. It backs tests and ephemeral sessions
// where nothing should survive the process.
type MemStore struct {
	mu      sync.Mutex
	items   []domain.Item
	userID  string
	pending *domain.Document
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) LoadItems() ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		return nil, nil
	}
	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemStore) SaveItems(items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]domain.Item, len(items))
	copy(s.items, items)
	return nil
}

func (s *MemStore) LoadUserID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, nil
}

func (s *MemStore) SaveUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
	return nil
}

func (s *MemStore) LoadPendingWrite() (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, nil
	}
	doc := *s.pending
	doc.Items = s.pending.CloneItems()
	return &doc, nil
}

func (s *MemStore) SavePendingWrite(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := doc
	cp.Items = doc.CloneItems()
	s.pending = &cp
	return nil
}

func (s *MemStore) ClearPendingWrite() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return nil
}

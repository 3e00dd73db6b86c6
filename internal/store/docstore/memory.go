package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/shelfsync/shelfsync/internal/domain"
)

type memoryEntry struct {
	doc     domain.Document
	touched time.Time
}

// MemoryStore keeps documents in process memory. Suitable for single-node
// deployments and tests; the janitor prunes abandoned entries.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.docs[userID]
	if !ok {
		return nil, nil
	}
	doc := entry.doc
	doc.Items = entry.doc.CloneItems()
	return &doc, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := doc
	cp.Items = doc.CloneItems()
	s.docs[doc.UserID] = memoryEntry{doc: cp, touched: time.Now()}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, userID)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Count returns the number of stored documents.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Prune deletes documents not written since the cutoff and returns how
// many were removed.
func (s *MemoryStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, entry := range s.docs {
		if entry.touched.Before(cutoff) {
			delete(s.docs, userID)
			removed++
		}
	}
	return removed
}

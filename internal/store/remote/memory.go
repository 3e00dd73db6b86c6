package remote

import (
	"context"
	"sync"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// MemoryClient keeps documents in process memory. It backs tests and
// single-process setups with no backend at all.
type MemoryClient struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		docs: make(map[string]domain.Document),
	}
}

func (c *MemoryClient) Fetch(ctx context.Context, userID string) (*domain.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[userID]
	if !ok {
		return nil, nil
	}
	cp := doc
	cp.Items = doc.CloneItems()
	return &cp, nil
}

func (c *MemoryClient) Write(ctx context.Context, doc domain.Document) error {
	if len(doc.Items) > domain.MaxItems {
		return ErrPayloadTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cp := doc
	cp.Items = doc.CloneItems()
	c.docs[doc.UserID] = cp
	return nil
}

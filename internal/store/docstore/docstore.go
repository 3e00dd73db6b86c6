// Package docstore persists per-user documents on the server side of the
// sync endpoint. One document per user, replaced wholesale on write.
package docstore

import (
	"context"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// Store is the server-side persistence contract.
// Get returns (nil, nil) when no document is stored for the user.
type Store interface {
	Get(ctx context.Context, userID string) (*domain.Document, error)
	Put(ctx context.Context, doc domain.Document) error
	Delete(ctx context.Context, userID string) error

	// Ping reports whether the backing medium is reachable.
	Ping(ctx context.Context) error
}

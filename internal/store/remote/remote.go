// Package remote sends and receives a user's document over the network
// boundary. Variants (in-process map, Redis key-value, HTTP blob endpoint)
// are interchangeable implementations of one contract; the sync engine
// never branches on which backend is active.
package remote

import (
	"context"
	"errors"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// Provider names select a Client implementation at construction time.
const (
	ProviderMemory = "memory"
	ProviderRedis  = "redis"
	ProviderHTTP   = "http"
)

var (
	// ErrPayloadTooLarge means the backend rejected the document size.
	// The write must not be retried as-is; the input has to shrink first.
	ErrPayloadTooLarge = errors.New("remote: payload too large")

	// ErrInvalidDocument means the backend rejected the document shape.
	// Not retryable.
	ErrInvalidDocument = errors.New("remote: document rejected")

	// ErrBackendUnavailable means the backend refused service for now.
	// The write may be retried on a later signal.
	ErrBackendUnavailable = errors.New("remote: backend unavailable")
)

// Retryable reports whether a failed write should be kept as a retry
// marker. Size and shape rejections need caller intervention; everything
// else is assumed transient.
func Retryable(err error) bool {
	return !errors.Is(err, ErrPayloadTooLarge) && !errors.Is(err, ErrInvalidDocument)
}

// Client is the remote store contract.
//
// Fetch returns (nil, nil) when no document is stored for the user;
// absence is not an error. Write replaces the user's document wholesale.
type Client interface {
	Fetch(ctx context.Context, userID string) (*domain.Document, error)
	Write(ctx context.Context, doc domain.Document) error
}

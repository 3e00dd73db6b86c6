// Package local provides durable on-device persistence for the sync
// engine: the saved-item list, the user identity, and the pending-write
// retry marker. Three independent slots, each independently loadable.
package local

import "github.com/shelfsync/shelfsync/internal/domain"

// Store is the local persistence contract.
//
// Loads degrade instead of failing: absent or corrupt data comes back as
// the zero value with a nil error. A non-nil error means the medium itself
// misbehaved (I/O); the engine recovers from that too, so implementations
// never need to guarantee error-free operation.
type Store interface {
	LoadItems() ([]domain.Item, error)
	SaveItems(items []domain.Item) error

	LoadUserID() (string, error)
	SaveUserID(id string) error

	LoadPendingWrite() (*domain.Document, error)
	SavePendingWrite(doc domain.Document) error
	ClearPendingWrite() error
}

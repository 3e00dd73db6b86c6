package domain

import (
	"fmt"
	"time"
)

const (
	// MaxItems is the maximum number of items accepted in one document.
	MaxItems = 200

	// MaxPayloadBytes is the maximum serialized document size accepted
	// at the network boundary.
	MaxPayloadBytes = 1 << 20
)

// Document is the full synchronized unit exchanged with the remote store:
// one user's saved-item list plus the timestamp assigned when the document
// was prepared for transmission.
//
// Documents are constructed fresh for every outgoing write; the item list
// inside the sync engine is the only long-lived mutable state.
type Document struct {
	// UserID is the stable per-device identifier owning this document.
	UserID string `json:"userId"`

	// Items is the saved-item list, newest creation first.
	Items []Item `json:"items"`

	// UpdatedAt is set at the moment the document is prepared for
	// transmission, not when individual items were created.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate enforces the boundary contract on an inbound document.
// It does not inspect payload size; callers cap the request body instead.
func (d *Document) Validate() error {
	if d.UserID == "" {
		return fmt.Errorf("document userId must be a non-empty string")
	}
	if len(d.Items) > MaxItems {
		return fmt.Errorf("document has %d items, maximum is %d", len(d.Items), MaxItems)
	}
	for i, item := range d.Items {
		if item.ID == "" {
			return fmt.Errorf("item %d is missing an id", i)
		}
		if item.Title == "" {
			return fmt.Errorf("item %d (%s) is missing a title", i, item.ID)
		}
		if item.CreatedAt.IsZero() {
			return fmt.Errorf("item %d (%s) is missing a createdAt timestamp", i, item.ID)
		}
	}
	return nil
}

// CloneItems returns a copy of the document's item slice.
func (d *Document) CloneItems() []Item {
	if len(d.Items) == 0 {
		return nil
	}
	out := make([]Item, len(d.Items))
	copy(out, d.Items)
	return out
}

package domain

import "time"

// Item represents a single saved recommendation from the cheatsheet.
//
// Items are created locally and synchronized to the remote store as part
// of a Document. An item is uniquely identified within a list by its
// (Title, URL) identity key; the ID only matters for removal.
type Item struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is an opaque unique identifier, generated locally on creation.
	ID string `json:"id"`

	// Title is the display name of the recommendation. Never empty.
	Title string `json:"title"`

	// URL is the optional link for the recommendation.
	// An empty URL still participates in the identity key.
	URL string `json:"url,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// Snippet is an optional free-form note captured with the item.
	Snippet string `json:"snippet,omitempty"`

	// CreatedAt is the creation instant, immutable after creation.
	CreatedAt time.Time `json:"createdAt"`
}

// Key returns the identity key used for duplicate detection.
func (i Item) Key() string {
	return ItemKey(i.Title, i.URL)
}

// ItemKey builds the identity key for a (title, url) pair.
// Two items with equal keys are the same saved recommendation.
func ItemKey(title, url string) string {
	return title + "\x00" + url
}

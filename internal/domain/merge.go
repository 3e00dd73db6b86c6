package domain

import (
	"sort"
	"time"
)

// NewestCreatedAt returns the most recent CreatedAt among items.
// The zero time is returned for an empty list.
func NewestCreatedAt(items []Item) time.Time {
	var newest time.Time
	for _, item := range items {
		if item.CreatedAt.After(newest) {
			newest = item.CreatedAt
		}
	}
	return newest
}

// ShouldMerge reports whether a fetched remote document supersedes the
// local list. The comparison is a coarse whole-document check: the remote
// UpdatedAt must be strictly newer than the newest local creation instant.
func ShouldMerge(local []Item, remote *Document) bool {
	if remote == nil {
		return false
	}
	return remote.UpdatedAt.After(NewestCreatedAt(local))
}

// Merge combines a local and a remote item list into one.
//
// Local items win ties: when both lists contain an item with the same
// identity key, the local copy is kept. The result is sorted by CreatedAt
// descending (newest first); the sort is stable so items with equal
// timestamps keep their local-before-remote order.
func Merge(local, remote []Item) []Item {
	merged := make([]Item, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local)+len(remote))

	for _, item := range local {
		if seen[item.Key()] {
			continue
		}
		seen[item.Key()] = true
		merged = append(merged, item)
	}
	for _, item := range remote {
		if seen[item.Key()] {
			continue
		}
		seen[item.Key()] = true
		merged = append(merged, item)
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].CreatedAt.After(merged[b].CreatedAt)
	})

	return merged
}

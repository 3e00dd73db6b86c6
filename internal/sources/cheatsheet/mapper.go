package cheatsheet

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// Map converts a parsed cheatsheet file into catalog entries, preserving
// file order. Rows without a name are skipped.
func Map(f File) []*domain.Entry {
	entries := make([]*domain.Entry, 0)

	for _, category := range f.Categories {
		for _, spec := range category.Entries {
			if spec.Name == "" {
				continue
			}

			entries = append(entries, &domain.Entry{
				ID:       entryID(category.Name, spec.Name),
				Name:     spec.Name,
				Category: category.Name,
				URL:      spec.URL,
				Summary:  spec.Summary,
				Tags:     spec.Tags,
			})
		}
	}

	return entries
}

// entryID derives a short stable identifier from category and name, so
// reloading the same file yields the same IDs.
func entryID(category, name string) string {
	sum := sha256.Sum256([]byte(category + "/" + name))
	return hex.EncodeToString(sum[:6])
}

// Package export renders a user's saved items as plain text, suitable
// for piping into a file or the clipboard.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// Render formats the saved-item list, one block per item, newest first
// (the order the engine maintains). An empty list renders a short notice
// instead of an empty string.
func Render(items []domain.Item) string {
	if len(items) == 0 {
		return "No saved items.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Saved items (%d)\n\n", len(items))

	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		if item.URL != "" {
			fmt.Fprintf(&b, "   %s\n", item.URL)
		}
		if item.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", item.Snippet)
		}
		if !item.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "   saved %s\n", item.CreatedAt.Format(time.RFC3339))
		}
		b.WriteString("\n")
	}

	return b.String()
}

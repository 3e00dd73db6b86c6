package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shelfsync/shelfsync/internal/domain"
	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
)

type cheatsheetResponse struct {
	Entries []*domain.Entry `json:"entries"`
	Total   int             `json:"total"`
}

// Cheatsheet serves the comparison table, optionally filtered by ?q=.
func Cheatsheet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if d.Catalog == nil {
			writeError(w, http.StatusNotFound, "catalog disabled")
			return
		}

		entries := d.Catalog.Search(r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(cheatsheetResponse{
			Entries: entries,
			Total:   len(entries),
		})
	}
}

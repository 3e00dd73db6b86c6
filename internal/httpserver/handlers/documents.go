package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfsync/shelfsync/internal/domain"
	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/socket"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// GetDocument serves the stored document for a user. Absence is a 404;
// clients treat that as "nothing synced yet", not an error.
func GetDocument(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "missing user id")
			return
		}

		doc, err := d.Docs.Get(r.Context(), userID)
		if err != nil {
			d.Logger.Error("failed to load document",
				logger.String("user_id", userID),
				logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		if doc == nil {
			writeError(w, http.StatusNotFound, "no document for user")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

// PutDocument replaces the stored document for a user wholesale.
// Payloads over the byte cap get 413, malformed JSON 400, documents
// breaking the item contract 422.
func PutDocument(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "missing user id")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, domain.MaxPayloadBytes)

		var doc domain.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "payload exceeds size cap")
				return
			}
			writeError(w, http.StatusBadRequest, "malformed document")
			return
		}

		if doc.UserID == "" {
			doc.UserID = userID
		}
		if doc.UserID != userID {
			writeError(w, http.StatusUnprocessableEntity, "user id mismatch")
			return
		}
		if err := doc.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if doc.UpdatedAt.IsZero() {
			doc.UpdatedAt = d.TimeNow()
		}

		if err := d.Docs.Put(r.Context(), doc); err != nil {
			d.Logger.Error("failed to store document",
				logger.String("user_id", userID),
				logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}

		d.Logger.Info("document stored",
			logger.String("user_id", userID),
			logger.Int("items", len(doc.Items)))

		if d.Hub != nil {
			d.Hub.Notify(socket.Event{
				Type:      socket.EventDocumentUpdated,
				UserID:    userID,
				UpdatedAt: doc.UpdatedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "stored",
			"updatedAt": doc.UpdatedAt,
		})
	}
}

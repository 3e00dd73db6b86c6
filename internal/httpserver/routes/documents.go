package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/httpserver/handlers"
)

func init() { Register(registerDocuments) }

func registerDocuments(r chi.Router, d deps.Deps) {
	r.Get("/api/docs/{userID}", handlers.GetDocument(d))
	r.Put("/api/docs/{userID}", handlers.PutDocument(d))
}

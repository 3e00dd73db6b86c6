package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/httpserver/handlers"
)

func init() { Register(registerWatch) }

func registerWatch(r chi.Router, d deps.Deps) {
	r.Get("/api/docs/{userID}/watch", handlers.Watch(d))
}

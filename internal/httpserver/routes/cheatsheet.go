package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/httpserver/handlers"
)

func init() { Register(registerCheatsheet) }

func registerCheatsheet(r chi.Router, d deps.Deps) {
	r.Get("/api/cheatsheet", handlers.Cheatsheet(d))
}

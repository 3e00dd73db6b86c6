package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/socket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS on the upgrade request is enforced by the router middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Watch upgrades to a websocket and streams document-change events for
// the user until the peer disconnects.
func Watch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "missing user id")
			return
		}
		if d.Hub == nil {
			writeError(w, http.StatusNotFound, "live updates disabled")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Warn("websocket upgrade failed",
				logger.String("user_id", userID),
				logger.Error(err))
			return
		}

		client := socket.NewClient(d.Hub, conn, userID)
		d.Hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}

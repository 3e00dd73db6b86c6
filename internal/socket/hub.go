// Package socket fans out document-change events to connected devices.
// Each user id is a room; every device watching that user's feed gets an
// event when a new document version lands, so it can pull and merge.
package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shelfsync/shelfsync/internal/logger"
)

// EventDocumentUpdated is sent when a user's document was replaced.
const EventDocumentUpdated = "DOCUMENT_UPDATED"

// Event is the wire message pushed to subscribed devices.
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Hub tracks rooms of connected clients and broadcasts events to them.
type Hub struct {
	log logger.Logger

	register   chan *Client
	unregister chan *Client
	events     chan Event
	done       chan struct{}

	mu    sync.Mutex
	rooms map[string]map[*Client]bool
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run processes registrations and broadcasts until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.userID] == nil {
				h.rooms[client.userID] = make(map[*Client]bool)
			}
			h.rooms[client.userID][client] = true
			size := len(h.rooms[client.userID])
			h.mu.Unlock()

			h.log.Debug("socket client joined",
				logger.String("user_id", client.userID),
				logger.Int("room_size", size))

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.userID]; ok && room[client] {
				delete(room, client)
				close(client.send)
				if len(room) == 0 {
					delete(h.rooms, client.userID)
				}
			}
			h.mu.Unlock()

		case ev := <-h.events:
			h.broadcast(ev)

		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

// Notify queues an event for broadcast. It never blocks the caller; when
// the hub is saturated the event is dropped, since clients reconcile by
// pulling anyway.
func (h *Hub) Notify(ev Event) {
	select {
	case h.events <- ev:
	default:
		h.log.Warn("socket event dropped, hub saturated",
			logger.String("user_id", ev.UserID))
	}
}

func (h *Hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Errorf("failed to marshal socket event: %v", err)
		return
	}

	h.mu.Lock()
	targets := make([]*Client, 0, len(h.rooms[ev.UserID]))
	for client := range h.rooms[ev.UserID] {
		targets = append(targets, client)
	}
	h.mu.Unlock()

	// Send outside the lock; a lagging client is dropped rather than
	// allowed to block the hub.
	for _, client := range targets {
		select {
		case client.send <- payload:
		default:
			h.log.Warn("socket client lagging, disconnecting",
				logger.String("user_id", client.userID))
			h.Unregister(client)
		}
	}
}

// Register adds a client to its user's room. After shutdown it is a
// no-op rather than a blocked send.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client; safe to call from any goroutine. The
// done guard keeps disconnects arriving after shutdown from leaking
// goroutines stuck on the unregister channel.
func (h *Hub) Unregister(c *Client) {
	go func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()
}

// RoomSize returns the number of clients watching a user's feed.
func (h *Hub) RoomSize(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[userID])
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, room := range h.rooms {
		for client := range room {
			close(client.send)
		}
		delete(h.rooms, userID)
	}
}

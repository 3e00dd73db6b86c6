package socket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsync/shelfsync/internal/logger"
)

func testClient(hub *Hub, userID string) *Client {
	// No real connection: the test reads from the send channel directly.
	return &Client{hub: hub, userID: userID, send: make(chan []byte, sendBuffer)}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitRoomSize(t *testing.T, hub *Hub, userID string, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.RoomSize(userID) == want },
		2*time.Second, 5*time.Millisecond)
}

func TestHubBroadcastsToUserRoom(t *testing.T) {
	hub := startHub(t)

	a := testClient(hub, "user-1")
	b := testClient(hub, "user-1")
	other := testClient(hub, "user-2")
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)
	waitRoomSize(t, hub, "user-1", 2)
	waitRoomSize(t, hub, "user-2", 1)

	sent := Event{Type: EventDocumentUpdated, UserID: "user-1", UpdatedAt: time.Now().UTC()}
	hub.Notify(sent)

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.send:
			var got Event
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, EventDocumentUpdated, got.Type)
			assert.Equal(t, "user-1", got.UserID)
		case <-time.After(2 * time.Second):
			t.Fatal("client did not receive the event")
		}
	}

	select {
	case <-other.send:
		t.Fatal("client of another user must not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := testClient(hub, "user-1")
	hub.Register(c)
	waitRoomSize(t, hub, "user-1", 1)

	hub.Unregister(c)
	waitRoomSize(t, hub, "user-1", 0)

	select {
	case _, open := <-c.send:
		assert.False(t, open, "send channel must be closed on unregister")
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHubShutdownReleasesStragglers(t *testing.T) {
	hub := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := testClient(hub, "user-1")
	hub.Register(c)
	waitRoomSize(t, hub, "user-1", 1)

	cancel()

	// Run has exited once the registered client's send channel closes.
	select {
	case _, open := <-c.send:
		require.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not shut down")
	}

	// Disconnects and joins arriving after shutdown must return instead
	// of blocking on the hub's channels forever.
	released := make(chan struct{})
	go func() {
		hub.Register(testClient(hub, "user-2"))
		hub.Unregister(c)
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("register/unregister blocked after shutdown")
	}
}

func TestHubNotifyNeverBlocks(t *testing.T) {
	hub := NewHub(logger.Nop()) // not running

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Notify(Event{Type: EventDocumentUpdated, UserID: "user-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a saturated hub")
	}
}

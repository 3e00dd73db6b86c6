package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsync/shelfsync/internal/engine"
	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/httpserver/handlers"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/store/docstore"
	"github.com/shelfsync/shelfsync/internal/store/local"
	"github.com/shelfsync/shelfsync/internal/store/remote"
)

// startServer brings up the document endpoint backed by an in-memory
// store, exactly as shelfsyncd wires it minus the boundary middlewares.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	d := deps.Deps{
		Logger:  logger.Nop(),
		Docs:    docstore.NewMemoryStore(),
		TimeNow: time.Now,
	}

	r := chi.NewRouter()
	r.Get("/api/docs/{userID}", handlers.GetDocument(d))
	r.Put("/api/docs/{userID}", handlers.PutDocument(d))

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

// newDevice simulates one device: its own local store, sharing the user
// identity so both sync against the same document.
func newDevice(t *testing.T, serverURL, userID string) *engine.Engine {
	t.Helper()

	store := local.NewMemStore()
	require.NoError(t, store.SaveUserID(userID))

	e := engine.New(engine.Options{
		Local:         store,
		Remote:        remote.NewHTTPClient(serverURL),
		Logger:        logger.Nop(),
		Debounce:      50 * time.Millisecond,
		RetryCooldown: time.Nanosecond,
	})
	e.Init()
	t.Cleanup(e.Stop)
	return e
}

func TestTwoDevicesConvergeOverHTTP(t *testing.T) {
	ts := startServer(t)
	ctx := context.Background()

	deviceA := newDevice(t, ts.URL, "shared-user")
	deviceB := newDevice(t, ts.URL, "shared-user")

	// Device A saves two items and pushes.
	require.True(t, deviceA.Add("Neovim", "https://neovim.io", "modal editor"))
	require.True(t, deviceA.Add("Zed", "https://zed.dev", ""))
	require.NoError(t, deviceA.Flush(ctx))

	// Device B starts empty and pulls.
	require.Empty(t, deviceB.Items())
	require.NoError(t, deviceB.Reconcile(ctx))

	got := deviceB.Items()
	require.Len(t, got, 2)
	assert.Equal(t, "Zed", got[0].Title, "newest item first")
	assert.Equal(t, "Neovim", got[1].Title)
}

func TestCrossDeviceMergeKeepsBothSides(t *testing.T) {
	ts := startServer(t)
	ctx := context.Background()

	deviceA := newDevice(t, ts.URL, "shared-user")
	deviceB := newDevice(t, ts.URL, "shared-user")

	// Both devices save overlapping lists while "offline".
	require.True(t, deviceA.Add("Neovim", "https://neovim.io", ""))
	require.True(t, deviceA.Add("fish", "https://fishshell.com", ""))

	require.True(t, deviceB.Add("Neovim", "https://neovim.io", ""))
	require.True(t, deviceB.Add("Zed", "https://zed.dev", ""))

	// A pushes first, then B reconciles against A's document and pushes.
	require.NoError(t, deviceA.Flush(ctx))
	require.NoError(t, deviceB.Reconcile(ctx))
	require.NoError(t, deviceB.Flush(ctx))

	merged := deviceB.Items()
	require.Len(t, merged, 3, "shared item deduplicated, unique items kept")

	titles := make(map[string]bool, len(merged))
	for _, item := range merged {
		titles[item.Title] = true
	}
	assert.True(t, titles["Neovim"] && titles["fish"] && titles["Zed"], "all titles present: %v", titles)

	// A reconciles and converges on the same three items.
	require.NoError(t, deviceA.Reconcile(ctx))
	assert.Len(t, deviceA.Items(), 3)
}

func TestRetryAfterServerComesBack(t *testing.T) {
	ts := startServer(t)
	ctx := context.Background()

	// Point the device at a dead endpoint first.
	dead := httptest.NewServer(nil)
	deadURL := dead.URL
	dead.Close()

	store := local.NewMemStore()
	require.NoError(t, store.SaveUserID("shared-user"))

	e := engine.New(engine.Options{
		Local:         store,
		Remote:        remote.NewHTTPClient(deadURL),
		Logger:        logger.Nop(),
		Debounce:      50 * time.Millisecond,
		RetryCooldown: time.Nanosecond,
	})
	e.Init()
	t.Cleanup(e.Stop)

	require.True(t, e.Add("Neovim", "https://neovim.io", ""))
	require.Error(t, e.Flush(ctx), "flush against a dead endpoint fails")

	marker, err := store.LoadPendingWrite()
	require.NoError(t, err)
	require.NotNil(t, marker, "failed write leaves a retry marker")

	// The same local state syncs fine through a live engine.
	live := engine.New(engine.Options{
		Local:         store,
		Remote:        remote.NewHTTPClient(ts.URL),
		Logger:        logger.Nop(),
		Debounce:      50 * time.Millisecond,
		RetryCooldown: time.Nanosecond,
	})
	live.Init()
	t.Cleanup(live.Stop)

	live.Reconnected(ctx)

	marker, err = store.LoadPendingWrite()
	require.NoError(t, err)
	assert.Nil(t, marker, "successful retry clears the marker")

	// A fresh device sees the recovered document.
	other := newDevice(t, ts.URL, "shared-user")
	require.NoError(t, other.Reconcile(ctx))
	assert.Len(t, other.Items(), 1)
}

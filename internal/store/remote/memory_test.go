package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsync/shelfsync/internal/domain"
)

func testDoc(userID string) domain.Document {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Document{
		UserID: userID,
		Items: []domain.Item{
			{ID: "a", Title: "Alpha", URL: "https://alpha", CreatedAt: created},
		},
		UpdatedAt: created.Add(time.Minute),
	}
}

func TestMemoryClientAbsent(t *testing.T) {
	c := NewMemoryClient()

	doc, err := c.Fetch(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestMemoryClientRoundTrip(t *testing.T) {
	c := NewMemoryClient()
	doc := testDoc("user-1")

	require.NoError(t, c.Write(context.Background(), doc))

	got, err := c.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc, *got)
}

func TestMemoryClientCopiesItems(t *testing.T) {
	c := NewMemoryClient()
	doc := testDoc("user-1")
	require.NoError(t, c.Write(context.Background(), doc))

	// Mutating the caller's slice must not leak into the store.
	doc.Items[0].Title = "mutated"

	got, err := c.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Items[0].Title)

	// Mutating a fetched copy must not leak either.
	got.Items[0].Title = "mutated again"
	again, err := c.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", again.Items[0].Title)
}

func TestMemoryClientRejectsTooManyItems(t *testing.T) {
	c := NewMemoryClient()

	doc := domain.Document{UserID: "user-1", UpdatedAt: time.Now().UTC()}
	for i := 0; i <= domain.MaxItems; i++ {
		doc.Items = append(doc.Items, domain.Item{ID: "x", Title: "x", CreatedAt: time.Now().UTC()})
	}

	err := c.Write(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.False(t, Retryable(err))
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(ErrPayloadTooLarge))
	assert.False(t, Retryable(ErrInvalidDocument))
	assert.True(t, Retryable(ErrBackendUnavailable))
	assert.True(t, Retryable(assert.AnError))
}

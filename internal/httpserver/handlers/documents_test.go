package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsync/shelfsync/internal/domain"
	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/store/docstore"
)

func newTestRouter(t *testing.T) (*chi.Mux, *docstore.MemoryStore) {
	t.Helper()

	docs := docstore.NewMemoryStore()
	d := deps.Deps{
		Logger:  logger.Nop(),
		Docs:    docs,
		TimeNow: time.Now,
	}

	r := chi.NewRouter()
	r.Get("/api/docs/{userID}", GetDocument(d))
	r.Put("/api/docs/{userID}", PutDocument(d))
	return r, docs
}

func putJSON(r http.Handler, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sampleDocument(userID string, n int) domain.Document {
	items := make([]domain.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.Item{
			ID:        fmt.Sprintf("item-%d", i),
			Title:     fmt.Sprintf("Tool %d", i),
			URL:       fmt.Sprintf("https://example.com/%d", i),
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		})
	}
	return domain.Document{
		UserID:    userID,
		Items:     items,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestPutThenGetDocument(t *testing.T) {
	r, _ := newTestRouter(t)

	doc := sampleDocument("u1", 3)
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := putJSON(r, "/api/docs/u1", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/docs/u1", nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var got domain.Document
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
	assert.Equal(t, "u1", got.UserID)
	assert.Len(t, got.Items, 3)
	assert.True(t, got.UpdatedAt.Equal(doc.UpdatedAt))
}

func TestGetDocumentAbsentIs404(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/docs/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no document")
}

func TestPutDocumentMalformedJSON(t *testing.T) {
	r, docs := newTestRouter(t)

	rec := putJSON(r, "/api/docs/u1", []byte(`{"userId": "u1", "items": [`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := docs.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, stored, "malformed payload must not be stored")
}

func TestPutDocumentTooManyItems(t *testing.T) {
	r, _ := newTestRouter(t)

	doc := sampleDocument("u1", domain.MaxItems+1)
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := putJSON(r, "/api/docs/u1", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutDocumentOversizedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	// A single item whose snippet alone blows past the byte cap.
	doc := domain.Document{
		UserID: "u1",
		Items: []domain.Item{{
			ID:        "big",
			Title:     "Big",
			Snippet:   strings.Repeat("x", domain.MaxPayloadBytes),
			CreatedAt: time.Now(),
		}},
		UpdatedAt: time.Now(),
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := putJSON(r, "/api/docs/u1", payload)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPutDocumentUserIDMismatch(t *testing.T) {
	r, _ := newTestRouter(t)

	doc := sampleDocument("someone-else", 1)
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := putJSON(r, "/api/docs/u1", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutDocumentFillsUserIDFromPath(t *testing.T) {
	r, docs := newTestRouter(t)

	doc := sampleDocument("", 1)
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := putJSON(r, "/api/docs/u1", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := docs.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.UserID)
}

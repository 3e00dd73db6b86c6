package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// DefaultHTTPTimeout bounds each request; the engine itself never sets
// deadlines on remote I/O.
const DefaultHTTPTimeout = 10 * time.Second

// HTTPClient talks to a shelfsyncd endpoint, treating it as a blob store
// keyed by user id.
type HTTPClient struct {
	base string
	http *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

func (c *HTTPClient) docURL(userID string) string {
	return c.base + "/api/docs/" + url.PathEscape(userID)
}

func (c *HTTPClient) Fetch(ctx context.Context, userID string) (*domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.docURL(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var doc domain.Document
		if err := json.NewDecoder(io.LimitReader(resp.Body, domain.MaxPayloadBytes+1)).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode remote document: %w", err)
		}
		return &doc, nil
	case http.StatusNotFound:
		// Absence of a stored document is not an error.
		return nil, nil
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: fetch returned 503", ErrBackendUnavailable)
	default:
		return nil, fmt.Errorf("remote fetch: unexpected status %d", resp.StatusCode)
	}
}

func (c *HTTPClient) Write(ctx context.Context, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if len(data) > domain.MaxPayloadBytes {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.docURL(doc.UserID), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote write failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: write returned 413", ErrPayloadTooLarge)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: write returned %d", ErrInvalidDocument, resp.StatusCode)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: write returned %d", ErrBackendUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("remote write: unexpected status %d", resp.StatusCode)
	}
}

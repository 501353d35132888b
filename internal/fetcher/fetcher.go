// Package fetcher issues the single search request against the Open Library
// API and decodes its docs array.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/libdata/bookpipeline/internal/books"
)

// searchResponse is the envelope around the docs array. Unknown keys in the
// body are ignored.
type searchResponse struct {
	Docs []books.RawRecord `json:"docs"`
}

// Client fetches raw book records from the search endpoint.
type Client struct {
	url       string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// New builds a Client for the given fully-assembled search URL.
func New(url, userAgent string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url:       url,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Extract performs one GET and returns the decoded docs. Transport and
// status failures come back as errors; the caller decides whether to
// degrade to an empty result. A body without a docs key yields an empty
// slice and no error.
func (c *Client) Extract(ctx context.Context) ([]books.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("Fetching books", zap.String("url", c.url))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch books: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("Failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch books: unexpected status %s", resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if payload.Docs == nil {
		return []books.RawRecord{}, nil
	}
	return payload.Docs, nil
}

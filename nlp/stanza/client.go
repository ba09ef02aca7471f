// Package stanza implements nlp.Segmenter against a Stanza-style
// segmentation service.
//
// The service is expected to expose a single JSON endpoint that accepts
// {"text": "..."} and responds with {"sentences": ["...", ...]} in document
// order, the protocol spoken by a Stanza tokenize pipeline behind a thin
// HTTP wrapper.
package stanza

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sericalabs/serica/nlp"
)

const defaultTimeout = 30 * time.Second

// Client is a minimal REST client to a Stanza segmentation service.
type Client struct {
	url    string
	client *http.Client
}

var _ nlp.Segmenter = (*Client)(nil)

// Config holds connection settings for the segmentation service.
type Config struct {
	// URL is the full endpoint URL, e.g. "http://localhost:8064/segment".
	URL string
	// Timeout bounds each segmentation call. Default: 30s.
	Timeout time.Duration
}

// NewClient creates a segmentation client for the configured service.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("stanza: URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type segmentRequest struct {
	Text string `json:"text"`
}

type segmentResponse struct {
	Sentences []string `json:"sentences"`
}

// SegmentText sends the text to the segmentation service and returns the
// ordered sentences. Empty input short-circuits without a network call.
func (c *Client) SegmentText(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	body, err := json.Marshal(segmentRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stanza: segmentation call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stanza: POST %s failed: %s", c.url, resp.Status)
	}

	var parsed segmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("stanza: decoding response: %w", err)
	}

	// Guard against services that return empty strings for blank lines.
	sentences := make([]string, 0, len(parsed.Sentences))
	for _, s := range parsed.Sentences {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences, nil
}

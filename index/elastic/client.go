// Copyright 2025 Serica Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package elastic implements index.Client against Elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/index"
)

// Client implements index.Client using the official Elasticsearch client.
// It is safe for concurrent use.
type Client struct {
	es           *elasticsearch.Client
	featureField string
	logger       *slog.Logger
}

var _ index.Client = (*Client)(nil)

// Config holds connection settings for Elasticsearch.
type Config struct {
	// Addresses lists the cluster node URLs.
	Addresses []string
	// Username and Password are used for basic authentication.
	Username string
	Password string
	// ModelName labels the embedding feature field of written records,
	// e.g. "LaBSE" writes vectors to "LaBSE_features".
	ModelName string
}

// NewClient creates an Elasticsearch-backed index client.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("elastic: at least one address is required")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("elastic: ModelName is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		es:           es,
		featureField: index.FeatureField(cfg.ModelName),
		logger:       slog.Default().With("component", "elastic"),
	}, nil
}

// IndexExists reports whether the named index exists.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("elastic: index exists check: %s", res.Status())
	}
}

// CreateSentenceIndex creates the named index with the sentence record
// mapping: text fields for sentence and metadata, long fields for positions,
// and a dense_vector feature field named after the model.
func (c *Client) CreateSentenceIndex(ctx context.Context, name, modelName string, dimensions int) error {
	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"sentence":    map[string]any{"type": "text"},
				"document":    map[string]any{"type": "text"},
				"document_id": map[string]any{"type": "long"},
				"title":       map[string]any{"type": "text"},
				"slug":        map[string]any{"type": "text"},
				"number":      map[string]any{"type": "long"},
				"n_chunk":     map[string]any{"type": "long"},
				index.FeatureField(modelName): map[string]any{
					"type": "dense_vector",
					"dims": dimensions,
				},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	res, err := c.es.Indices.Create(name,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elastic: creating index %q: %s", name, res.Status())
	}

	c.logger.Info("created sentence index", "index", name, "model", modelName, "dims", dimensions)
	return nil
}

// DocumentExists reports whether any records for the document are indexed.
func (c *Client) DocumentExists(ctx context.Context, name string, documentID int64) (bool, error) {
	query := fmt.Sprintf(`{"query":{"term":{"document_id":%d}}}`, documentID)

	res, err := c.es.Count(
		c.es.Count.WithContext(ctx),
		c.es.Count.WithIndex(name),
		c.es.Count.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, fmt.Errorf("elastic: counting document %d: %s", documentID, res.Status())
	}

	var parsed struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("elastic: decoding count response: %w", err)
	}

	return parsed.Count != 0, nil
}

// DeleteDocument removes all records for the document via delete-by-query.
// The call refreshes the index so the deletion is visible before any
// subsequent write for the same document.
func (c *Client) DeleteDocument(ctx context.Context, name string, documentID int64) (int64, error) {
	query := fmt.Sprintf(`{"query":{"term":{"document_id":%d}}}`, documentID)

	res, err := c.es.DeleteByQuery([]string{name}, strings.NewReader(query),
		c.es.DeleteByQuery.WithContext(ctx),
		c.es.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("elastic: delete-by-query for document %d: %s", documentID, res.Status())
	}

	var parsed struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("elastic: decoding delete response: %w", err)
	}

	c.logger.Debug("deleted document records", "index", name, "document_id", documentID, "deleted", parsed.Deleted)
	return parsed.Deleted, nil
}

// BulkInsert writes the records in one bulk call. Each record carries a
// deterministic identifier derived from (document_id, position), so a
// retried bulk overwrites the same documents instead of duplicating them.
func (c *Client) BulkInsert(ctx context.Context, name string, records []core.SentenceRecord) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, record := range records {
		meta := fmt.Sprintf(`{"index":{"_id":%q}}`, core.SentenceRecordID(record.DocumentID, record.Position))
		buf.WriteString(meta)
		buf.WriteByte('\n')

		source, err := json.Marshal(c.bulkSource(record))
		if err != nil {
			return err
		}
		buf.Write(source)
		buf.WriteByte('\n')
	}

	res, err := c.es.Bulk(bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(name),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", index.ErrBulkFailed, res.Status())
	}

	return checkBulkResponse(res)
}

// bulkSource builds the index document for a sentence record. The feature
// field name carries the model; the remaining field set is fixed per
// deployment.
func (c *Client) bulkSource(record core.SentenceRecord) map[string]any {
	return map[string]any{
		"sentence":     record.Sentence,
		"document":     record.SectionPath,
		"document_id":  record.DocumentID,
		"title":        record.Title,
		"slug":         record.Slug,
		"number":       record.Position,
		"n_chunk":      record.Chunk,
		c.featureField: record.Vector,
	}
}

func checkBulkResponse(res *esapi.Response) error {
	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("elastic: decoding bulk response: %w", err)
	}

	if !parsed.Errors {
		return nil
	}

	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Error != nil {
				return fmt.Errorf("%w: %s: %s", index.ErrBulkFailed, result.Error.Type, result.Error.Reason)
			}
		}
	}
	return index.ErrBulkFailed
}

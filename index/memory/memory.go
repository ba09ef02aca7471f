// Package memory implements index.Client with an in-process store.
//
// It mirrors the observable semantics the pipeline relies on: term lookups by
// document_id, delete-by-query, and bulk upserts keyed by deterministic
// record IDs. Intended for tests and local runs without Elasticsearch.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/index"
)

// Client is an in-memory index.Client. Safe for concurrent use.
type Client struct {
	mu      sync.RWMutex
	indices map[string]map[string]core.SentenceRecord // index name -> record ID -> record
}

var _ index.Client = (*Client)(nil)

// NewClient creates an empty in-memory index client.
func NewClient() *Client {
	return &Client{indices: make(map[string]map[string]core.SentenceRecord)}
}

// IndexExists reports whether the named index was created.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.indices[name]
	return ok, nil
}

// CreateSentenceIndex creates the named index. The mapping arguments are
// accepted for interface parity and not interpreted.
func (c *Client) CreateSentenceIndex(ctx context.Context, name, modelName string, dimensions int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.indices[name]; ok {
		return fmt.Errorf("memory: index %q already exists", name)
	}
	c.indices[name] = make(map[string]core.SentenceRecord)
	return nil
}

// DocumentExists reports whether any records for the document are present.
func (c *Client) DocumentExists(ctx context.Context, name string, documentID int64) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, ok := c.indices[name]
	if !ok {
		return false, index.ErrIndexNotFound
	}
	for _, record := range records {
		if record.DocumentID == documentID {
			return true, nil
		}
	}
	return false, nil
}

// DeleteDocument removes all records for the document and returns the count.
func (c *Client) DeleteDocument(ctx context.Context, name string, documentID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	records, ok := c.indices[name]
	if !ok {
		return 0, index.ErrIndexNotFound
	}
	var deleted int64
	for id, record := range records {
		if record.DocumentID == documentID {
			delete(records, id)
			deleted++
		}
	}
	return deleted, nil
}

// BulkInsert upserts the records keyed by their deterministic IDs.
func (c *Client) BulkInsert(ctx context.Context, name string, records []core.SentenceRecord) error {
	if len(records) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.indices[name]
	if !ok {
		return index.ErrIndexNotFound
	}
	for _, record := range records {
		stored[core.SentenceRecordID(record.DocumentID, record.Position)] = record
	}
	return nil
}

// DocumentRecords returns the stored records for a document ordered by
// position. Test helper.
func (c *Client) DocumentRecords(name string, documentID int64) []core.SentenceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []core.SentenceRecord
	for _, record := range c.indices[name] {
		if record.DocumentID == documentID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sericalabs/serica/ai/mock"
	"github.com/sericalabs/serica/core"
	indexmem "github.com/sericalabs/serica/index/memory"
	"github.com/sericalabs/serica/ingestion"
	storagemem "github.com/sericalabs/serica/storage/memory"
)

type periodSegmenter struct{}

func (periodSegmenter) SegmentText(ctx context.Context, text string) ([]string, error) {
	var out []string
	for _, part := range strings.SplitAfter(text, ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

type serverFixture struct {
	server   *httptest.Server
	pipeline *ingestion.Pipeline
	index    *indexmem.Client
}

func newServerFixture(t *testing.T, createIndex bool) *serverFixture {
	t.Helper()

	idx := indexmem.NewClient()
	if createIndex {
		require.NoError(t, idx.CreateSentenceIndex(context.Background(), "sentences", "labse", 8))
	}

	embedder := mock.NewMockEmbedder(8)
	jobs := storagemem.NewJobRepository()

	pipeline, err := ingestion.NewPipeline(idx, embedder, periodSegmenter{}, jobs, "sentences",
		ingestion.WithRetryPolicy(1, time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	srv := NewServer(pipeline, idx, embedder, "sentences", nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &serverFixture{server: ts, pipeline: pipeline, index: idx}
}

func (f *serverFixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (f *serverFixture) waitForJob(t *testing.T, documentID int64) *core.IngestionJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := f.pipeline.Job(context.Background(), documentID)
		if err == nil && (job.Status == core.JobStatusSucceeded || job.Status == core.JobStatusFailed) {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for job of document %d", documentID)
	return nil
}

func TestRootEndpoint(t *testing.T) {
	f := newServerFixture(t, true)

	resp, body := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestInsertionCreatesAndReplaces(t *testing.T) {
	f := newServerFixture(t, true)

	doc := `{"document_id": 42, "title": "De Bello Gallico", "slug": "dbg", "text": "Gallia est omnis divisa. Quarum unam incolunt Belgae."}`

	resp, body := f.do(t, http.MethodPut, "/insertion", doc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "created", body["message"])

	job := f.waitForJob(t, 42)
	require.Equal(t, core.JobStatusSucceeded, job.Status)
	assert.Len(t, f.index.DocumentRecords("sentences", 42), 2)

	// Second insertion replaces prior records.
	resp, body = f.do(t, http.MethodPut, "/insertion", doc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "deleted and re-created", body["message"])

	f.waitForJob(t, 42)
	assert.Len(t, f.index.DocumentRecords("sentences", 42), 2)
}

func TestInsertionMissingIndex(t *testing.T) {
	f := newServerFixture(t, false)

	resp, body := f.do(t, http.MethodPut, "/insertion", `{"document_id": 42, "text": "Prima."}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "index not found", body["message"])
}

func TestInsertionRejectsBadRequests(t *testing.T) {
	f := newServerFixture(t, true)

	resp, _ := f.do(t, http.MethodPut, "/insertion", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/insertion", `{"document_id": 0, "text": "Prima."}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeletion(t *testing.T) {
	f := newServerFixture(t, true)

	_, body := f.do(t, http.MethodPut, "/insertion", `{"document_id": 42, "text": "Prima. Secunda."}`)
	require.Equal(t, "created", body["message"])
	f.waitForJob(t, 42)

	resp, body := f.do(t, http.MethodDelete, "/deletion/42", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "document deleted", body["message"])
	assert.Equal(t, float64(2), body["deleted"])
	assert.Empty(t, f.index.DocumentRecords("sentences", 42))

	// Deleting again finds no records.
	resp, body = f.do(t, http.MethodDelete, "/deletion/42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "document not found", body["message"])

	resp, _ = f.do(t, http.MethodDelete, "/deletion/not-a-number", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVectorize(t *testing.T) {
	f := newServerFixture(t, true)

	resp, body := f.do(t, http.MethodPost, "/vectorize", `{"text": "Gallia est omnis divisa."}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	vector, ok := body["vector"].([]any)
	require.True(t, ok)
	assert.Len(t, vector, 8)
}

func TestJobStatus(t *testing.T) {
	f := newServerFixture(t, true)

	resp, _ := f.do(t, http.MethodGet, "/jobs/42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := f.do(t, http.MethodPut, "/insertion", `{"document_id": 42, "text": "Prima. Secunda."}`)
	require.Equal(t, "created", body["message"])
	f.waitForJob(t, 42)

	resp, body = f.do(t, http.MethodGet, "/jobs/42", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "succeeded", body["status"])
	assert.Equal(t, "created", body["outcome"])
	assert.Equal(t, float64(2), body["sentences"])
	assert.Equal(t, float64(1), body["batches"])
}

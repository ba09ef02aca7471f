package elastic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/index"
)

// newTestServer wraps a handler with the product header the v8 client
// validates on every response.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{Addresses: []string{srv.URL}, ModelName: "LaBSE"})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("requires addresses", func(t *testing.T) {
		_, err := NewClient(Config{ModelName: "LaBSE"})
		assert.Error(t, err)
	})

	t.Run("requires model name", func(t *testing.T) {
		_, err := NewClient(Config{Addresses: []string{"http://localhost:9200"}})
		assert.Error(t, err)
	})
}

func TestIndexExists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			assert.Equal(t, "/sentences", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})

		exists, err := newTestClient(t, srv).IndexExists(context.Background(), "sentences")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("absent", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		exists, err := newTestClient(t, srv).IndexExists(context.Background(), "sentences")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCreateSentenceIndex(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/sentences", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"acknowledged":true}`))
	})

	err := newTestClient(t, srv).CreateSentenceIndex(context.Background(), "sentences", "LaBSE", 768)
	require.NoError(t, err)

	props := body["mappings"].(map[string]any)["properties"].(map[string]any)
	for _, field := range []string{"sentence", "document", "document_id", "title", "slug", "number", "n_chunk"} {
		assert.Contains(t, props, field)
	}
	features := props["LaBSE_features"].(map[string]any)
	assert.Equal(t, "dense_vector", features["type"])
	assert.Equal(t, float64(768), features["dims"])
}

func TestDocumentExists(t *testing.T) {
	t.Run("records present", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/sentences/_count", r.URL.Path)
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"query":{"term":{"document_id":42}}}`, string(raw))
			w.Write([]byte(`{"count":2}`))
		})

		exists, err := newTestClient(t, srv).DocumentExists(context.Background(), "sentences", 42)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("no records", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"count":0}`))
		})

		exists, err := newTestClient(t, srv).DocumentExists(context.Background(), "sentences", 42)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestDeleteDocument(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sentences/_delete_by_query", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("refresh"))
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"query":{"term":{"document_id":42}}}`, string(raw))
		w.Write([]byte(`{"deleted":5}`))
	})

	deleted, err := newTestClient(t, srv).DeleteDocument(context.Background(), "sentences", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)
}

func TestBulkInsert(t *testing.T) {
	records := []core.SentenceRecord{
		{DocumentID: 42, Title: "Commentarii", Slug: "commentarii", Position: 0, Chunk: 0, Sentence: "Gallia est omnis divisa.", Vector: []float32{0.1, 0.2}},
		{DocumentID: 42, Title: "Commentarii", Slug: "commentarii", Position: 1, Chunk: 0, Sentence: "Incolunt eam Belgae.", Vector: []float32{0.3, 0.4}},
	}

	t.Run("writes ndjson with deterministic ids", func(t *testing.T) {
		var lines []string
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/sentences/_bulk", r.URL.Path)
			raw, _ := io.ReadAll(r.Body)
			lines = strings.Split(strings.TrimSpace(string(raw)), "\n")
			w.Write([]byte(`{"errors":false,"items":[]}`))
		})

		err := newTestClient(t, srv).BulkInsert(context.Background(), "sentences", records)
		require.NoError(t, err)
		require.Len(t, lines, 4)

		var action struct {
			Index struct {
				ID string `json:"_id"`
			} `json:"index"`
		}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
		assert.Equal(t, core.SentenceRecordID(42, 0), action.Index.ID)

		var source map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &source))
		assert.Equal(t, "Gallia est omnis divisa.", source["sentence"])
		assert.Equal(t, float64(42), source["document_id"])
		assert.Equal(t, float64(0), source["number"])
		assert.Contains(t, source, "LaBSE_features")
	})

	t.Run("empty batch skips network call", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		})

		err := newTestClient(t, srv).BulkInsert(context.Background(), "sentences", nil)
		require.NoError(t, err)
	})

	t.Run("item errors surfaced", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":true,"items":[{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse"}}}]}`))
		})

		err := newTestClient(t, srv).BulkInsert(context.Background(), "sentences", records)
		require.Error(t, err)
		assert.ErrorIs(t, err, index.ErrBulkFailed)
		assert.Contains(t, err.Error(), "mapper_parsing_exception")
	})
}

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


package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sericalabs/serica/ai"
	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/index"
	"github.com/sericalabs/serica/ingestion"
	"github.com/sericalabs/serica/storage"
)

// Server handles the HTTP surface of the ingestion service.
type Server struct {
	pipeline  *ingestion.Pipeline
	index     index.Client
	embedder  ai.Embedder
	indexName string
	logger    *slog.Logger
}

// NewServer creates a Server around an ingestion pipeline. The index client
// serves deletions; the embedder serves on-demand vectorization.
func NewServer(pipeline *ingestion.Pipeline, indexClient index.Client, embedder ai.Embedder, indexName string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		pipeline:  pipeline,
		index:     indexClient,
		embedder:  embedder,
		indexName: indexName,
		logger:    logger,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("PUT /insertion", s.handleInsertion)
	mux.HandleFunc("DELETE /deletion/{document_id}", s.handleDeletion)
	mux.HandleFunc("POST /vectorize", s.handleVectorize)
	mux.HandleFunc("GET /jobs/{document_id}", s.handleJob)
	return mux
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type documentRequest struct {
	DocumentID int64            `json:"document_id"`
	Title      string           `json:"title"`
	Slug       string           `json:"slug"`
	Text       string           `json:"text"`
	Sections   []sectionRequest `json:"sections,omitempty"`
}

type sectionRequest struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

func (dr *documentRequest) document() *core.Document {
	doc := &core.Document{
		DocumentID: dr.DocumentID,
		Title:      dr.Title,
		Slug:       dr.Slug,
		Text:       dr.Text,
	}
	for _, s := range dr.Sections {
		doc.Sections = append(doc.Sections, core.Section{Path: s.Path, Text: s.Text})
	}
	return doc
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "serica ingestion service"})
}

func (s *Server) handleInsertion(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid request body"})
		return
	}

	outcome, err := s.pipeline.Ingest(r.Context(), req.document())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: outcome.Message()})
}

func (s *Server) handleDeletion(w http.ResponseWriter, r *http.Request) {
	documentID, err := strconv.ParseInt(r.PathValue("document_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid document id"})
		return
	}

	exists, err := s.index.DocumentExists(r.Context(), s.indexName, documentID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "document not found"})
		return
	}

	deleted, err := s.index.DeleteDocument(r.Context(), s.indexName, documentID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("document deleted", "document_id", documentID, "deleted", deleted)
	writeJSON(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}{Status: "ok", Message: "document deleted", Deleted: deleted})
}

func (s *Server) handleVectorize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid request body"})
		return
	}

	vector, err := s.embedder.EmbedText(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Vector []float32 `json:"vector"`
	}{Vector: vector})
}

type jobResponse struct {
	DocumentID int64     `json:"document_id"`
	Status     string    `json:"status"`
	Outcome    string    `json:"outcome,omitempty"`
	Sentences  int       `json:"sentences"`
	Batches    int       `json:"batches"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	documentID, err := strconv.ParseInt(r.PathValue("document_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid document id"})
		return
	}

	job, err := s.pipeline.Job(r.Context(), documentID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := jobResponse{
		DocumentID: job.DocumentID,
		Status:     job.Status.String(),
		Sentences:  job.Sentences,
		Batches:    job.Batches,
		Error:      job.Error,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
	}
	if job.Outcome != 0 {
		resp.Outcome = job.Outcome.Message()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, index.ErrIndexNotFound):
		writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "index not found"})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "no job recorded for document"})
	case errors.Is(err, core.ErrInvalidDocument),
		errors.Is(err, core.ErrInvalidDocumentID),
		errors.Is(err, core.ErrEmptySectionPath):
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
	default:
		s.logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("error encoding response", "err", err)
	}
}

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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/sericalabs/serica/ai"
	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/index"
	"github.com/sericalabs/serica/nlp"
	"github.com/sericalabs/serica/storage"
)

const (
	defaultBatchSize   = 500
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
	defaultRunTimeout  = 10 * time.Minute
)

// Pipeline orchestrates document ingestion: segmentation, batched embedding,
// and idempotent replacement of the document's records in the search index.
// The segment/embed/write phase runs on a bounded worker pool; a full pool
// queues further runs rather than spawning unbounded goroutines.
type Pipeline struct {
	index     index.Client
	embedder  ai.Embedder
	segmenter nlp.Segmenter
	jobs      storage.JobRepository
	replacer  *replaceCoordinator
	pool      *ants.Pool
	locks     *documentLocks

	indexName   string
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	retry       retryPolicy
	runTimeout  time.Duration
	logger      *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent ingestion runs.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the maximum number of sentences per embedding call and
// per bulk write. Default is 500.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithRetryPolicy sets the attempt count and base backoff delay used for
// delete and bulk-write calls against the index. Defaults are 3 attempts
// with a 1s base delay.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithRunTimeout bounds the background segment/embed/write phase of a single
// document. Zero disables the bound. Default is 10 minutes.
func WithRunTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		p.runTimeout = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline writing to the named index.
func NewPipeline(
	indexClient index.Client,
	embedder ai.Embedder,
	segmenter nlp.Segmenter,
	jobs storage.JobRepository,
	indexName string,
	opts ...Option,
) (*Pipeline, error) {
	if indexClient == nil {
		return nil, ErrIndexClientRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if segmenter == nil {
		return nil, ErrSegmenterRequired
	}
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if indexName == "" {
		return nil, ErrIndexNameRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	baseCtx, cancel := context.WithCancel(context.Background())

	// Create pipeline with defaults
	p := &Pipeline{
		index:       indexClient,
		embedder:    embedder,
		segmenter:   segmenter,
		jobs:        jobs,
		pool:        pool,
		locks:       newDocumentLocks(),
		indexName:   indexName,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		runTimeout:  defaultRunTimeout,
		logger:      slog.Default(),
		baseCtx:     baseCtx,
		cancel:      cancel,
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.retry, err = newRetryPolicy(p.maxAttempts, p.baseDelay, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.replacer = newReplaceCoordinator(indexClient, indexName, p.retry, p.logger)

	return p, nil
}

// Ingest accepts a document for (re)indexing. It validates the document,
// verifies the target index exists, clears prior records, and schedules the
// segment/embed/write phase on the worker pool. It returns once prior
// records are cleared, so the outcome already tells the caller whether the
// document was new or replaced; the heavy phase completes in the background
// and its result is recorded in the job repository.
//
// Concurrent calls for the same DocumentID are serialized; calls for
// distinct documents proceed in parallel.
func (p *Pipeline) Ingest(ctx context.Context, doc *core.Document) (core.IngestOutcome, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return 0, err
	}

	// Fail fast before touching the segmenter or embedder.
	exists, err := p.index.IndexExists(ctx, p.indexName)
	if err != nil {
		return 0, fmt.Errorf("checking index %q: %w", p.indexName, err)
	}
	if !exists {
		return 0, index.ErrIndexNotFound
	}

	if err := p.locks.Lock(ctx, doc.DocumentID); err != nil {
		return 0, err
	}

	job := &core.IngestionJob{
		DocumentID: doc.DocumentID,
		Status:     core.JobStatusPending,
		StartedAt:  time.Now().UTC(),
	}
	if err := p.jobs.PutJob(ctx, job); err != nil {
		p.locks.Unlock(doc.DocumentID)
		return 0, fmt.Errorf("recording pending job: %w", err)
	}

	replaced, err := p.replacer.replace(ctx, doc.DocumentID)
	if err != nil {
		p.failJob(job, err)
		p.locks.Unlock(doc.DocumentID)
		return 0, err
	}
	job.Outcome = core.OutcomeCreated
	if replaced {
		job.Outcome = core.OutcomeReplaced
	}

	if err := p.pool.Submit(func() { p.run(doc, job) }); err != nil {
		p.failJob(job, err)
		p.locks.Unlock(doc.DocumentID)
		return 0, fmt.Errorf("scheduling ingestion run: %w", err)
	}

	return job.Outcome, nil
}

// Job returns the recorded status of the most recent ingestion run for a
// document. Returns storage.ErrNotFound when no run was recorded.
func (p *Pipeline) Job(ctx context.Context, documentID int64) (*core.IngestionJob, error) {
	return p.jobs.GetJob(ctx, documentID)
}

// run is the background segment/embed/write phase. It owns the document
// lock taken by Ingest and releases it when done.
func (p *Pipeline) run(doc *core.Document, job *core.IngestionJob) {
	defer p.locks.Unlock(doc.DocumentID)

	// Detached from the request context; bounded by the run timeout and by
	// pipeline shutdown.
	ctx := p.baseCtx
	if p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}

	job.Status = core.JobStatusRunning
	p.putJob(ctx, job)

	batcher, err := NewBatcher(p.embedder, p.batchSize, p.flushRecords)
	if err != nil {
		p.failJob(job, err)
		return
	}

	for _, section := range doc.EffectiveSections() {
		sentences, err := p.segmenter.SegmentText(ctx, section.Text)
		if err != nil {
			p.failJob(job, fmt.Errorf("segmenting section %q: %w", section.Path, err))
			return
		}
		if err := batcher.Add(ctx, doc, section.Path, sentences); err != nil {
			p.failJob(job, err)
			return
		}
	}

	if err := batcher.Finish(ctx); err != nil {
		p.failJob(job, err)
		return
	}

	job.Status = core.JobStatusSucceeded
	job.Sentences = batcher.Sentences()
	job.Batches = batcher.Flushes()
	job.FinishedAt = time.Now().UTC()
	p.putJob(ctx, job)

	p.logger.Info("document indexed",
		"document_id", doc.DocumentID,
		"sentences", job.Sentences,
		"bulk_writes", job.Batches)
}

// flushRecords is the Batcher's flush function: a retried bulk write.
func (p *Pipeline) flushRecords(ctx context.Context, records []core.SentenceRecord) error {
	p.logger.Debug("writing batch", "index", p.indexName, "records", len(records))
	return p.retry.do(ctx, "bulk insert", func() error {
		return p.index.BulkInsert(ctx, p.indexName, records)
	})
}

func (p *Pipeline) failJob(job *core.IngestionJob, err error) {
	p.logger.Error("ingestion failed", "document_id", job.DocumentID, "err", err)
	job.Status = core.JobStatusFailed
	job.Error = err.Error()
	job.FinishedAt = time.Now().UTC()
	// Record with a fresh context: the run context may already be cancelled.
	p.putJob(context.Background(), job)
}

func (p *Pipeline) putJob(ctx context.Context, job *core.IngestionJob) {
	if err := p.jobs.PutJob(ctx, job); err != nil {
		p.logger.Error("error recording job status", "document_id", job.DocumentID, "err", err)
	}
}

// Release cancels in-flight background runs and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.cancel()
	if p.pool != nil {
		p.pool.Release()
	}
}

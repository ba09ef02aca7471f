// Package memory provides an in-process JobRepository for tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/storage"
)

// JobRepository implements storage.JobRepository backed by a map.
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[int64]core.IngestionJob
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates an empty in-memory repository.
func NewJobRepository() *JobRepository {
	return &JobRepository{
		jobs: make(map[int64]core.IngestionJob),
	}
}

// Close is a no-op.
func (r *JobRepository) Close() error {
	return nil
}

// PutJob stores a copy of the job record.
func (r *JobRepository) PutJob(ctx context.Context, job *core.IngestionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.DocumentID] = *job
	return nil
}

// GetJob retrieves the job record for a document.
func (r *JobRepository) GetJob(ctx context.Context, documentID int64) (*core.IngestionJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[documentID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &job, nil
}

// ListJobs retrieves up to limit job records ordered by document identifier.
func (r *JobRepository) ListJobs(ctx context.Context, limit int) ([]*core.IngestionJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	results := make([]*core.IngestionJob, 0, len(ids))
	for _, id := range ids {
		job := r.jobs[id]
		results = append(results, &job)
	}
	return results, nil
}

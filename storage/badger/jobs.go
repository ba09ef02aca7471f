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


package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) (*JobRepository, error) {
	return &JobRepository{
		backend: backend,
	}, nil
}

// Close releases resources. JobRepository has no resources of its own;
// the backend is closed by its owner.
func (r *JobRepository) Close() error {
	return nil
}

// PutJob stores the job record, replacing any existing record for the
// same document.
func (r *JobRepository) PutJob(ctx context.Context, job *core.IngestionJob) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.DocumentID)
		if err := tx.Set(key, storage.MarshalIngestionJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetJob retrieves the job record for a document.
func (r *JobRepository) GetJob(ctx context.Context, documentID int64) (*core.IngestionJob, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var result *core.IngestionJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeJobKey(documentID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalIngestionJob(val)
			return err
		})
	}, false)
	return result, err
}

// ListJobs retrieves up to limit job records ordered by document identifier.
func (r *JobRepository) ListJobs(ctx context.Context, limit int) ([]*core.IngestionJob, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var results []*core.IngestionJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			var job *core.IngestionJob
			err := iter.Item().Value(func(val []byte) error {
				var err error
				job, err = storage.UnmarshalIngestionJob(val)
				return err
			})
			if err != nil {
				return err
			}
			if job != nil {
				results = append(results, job)
			}
		}
		return nil
	}, false)
	return results, err
}

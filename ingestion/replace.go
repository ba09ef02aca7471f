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

	"github.com/sericalabs/serica/index"
)

// replaceCoordinator guarantees delete-before-write: before any new record
// for a document is flushed, all records from its prior ingestions are gone.
type replaceCoordinator struct {
	index     index.Client
	indexName string
	retry     retryPolicy
	logger    *slog.Logger
}

func newReplaceCoordinator(client index.Client, indexName string, retry retryPolicy, logger *slog.Logger) *replaceCoordinator {
	return &replaceCoordinator{
		index:     client,
		indexName: indexName,
		retry:     retry,
		logger:    logger,
	}
}

// replace deletes any prior records for the document and reports whether
// there were any. The delete is retried with bounded exponential backoff;
// if it ultimately fails, no new records may be written.
func (rc *replaceCoordinator) replace(ctx context.Context, documentID int64) (replaced bool, err error) {
	exists, err := rc.index.DocumentExists(ctx, rc.indexName, documentID)
	if err != nil {
		return false, fmt.Errorf("checking for prior records of document %d: %w", documentID, err)
	}
	if !exists {
		return false, nil
	}

	var deleted int64
	err = rc.retry.do(ctx, "delete document", func() error {
		var delErr error
		deleted, delErr = rc.index.DeleteDocument(ctx, rc.indexName, documentID)
		return delErr
	})
	if err != nil {
		return false, fmt.Errorf("deleting prior records of document %d: %w", documentID, err)
	}

	rc.logger.Info("deleted prior records", "document_id", documentID, "deleted", deleted)
	return true, nil
}

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
	"sync"
)

// documentLocks serializes ingestion runs per document identifier. Runs for
// distinct documents proceed in parallel; a second request for a document
// whose run is still in flight waits for it to finish.
type documentLocks struct {
	mu   sync.Mutex
	held map[int64]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func newDocumentLocks() *documentLocks {
	return &documentLocks{held: make(map[int64]*lockEntry)}
}

// Lock acquires the lock for documentID, blocking until it is free or the
// context is done.
func (l *documentLocks) Lock(ctx context.Context, documentID int64) error {
	l.mu.Lock()
	entry, ok := l.held[documentID]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		l.held[documentID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(documentID, entry)
		return ctx.Err()
	}
}

// Unlock releases the lock for documentID. Must only be called after a
// successful Lock.
func (l *documentLocks) Unlock(documentID int64) {
	l.mu.Lock()
	entry := l.held[documentID]
	l.mu.Unlock()

	<-entry.sem
	l.release(documentID, entry)
}

func (l *documentLocks) release(documentID int64, entry *lockEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.held, documentID)
	}
	l.mu.Unlock()
}

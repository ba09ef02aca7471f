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


// Package index defines the search index client abstraction used by the
// ingestion pipeline.
//
// The pipeline needs exactly five operations from the index: existence check,
// per-document term lookup, delete-by-query on a document id, bounded bulk
// insert, and index creation with the sentence mapping. Everything else the
// search engine can do (queries, aggregations) is out of scope here.
//
// Implementations:
//
//   - index/elastic: Elasticsearch client, the production store
//   - index/memory: in-memory client for tests and local runs
package index

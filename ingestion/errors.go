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

import "errors"

var (
	// ErrIndexClientRequired indicates a nil index client was provided.
	ErrIndexClientRequired = errors.New("index client is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrSegmenterRequired indicates a nil segmenter was provided.
	ErrSegmenterRequired = errors.New("segmenter is required")

	// ErrJobRepositoryRequired indicates a nil job repository was provided.
	ErrJobRepositoryRequired = errors.New("job repository is required")

	// ErrIndexNameRequired indicates an empty index name was provided.
	ErrIndexNameRequired = errors.New("index name is required")

	// ErrInvalidBatchSize indicates a batch size less than 1.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidMaxAttempts indicates an invalid retry attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)

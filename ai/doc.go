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


// Package ai provides the embedding abstraction used by the ingestion
// pipeline.
//
// The package defines the Embedder interface together with its configuration,
// keeping the pipeline decoupled from any particular model server. Two
// implementation sub-packages exist:
//
//   - ai/openai: production implementation for OpenAI-compatible embedding
//     APIs (the reference LaBSE model is served behind one)
//   - ai/mock: deterministic test double, no external dependencies
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder interface
// to enforce abstraction; mock.NewMockEmbedder returns the concrete type so
// tests can inject behavior and assert call counts.
package ai

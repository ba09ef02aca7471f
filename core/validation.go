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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - DocumentID must be positive
//   - every explicit Section must carry a non-empty Path
//
// NOT validated:
//   - Text (an empty document indexes zero sentences and is not an error)
//   - Title and Slug (optional display metadata)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.DocumentID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidDocumentID)
	}

	for i, section := range doc.Sections {
		if section.Path == "" {
			return fmt.Errorf("%w: section %d: %w", ErrInvalidDocument, i, ErrEmptySectionPath)
		}
	}

	return nil
}

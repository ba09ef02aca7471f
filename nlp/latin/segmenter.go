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


// Package latin implements rule-based sentence segmentation for Latin prose.
//
// Transcription sections arrive as lightly marked-up text; the segmenter
// strips tags, splits on sentence-final punctuation, and normalizes
// whitespace. It is a dependency-free alternative to the Stanza service for
// deployments that cannot run one.
package latin

import (
	"context"
	"regexp"
	"strings"

	"github.com/sericalabs/serica/nlp"
)

// Segmenter splits text into sentences using punctuation rules.
type Segmenter struct {
	tags       *regexp.Regexp
	sentences  *regexp.Regexp
	whitespace *regexp.Regexp
}

var _ nlp.Segmenter = (*Segmenter)(nil)

// NewSegmenter creates a rule-based Latin segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		tags:       regexp.MustCompile(`<[^>]*>`),
		sentences:  regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`),
		whitespace: regexp.MustCompile(`\s+`),
	}
}

// SegmentText splits text into ordered, non-empty sentences.
// Markup tags are stripped before splitting. Text without sentence-final
// punctuation is returned as a single sentence. Empty input yields nil.
func (s *Segmenter) SegmentText(ctx context.Context, text string) ([]string, error) {
	plain := s.tags.ReplaceAllString(text, " ")
	plain = s.whitespace.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return nil, nil
	}

	spans := s.sentences.FindAllStringIndex(plain, -1)
	if len(spans) == 0 {
		return []string{plain}, nil
	}

	sentences := make([]string, 0, len(spans))
	end := 0
	for _, span := range spans {
		if trimmed := strings.TrimSpace(plain[span[0]:span[1]]); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
		end = span[1]
	}

	// Trailing fragment without final punctuation is still a sentence.
	if rest := strings.TrimSpace(plain[end:]); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences, nil
}

// Package nlp provides the sentence segmentation abstraction used by the
// ingestion pipeline.
//
// Segmentation is an external concern: the pipeline only relies on the
// Segmenter contract (ordered, non-empty sentences; empty input yields an
// empty result). Two implementations exist:
//
//   - nlp/latin: rule-based splitter suitable for cleaned Latin prose,
//     no external dependencies
//   - nlp/stanza: HTTP client for a Stanza-style segmentation service
package nlp

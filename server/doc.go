// Package server exposes the ingestion pipeline over HTTP.
//
// The surface mirrors the pipeline's operations: document insertion and
// deletion, on-demand vectorization, and job status lookup. Insertion
// acknowledges once prior records are cleared; the segment/embed/write phase
// finishes in the background and is observable through the jobs endpoint.
package server

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation-engine
// pipeline: citations, retrieved documents, and stage configuration.
package types

// Citation represents one bibliographic reference attached to a response.
// A Citation is created unassigned (ID zero) by the extraction stage and
// receives its ID from a Tracker; callers never set IDs themselves.
type Citation struct {
	// ID is the sequential citation number within a tracking scope.
	// Zero means the citation has not been registered yet.
	ID int `json:"id" yaml:"id"`

	// StandardID is the standard designation (e.g. "IEC 61215-1").
	StandardID string `json:"standard_id,omitempty" yaml:"standard_id,omitempty"`

	// Title is the document title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Year is the 4-digit publication year.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// ClauseRef is the clause or section reference (e.g. "Clause 5.2").
	ClauseRef string `json:"clause_ref,omitempty" yaml:"clause_ref,omitempty"`

	// Page is the page reference within the source document.
	Page string `json:"page,omitempty" yaml:"page,omitempty"`

	// URL is a link to the source document.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// SourceDocID links back to the retrieved document that produced
	// this citation.
	SourceDocID string `json:"source_doc_id,omitempty" yaml:"source_doc_id,omitempty"`
}

// DedupKey returns the identity key used to detect duplicate citations:
// the exact (StandardID, ClauseRef) pair. Citations without a StandardID
// have no usable key and are always treated as distinct.
func (c Citation) DedupKey() (string, bool) {
	if c.StandardID == "" {
		return "", false
	}
	return c.StandardID + "\x00" + c.ClauseRef, true
}

// DocumentMeta holds the recognized metadata fields supplied by the
// retrieval collaborator. Unrecognized keys are preserved in Extra.
type DocumentMeta struct {
	StandardID string `json:"standard_id,omitempty" yaml:"standard_id,omitempty"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Year       string `json:"year,omitempty" yaml:"year,omitempty"`
	Clause     string `json:"clause,omitempty" yaml:"clause,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`

	// Extra carries metadata keys the pipeline does not interpret.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// RetrievedDocument is one source document surfaced by retrieval, treated
// as read-only input by the pipeline. Ranking and filtering happen
// upstream; the pipeline only consumes the result.
type RetrievedDocument struct {
	// DocID is the stable document identifier assigned by retrieval.
	DocID string `json:"doc_id" yaml:"doc_id"`

	// Content is the full document text, used both for metadata
	// extraction and for similarity matching.
	Content string `json:"content" yaml:"content"`

	// Meta holds the structured metadata supplied with the document.
	Meta DocumentMeta `json:"meta" yaml:"meta"`

	// Score is the retrieval relevance score.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

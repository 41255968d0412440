// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package track assigns sequential citation numbers within one
// response-processing scope and deduplicates equivalent citations.
package track

import (
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Tracker registers citations and assigns strictly sequential IDs
// starting at a configurable index. A Tracker belongs to exactly one
// in-flight response scope; it is not safe for concurrent use.
type Tracker struct {
	start     int
	next      int
	citations []types.Citation
	byKey     map[string]int // dedup key → index into citations
}

// NewTracker returns a Tracker whose first assigned ID is
// cfg.StartIndex, defaulting to 1 when unset.
func NewTracker(cfg types.TrackerConfig) *Tracker {
	start := cfg.StartIndex
	if start <= 0 {
		start = types.DefaultStartIndex
	}
	return &Tracker{
		start: start,
		next:  start,
		byKey: make(map[string]int),
	}
}

// Add registers a citation and returns its assigned ID. A citation whose
// (StandardID, ClauseRef) key matches an already-registered one is merged
// into the existing entry: the existing ID is returned unchanged and only
// fields the existing citation left empty are backfilled from the
// incoming one. Citations without a StandardID are always new.
func (t *Tracker) Add(c types.Citation) int {
	if key, ok := c.DedupKey(); ok {
		if idx, dup := t.byKey[key]; dup {
			merge(&t.citations[idx], c)
			return t.citations[idx].ID
		}
	}

	c.ID = t.next
	t.next++
	t.citations = append(t.citations, c)
	if key, ok := c.DedupKey(); ok {
		t.byKey[key] = len(t.citations) - 1
	}
	return c.ID
}

// merge backfills empty fields of dst from src. First-registered
// non-empty values are authoritative and never overwritten.
func merge(dst *types.Citation, src types.Citation) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Year == "" {
		dst.Year = src.Year
	}
	if dst.Page == "" {
		dst.Page = src.Page
	}
	if dst.URL == "" {
		dst.URL = src.URL
	}
	if dst.SourceDocID == "" {
		dst.SourceDocID = src.SourceDocID
	}
}

// Citations returns all registered citations in registration order.
// The returned slice is a copy; mutating it does not affect the Tracker.
func (t *Tracker) Citations() []types.Citation {
	out := make([]types.Citation, len(t.citations))
	copy(out, t.citations)
	return out
}

// Len returns the number of registered citations.
func (t *Tracker) Len() int {
	return len(t.citations)
}

// Reset clears all registered citations and restarts numbering at the
// configured start index.
func (t *Tracker) Reset() {
	t.citations = nil
	t.next = t.start
	t.byKey = make(map[string]int)
}

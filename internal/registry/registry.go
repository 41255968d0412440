// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry maintains a long-lived citation collection,
// independent of any single response scope, and checks consistency
// between annotated text and its reference list. The Registry itself is
// not synchronized; a caller sharing one across requests must serialize
// access.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// markerRe matches inline citation markers of the form [N].
var markerRe = regexp.MustCompile(`\[(\d+)\]`)

// Registry is an ID-keyed citation collection for document assembly and
// auditing. Unlike a Tracker it performs no content deduplication: the
// last citation written for an ID wins.
type Registry struct {
	byID  map[int]types.Citation
	order []int // IDs in first-insertion order
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byID: make(map[int]types.Citation)}
}

// Add inserts a citation under its ID, replacing any citation already
// registered for that ID.
func (r *Registry) Add(c types.Citation) {
	if _, exists := r.byID[c.ID]; !exists {
		r.order = append(r.order, c.ID)
	}
	r.byID[c.ID] = c
}

// AddAll inserts every citation in the slice.
func (r *Registry) AddAll(citations []types.Citation) {
	for _, c := range citations {
		r.Add(c)
	}
}

// ByID returns the citation registered under id.
func (r *Registry) ByID(id int) (types.Citation, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// ByStandard returns all registered citations with the given standard
// designation, in insertion order.
func (r *Registry) ByStandard(standardID string) []types.Citation {
	var out []types.Citation
	for _, id := range r.order {
		if c := r.byID[id]; c.StandardID == standardID {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of registered citations.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.byID = make(map[int]types.Citation)
	r.order = nil
}

// extractMarkers returns the distinct citation IDs referenced by [N]
// markers in the text, in first-appearance order.
func extractMarkers(text string) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Validate checks that annotated text and the registry agree: every
// inline [N] marker has a registered citation and every registered
// citation is referenced at least once. The error strings describe each
// violation; the boolean is true only when both directions hold.
func (r *Registry) Validate(text string) (bool, []string) {
	var errs []string

	referenced := make(map[int]bool)
	for _, id := range extractMarkers(text) {
		referenced[id] = true
		if _, ok := r.byID[id]; !ok {
			errs = append(errs, fmt.Sprintf("citation %d is referenced but not defined", id))
		}
	}

	for _, id := range r.sortedIDs() {
		if !referenced[id] {
			errs = append(errs, fmt.Sprintf("citation %d is defined but never referenced", id))
		}
	}

	return len(errs) == 0, errs
}

// ValidateSequence checks that the registered citation IDs, sorted,
// form a contiguous sequence starting at 1. Insertion order is
// irrelevant.
func (r *Registry) ValidateSequence() (bool, []string) {
	ids := r.sortedIDs()
	if len(ids) == 0 {
		return true, nil
	}

	var errs []string
	if ids[0] != 1 {
		errs = append(errs, fmt.Sprintf("citation numbering must start from 1, found %d", ids[0]))
	}
	for i := 1; i < len(ids); i++ {
		for missing := ids[i-1] + 1; missing < ids[i]; missing++ {
			errs = append(errs, fmt.Sprintf("Gap in citation numbering: %d is missing", missing))
		}
	}

	return len(errs) == 0, errs
}

func (r *Registry) sortedIDs() []int {
	ids := make([]int, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Statistics summarizes the registered citation collection.
type Statistics struct {
	Total             int `json:"total" yaml:"total"`
	WithStandardID    int `json:"with_standard_id" yaml:"with_standard_id"`
	WithClauseRef     int `json:"with_clause_ref" yaml:"with_clause_ref"`
	WithURL           int `json:"with_url" yaml:"with_url"`
	DistinctStandards int `json:"distinct_standards" yaml:"distinct_standards"`
}

// Stats counts registered citations by populated field and distinct
// standard designations.
func (r *Registry) Stats() Statistics {
	stats := Statistics{Total: len(r.byID)}
	standards := make(map[string]bool)
	for _, c := range r.byID {
		if c.StandardID != "" {
			stats.WithStandardID++
			standards[c.StandardID] = true
		}
		if c.ClauseRef != "" {
			stats.WithClauseRef++
		}
		if c.URL != "" {
			stats.WithURL++
		}
	}
	stats.DistinctStandards = len(standards)
	return stats
}

// MergeDuplicates collapses citations sharing a (StandardID, ClauseRef)
// key into one citation per distinct key, preserving first-seen group
// order. The first citation of a group keeps its ID and populated
// fields; later group members only backfill fields the first left
// empty. Citations without a StandardID are never grouped. The input is
// not modified; the registry's own contents are not consulted.
func MergeDuplicates(citations []types.Citation) []types.Citation {
	var merged []types.Citation
	byKey := make(map[string]int)

	for _, c := range citations {
		key, ok := c.DedupKey()
		if !ok {
			merged = append(merged, c)
			continue
		}
		idx, dup := byKey[key]
		if !dup {
			byKey[key] = len(merged)
			merged = append(merged, c)
			continue
		}
		dst := &merged[idx]
		if dst.Title == "" {
			dst.Title = c.Title
		}
		if dst.Year == "" {
			dst.Year = c.Year
		}
		if dst.Page == "" {
			dst.Page = c.Page
		}
		if dst.URL == "" {
			dst.URL = c.URL
		}
		if dst.SourceDocID == "" {
			dst.SourceDocID = c.SourceDocID
		}
	}

	return merged
}

// Renumber returns a copy of the citation list with each citation's ID
// replaced by its 1-based position in the given order.
func Renumber(citations []types.Citation) []types.Citation {
	out := make([]types.Citation, len(citations))
	copy(out, citations)
	for i := range out {
		out[i].ID = i + 1
	}
	return out
}

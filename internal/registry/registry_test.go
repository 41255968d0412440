// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/format"
	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestAddLastWriteWins(t *testing.T) {
	r := New()
	r.Add(types.Citation{ID: 1, StandardID: "IEC 61215-1"})
	r.Add(types.Citation{ID: 1, StandardID: "IEC 61730-1"})

	assert.Equal(t, 1, r.Len())
	c, ok := r.ByID(1)
	require.True(t, ok)
	assert.Equal(t, "IEC 61730-1", c.StandardID)
}

func TestByStandard(t *testing.T) {
	r := New()
	r.AddAll([]types.Citation{
		{ID: 1, StandardID: "IEC 61215-1", ClauseRef: "Clause 5.2"},
		{ID: 2, StandardID: "IEEE 1547"},
		{ID: 3, StandardID: "IEC 61215-1", ClauseRef: "Clause 7.1"},
	})

	got := r.ByStandard("IEC 61215-1")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)

	assert.Empty(t, r.ByStandard("UL 1741"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		citations []types.Citation
		text      string
		wantOK    bool
		wantErrs  []string
	}{
		{
			name: "consistent",
			citations: []types.Citation{
				{ID: 1, StandardID: "IEC 61215-1"},
				{ID: 2, StandardID: "IEEE 1547"},
			},
			text:   "Modules follow IEC 61215-1 [1] and interconnect per IEEE 1547 [2].",
			wantOK: true,
		},
		{
			name:      "undefined marker",
			citations: []types.Citation{{ID: 1, StandardID: "IEC 61215-1"}},
			text:      "See [1] and [3].",
			wantOK:    false,
			wantErrs:  []string{"citation 3 is referenced but not defined"},
		},
		{
			name: "unreferenced citation",
			citations: []types.Citation{
				{ID: 1, StandardID: "IEC 61215-1"},
				{ID: 2, StandardID: "IEEE 1547"},
			},
			text:     "Only [1] appears.",
			wantOK:   false,
			wantErrs: []string{"citation 2 is defined but never referenced"},
		},
		{
			name:      "both error classes",
			citations: []types.Citation{{ID: 2, StandardID: "IEEE 1547"}},
			text:      "Only [1] appears.",
			wantOK:    false,
			wantErrs: []string{
				"citation 1 is referenced but not defined",
				"citation 2 is defined but never referenced",
			},
		},
		{
			name:   "empty registry and no markers",
			text:   "Nothing cited.",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.AddAll(tt.citations)

			ok, errs := r.Validate(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantErrs, errs)
		})
	}
}

func TestValidateSequence(t *testing.T) {
	tests := []struct {
		name   string
		ids    []int
		wantOK bool
		substr string
	}{
		{name: "contiguous from 1", ids: []int{1, 2, 3}, wantOK: true},
		{name: "insertion order irrelevant", ids: []int{3, 1, 2}, wantOK: true},
		{name: "empty", ids: nil, wantOK: true},
		{name: "does not start at 1", ids: []int{2, 3}, wantOK: false, substr: "must start from 1"},
		{name: "gap", ids: []int{1, 2, 4}, wantOK: false, substr: "Gap in citation numbering: 3"},
		{name: "multiple missing", ids: []int{1, 5}, wantOK: false, substr: "4 is missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			for _, id := range tt.ids {
				r.Add(types.Citation{ID: id})
			}

			ok, errs := r.ValidateSequence()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Empty(t, errs)
			} else {
				require.NotEmpty(t, errs)
				assert.Contains(t, strings.Join(errs, "; "), tt.substr)
			}
		})
	}
}

// Formatting a reference list and validating a text carrying exactly
// those markers must round-trip without errors.
func TestValidateFormatterRoundTrip(t *testing.T) {
	citations := []types.Citation{
		{ID: 1, StandardID: "IEC 61215-1", Year: "2021"},
		{ID: 2, StandardID: "IEC 61730-1", Year: "2016"},
		{ID: 3, StandardID: "IEEE 1547"},
	}

	f, err := format.Get("iec")
	require.NoError(t, err)
	refList := f.FormatReferenceList(citations)

	var body strings.Builder
	for _, c := range citations {
		fmt.Fprintf(&body, "A sentence citing [%d]. ", c.ID)
	}

	r := New()
	r.AddAll(citations)

	ok, errs := r.Validate(body.String() + "\n\n" + refList)
	assert.True(t, ok)
	assert.Empty(t, errs)

	seqOK, seqErrs := r.ValidateSequence()
	assert.True(t, seqOK)
	assert.Empty(t, seqErrs)
}

func TestStats(t *testing.T) {
	r := New()
	r.AddAll([]types.Citation{
		{ID: 1, StandardID: "IEC 61215-1", ClauseRef: "Clause 5.2", URL: "https://example.org/1"},
		{ID: 2, StandardID: "IEC 61215-1"},
		{ID: 3, StandardID: "IEEE 1547", ClauseRef: "Section 4.1"},
		{ID: 4, Title: "Untitled white paper"},
	})

	stats := r.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.WithStandardID)
	assert.Equal(t, 2, stats.WithClauseRef)
	assert.Equal(t, 1, stats.WithURL)
	assert.Equal(t, 2, stats.DistinctStandards)
}

func TestClear(t *testing.T) {
	r := New()
	r.Add(types.Citation{ID: 1})
	r.Clear()

	assert.Equal(t, 0, r.Len())
	ok, errs := r.ValidateSequence()
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestMergeDuplicates(t *testing.T) {
	citations := []types.Citation{
		{ID: 1, StandardID: "IEC 61215-1", ClauseRef: "Clause 5.2", Title: "Design qualification"},
		{ID: 2, StandardID: "IEEE 1547"},
		{ID: 3, StandardID: "IEC 61215-1", ClauseRef: "Clause 5.2", Year: "2021", URL: "https://example.org"},
		{ID: 4, Title: "No standard"},
		{ID: 5, Title: "No standard"},
	}

	merged := MergeDuplicates(citations)
	require.Len(t, merged, 4)

	// Group keeps the first citation's identity, backfills missing fields.
	assert.Equal(t, 1, merged[0].ID)
	assert.Equal(t, "Design qualification", merged[0].Title)
	assert.Equal(t, "2021", merged[0].Year)
	assert.Equal(t, "https://example.org", merged[0].URL)

	assert.Equal(t, 2, merged[1].ID)

	// Citations without a StandardID stay separate.
	assert.Equal(t, 4, merged[2].ID)
	assert.Equal(t, 5, merged[3].ID)

	// Input is untouched.
	assert.Equal(t, "", citations[0].Year)
}

func TestRenumber(t *testing.T) {
	citations := []types.Citation{
		{ID: 7, StandardID: "IEC 61215-1"},
		{ID: 3, StandardID: "IEEE 1547"},
		{ID: 12, StandardID: "UL 1741"},
	}

	renumbered := Renumber(citations)
	require.Len(t, renumbered, 3)
	for i, c := range renumbered {
		assert.Equal(t, i+1, c.ID)
	}
	assert.Equal(t, "IEC 61215-1", renumbered[0].StandardID)

	// Original IDs are untouched.
	assert.Equal(t, 7, citations[0].ID)
}

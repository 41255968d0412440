// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"strings"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

func doc(id, standard, content string) types.RetrievedDocument {
	return types.RetrievedDocument{
		DocID:   id,
		Content: content,
		Meta:    types.DocumentMeta{StandardID: standard},
	}
}

func TestProcessResponseNumbersAllDocuments(t *testing.T) {
	m := NewManager(types.PipelineConfig{})

	response := "Module design qualification follows IEC 61215-1 and IEC 61215-2.\n\n" +
		"Safety construction requirements come from IEC 61730-1, which complements the design tests.\n\n" +
		"Grid interconnection of the resulting systems is governed by IEEE 1547."

	docs := []types.RetrievedDocument{
		doc("doc-1", "IEC 61215-1", "IEC 61215-1 covers design qualification test procedures."),
		doc("doc-2", "IEC 61730-1", "IEC 61730-1 covers module safety construction requirements."),
		doc("doc-3", "IEEE 1547", "IEEE 1547 covers interconnection of distributed energy resources."),
		doc("doc-4", "IEC 61215-2", "IEC 61215-2 defines the test procedures for design qualification."),
	}

	annotated, citations := m.ProcessResponse(response, docs, true)

	if len(citations) != 4 {
		t.Fatalf("got %d citations, want 4", len(citations))
	}
	for i, c := range citations {
		if c.ID != i+1 {
			t.Errorf("citation %d has ID %d, want sequential %d", i, c.ID, i+1)
		}
		if c.StandardID == "" {
			t.Errorf("citation %d has empty StandardID", i)
		}
	}
	for _, marker := range []string{"[1]", "[2]", "[3]", "[4]"} {
		if !strings.Contains(annotated, marker) {
			t.Errorf("annotated text missing marker %s:\n%s", marker, annotated)
		}
	}
}

func TestProcessResponseWithoutAnnotation(t *testing.T) {
	m := NewManager(types.PipelineConfig{})
	response := "According to IEC 61215-1, modules are tested under STC."

	got, citations := m.ProcessResponse(response, []types.RetrievedDocument{
		doc("doc-1", "IEC 61215-1", "design qualification"),
	}, false)

	if got != response {
		t.Errorf("text = %q, want raw response unchanged", got)
	}
	if len(citations) != 1 {
		t.Errorf("got %d citations, want 1", len(citations))
	}
}

func TestProcessResponseResetsNumbering(t *testing.T) {
	m := NewManager(types.PipelineConfig{})

	_, first := m.ProcessResponse("IEC 61215 applies.", []types.RetrievedDocument{
		doc("doc-1", "IEC 61215", ""),
	}, false)
	_, second := m.ProcessResponse("IEC 61730 applies.", []types.RetrievedDocument{
		doc("doc-2", "IEC 61730", ""),
	}, false)

	if len(first) != 1 || first[0].ID != 1 {
		t.Errorf("first call citations = %+v, want single ID 1", first)
	}
	if len(second) != 1 || second[0].ID != 1 {
		t.Errorf("second call citations = %+v, want numbering reset to 1", second)
	}
}

func TestProcessResponseAccumulates(t *testing.T) {
	m := NewManager(types.PipelineConfig{Accumulate: true})

	_, first := m.ProcessResponse("IEC 61215 applies.", []types.RetrievedDocument{
		doc("doc-1", "IEC 61215", ""),
	}, false)
	if len(first) != 1 || first[0].ID != 1 {
		t.Fatalf("first call citations = %+v, want single ID 1", first)
	}

	_, second := m.ProcessResponse("IEC 61730 applies.", []types.RetrievedDocument{
		doc("doc-2", "IEC 61730", ""),
	}, false)
	if len(second) != 2 {
		t.Fatalf("second call returned %d citations, want accumulated 2", len(second))
	}
	if second[0].StandardID != "IEC 61215" || second[0].ID != 1 {
		t.Errorf("second[0] = %+v, want first scope citation retained", second[0])
	}
	if second[1].StandardID != "IEC 61730" || second[1].ID != 2 {
		t.Errorf("second[1] = %+v, want new citation with ID 2", second[1])
	}
}

func TestProcessResponseDeduplicatesDocuments(t *testing.T) {
	m := NewManager(types.PipelineConfig{})

	_, citations := m.ProcessResponse("IEC 61215-1 is cited once.", []types.RetrievedDocument{
		doc("doc-1", "IEC 61215-1", "first chunk of the standard"),
		doc("doc-2", "IEC 61215-1", "second chunk of the same standard"),
	}, false)

	if len(citations) != 1 {
		t.Errorf("got %d citations for duplicate standard, want 1", len(citations))
	}
}

func TestProcessResponseExtractsFromContent(t *testing.T) {
	m := NewManager(types.PipelineConfig{})

	_, citations := m.ProcessResponse("Safety tests are described elsewhere.", []types.RetrievedDocument{
		{
			DocID:   "doc-1",
			Content: "IEC 61730-1:2016 specifies requirements for construction, see Clause 5.2.",
		},
	}, false)

	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	c := citations[0]
	if c.StandardID != "IEC 61730-1" || c.Year != "2016" || c.ClauseRef != "Clause 5.2" {
		t.Errorf("citation = %+v, want fields extracted from content", c)
	}
	if c.SourceDocID != "doc-1" {
		t.Errorf("SourceDocID = %q, want doc-1", c.SourceDocID)
	}
}

func TestFormatReferences(t *testing.T) {
	m := NewManager(types.PipelineConfig{})
	m.ProcessResponse("IEC 61215-1 applies.", []types.RetrievedDocument{
		doc("doc-1", "IEC 61215-1", ""),
	}, false)

	refs, err := m.FormatReferences(nil, "")
	if err != nil {
		t.Fatalf("FormatReferences: %v", err)
	}
	if !strings.HasPrefix(refs, "References") || !strings.Contains(refs, "[1] IEC 61215-1") {
		t.Errorf("FormatReferences() = %q", refs)
	}

	if _, err := m.FormatReferences(nil, "chicago"); err == nil {
		t.Error("FormatReferences with unknown style must fail")
	}
}

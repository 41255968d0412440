// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls structured citation fields out of unstructured
// text: standard designations, clause references, years, and page numbers.
// All functions are pure; no match is reported as an empty value, never
// as an error.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// standardRule matches one standards-body prefix followed by a
// numeric/alphanumeric designator (e.g. "IEC 61215-1", "ASTM E1036").
type standardRule struct {
	prefix string
	re     *regexp.Regexp
}

// standardRules is evaluated in priority order. Adding a new standards
// body means appending one rule here; nothing else changes.
var standardRules = []standardRule{
	{"IEC", regexp.MustCompile(`\bIEC\s+\d{3,5}(?:-\d+)*\b`)},
	{"ISO", regexp.MustCompile(`\bISO\s+\d{3,5}(?:-\d+)*\b`)},
	{"IEEE", regexp.MustCompile(`\bIEEE\s+\d{2,5}(?:\.\d+)?\b`)},
	{"ASTM", regexp.MustCompile(`\bASTM\s+[A-Z]?\d{2,5}(?:-\d+)*\b`)},
	{"UL", regexp.MustCompile(`\bUL\s+\d{2,5}(?:-\d+)*\b`)},
	{"NEC", regexp.MustCompile(`\bNEC\s+\d{2,4}(?:\.\d+)*\b`)},
	{"NFPA", regexp.MustCompile(`\bNFPA\s+\d{2,4}[A-Z]?\b`)},
}

// Clause reference patterns: "Clause 5.2", "Section 10.11", "Annex A".
var (
	clauseRe = regexp.MustCompile(`(?i)\b(?:clause|section)\s+\d+(?:\.\d+)*\b`)
	annexRe  = regexp.MustCompile(`(?i)\bannex\s+[A-Z]\b`)
)

// yearRe matches a standalone 4-digit year in the range [1900, 2099].
var yearRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// editionYearRe matches the ":YYYY" edition suffix of a standard
// designation, anchored at the character following the designation.
var editionYearRe = regexp.MustCompile(`^:((?:19|20)\d{2})\b`)

// pageRe matches "page N" references.
var pageRe = regexp.MustCompile(`(?i)\bpage\s+(\d+)\b`)

// span is a located match within a scanned text.
type span struct {
	start int
	end   int
	text  string
}

// findStandardSpans returns every standard-ID match from every rule,
// ordered by position. When two rules match at the same offset the
// earlier rule wins; overlapping later matches are dropped.
func findStandardSpans(text string) []span {
	var spans []span
	for _, rule := range standardRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{loc[0], loc[1], text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var result []span
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		result = append(result, s)
		lastEnd = s.end
	}
	return result
}

// ExtractStandardID returns the first standard designation found in the
// text in reading order, or "" if none matches.
func ExtractStandardID(text string) string {
	spans := findStandardSpans(text)
	if len(spans) == 0 {
		return ""
	}
	return normalizeDesignation(spans[0].text)
}

// ExtractAllStandardIDs returns every non-overlapping standard designation
// in order of appearance. Repeated designations are each reported.
func ExtractAllStandardIDs(text string) []string {
	spans := findStandardSpans(text)
	var ids []string
	for _, s := range spans {
		ids = append(ids, normalizeDesignation(s.text))
	}
	return ids
}

// normalizeDesignation collapses the whitespace between prefix and
// designator to a single space.
func normalizeDesignation(match string) string {
	return strings.Join(strings.Fields(match), " ")
}

// findClauseSpans returns clause/section/annex matches ordered by position.
func findClauseSpans(text string) []span {
	var spans []span
	for _, re := range []*regexp.Regexp{clauseRe, annexRe} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{loc[0], loc[1], text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// ExtractClauseRef returns the first clause, section, or annex reference
// in the text, including its label word, or "" if none matches.
func ExtractClauseRef(text string) string {
	spans := findClauseSpans(text)
	if len(spans) == 0 {
		return ""
	}
	return spans[0].text
}

// ExtractAllClauseRefs returns every clause, section, and annex reference
// in order of appearance.
func ExtractAllClauseRefs(text string) []string {
	spans := findClauseSpans(text)
	var refs []string
	for _, s := range spans {
		refs = append(refs, s.text)
	}
	return refs
}

// ExtractYear returns the publication year found in the text, or "".
// A year attached to a standard designation ("IEC 61215:2021") takes
// precedence over a standalone 4-digit year.
func ExtractYear(text string) string {
	for _, s := range findStandardSpans(text) {
		if m := editionYearRe.FindStringSubmatch(text[s.end:]); m != nil {
			return m[1]
		}
	}
	return yearRe.FindString(text)
}

// ExtractPage returns the page number from the first "page N" reference
// in the text, or "".
func ExtractPage(text string) string {
	m := pageRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Context returns the substring of text spanning window bytes before and
// after the first occurrence of anchor, for human-readable excerpt
// display. Returns "" when the anchor is absent.
func Context(text, anchor string, window int) string {
	idx := strings.Index(text, anchor)
	if idx < 0 || anchor == "" {
		return ""
	}
	start := idx - window
	if start < 0 {
		start = 0
	}
	end := idx + len(anchor) + window
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}

// Metadata holds the citation fields extracted for one retrieved document.
type Metadata struct {
	StandardID string
	Title      string
	Year       string
	ClauseRef  string
}

// ExtractMetadata resolves citation metadata for a document. Fields
// supplied by the retrieval metadata are used verbatim; any field left
// empty falls back to pattern extraction against the document content.
// Title has no text-level extractor and only comes from metadata.
func ExtractMetadata(meta types.DocumentMeta, content string) Metadata {
	out := Metadata{
		StandardID: meta.StandardID,
		Title:      meta.Title,
		Year:       meta.Year,
		ClauseRef:  meta.Clause,
	}
	if out.StandardID == "" {
		out.StandardID = ExtractStandardID(content)
	}
	if out.Year == "" {
		out.Year = ExtractYear(content)
	}
	if out.ClauseRef == "" {
		out.ClauseRef = ExtractClauseRef(content)
	}
	return out
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inject decides where inline citation markers belong within
// response text. Two strategies combine: explicit standard-ID mentions
// receive their marker directly, and remaining sentences are matched
// against retrieved document content by token-overlap similarity.
package inject

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Injector places inline citation markers. It never mutates its inputs;
// every operation returns new text.
type Injector struct {
	markerFormat string
	threshold    float64
	minMatch     int
}

// NewInjector returns an Injector with defaults applied for any unset
// configuration field.
func NewInjector(cfg types.InjectionConfig) *Injector {
	in := &Injector{
		markerFormat: cfg.MarkerFormat,
		threshold:    cfg.SimilarityThreshold,
		minMatch:     cfg.MinMatchLength,
	}
	if in.markerFormat == "" {
		in.markerFormat = types.DefaultMarkerFormat
	}
	if in.threshold <= 0 {
		in.threshold = types.DefaultSimilarityThreshold
	}
	if in.minMatch <= 0 {
		in.minMatch = types.DefaultMinMatchLength
	}
	return in
}

// Marker renders the inline marker for a citation ID.
func (in *Injector) Marker(id int) string {
	return fmt.Sprintf(in.markerFormat, id)
}

// Inject returns the response text annotated with citation markers.
// Citations whose StandardID literally appears in the text are marked at
// that mention; sentences without an explicit mention are compared
// against document content and marked when the best match clears the
// similarity threshold.
func (in *Injector) Inject(response string, docs []types.RetrievedDocument, citations []types.Citation) string {
	if response == "" || len(citations) == 0 {
		return response
	}

	out := in.injectReferenceMarkers(response, citations)

	// Citation lookup by source document, first registration wins.
	byDoc := make(map[string]types.Citation, len(citations))
	for _, c := range citations {
		if c.SourceDocID == "" {
			continue
		}
		if _, ok := byDoc[c.SourceDocID]; !ok {
			byDoc[c.SourceDocID] = c
		}
	}

	// Normalize document content once per document.
	docTokens := make([]map[string]bool, len(docs))
	for i, d := range docs {
		docTokens[i] = tokenSet(normalizeText(d.Content))
	}

	// Sentence segmentation is per line so the original line structure
	// of the response survives re-assembly byte for byte.
	lines := strings.Split(out, "\n")
	for li, line := range lines {
		sentences := splitSentences(line)
		if len(sentences) == 0 {
			continue
		}

		changed := false
		for si, sentence := range sentences {
			if mentionsStandard(sentence, citations) {
				continue
			}
			norm := normalizeText(sentence)
			if len(norm) < in.minMatch {
				continue
			}

			bestScore := 0.0
			bestDoc := -1
			sentTokens := tokenSet(norm)
			for di := range docs {
				score := overlapSimilarity(sentTokens, docTokens[di])
				if score > bestScore {
					bestScore = score
					bestDoc = di
				}
			}
			if bestDoc < 0 || bestScore <= in.threshold {
				continue
			}

			c, ok := byDoc[docs[bestDoc].DocID]
			if !ok {
				continue
			}
			marker := in.Marker(c.ID)
			if strings.Contains(sentence, marker) {
				continue
			}
			sentences[si] = insertMarker(sentence, marker)
			changed = true
		}

		if changed {
			lines[li] = strings.Join(sentences, " ")
		}
	}

	return strings.Join(lines, "\n")
}

// injectReferenceMarkers inserts each citation's marker immediately after
// the first literal occurrence of its StandardID in the text. Re-running
// over already-annotated text is a no-op.
func (in *Injector) injectReferenceMarkers(text string, citations []types.Citation) string {
	for _, c := range citations {
		if c.StandardID == "" {
			continue
		}
		idx := strings.Index(text, c.StandardID)
		if idx < 0 {
			continue
		}
		pos := idx + len(c.StandardID)
		marker := " " + in.Marker(c.ID)
		if strings.HasPrefix(text[pos:], marker) {
			continue
		}
		text = text[:pos] + marker + text[pos:]
	}
	return text
}

// mentionsStandard reports whether the sentence literally contains any
// citation's standard designation. Such sentences are handled by the
// explicit-reference pass.
func mentionsStandard(sentence string, citations []types.Citation) bool {
	for _, c := range citations {
		if c.StandardID != "" && strings.Contains(sentence, c.StandardID) {
			return true
		}
	}
	return false
}

// terminators are the sentence-ending punctuation characters.
const terminators = ".!?"

// abbreviations are protected from sentence splitting by placeholder
// substitution, the same trick used for bibliography entry parsing.
var abbreviations = [][2]string{
	{"e.g.", "e\x00g\x00"},
	{"i.e.", "i\x00e\x00"},
	{"et al.", "et al\x00"},
}

// splitSentences splits text into sentences. A sentence ends at a run of
// '.', '!', or '?' followed by whitespace or end of text; a period
// between digits (decimals, "Section 10.11", "NEC 690.12") never ends a
// sentence because no whitespace follows it. Each sentence keeps its
// terminal punctuation and loses surrounding whitespace.
func splitSentences(text string) []string {
	protected := text
	for _, ab := range abbreviations {
		protected = strings.ReplaceAll(protected, ab[0], ab[1])
	}

	var sentences []string
	emit := func(s string) {
		for _, ab := range abbreviations {
			s = strings.ReplaceAll(s, ab[1], ab[0])
		}
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	start := 0
	for i := 0; i < len(protected); i++ {
		if !strings.ContainsRune(terminators, rune(protected[i])) {
			continue
		}
		// Extend over a full terminator run ("...", "?!").
		end := i
		for end+1 < len(protected) && strings.ContainsRune(terminators, rune(protected[end+1])) {
			end++
		}
		if end+1 == len(protected) || isSpace(protected[end+1]) {
			emit(protected[start : end+1])
			start = end + 1
		}
		i = end
	}
	if start < len(protected) {
		emit(protected[start:])
	}
	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// normalizeText lowercases, keeps only letters, digits, and spaces, and
// collapses whitespace runs. Used only for similarity comparison; the
// text returned to callers is never normalized.
func normalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenSet returns the set of word tokens in normalized text.
func tokenSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		set[tok] = true
	}
	return set
}

// overlapSimilarity scores two token sets as the shared-token count over
// the smaller set's size. Identical sets score 1.0, disjoint sets 0.0.
// Scoring against the smaller set lets a short sentence match a long
// document it was drawn from.
func overlapSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for tok := range small {
		if large[tok] {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}

// insertMarker appends a marker to a sentence, placing it before any
// trailing terminal punctuation so "tested." becomes "tested [1]." and a
// fragment without punctuation gets the marker appended.
func insertMarker(sentence, marker string) string {
	cut := len(sentence)
	for cut > 0 && strings.ContainsRune(terminators, rune(sentence[cut-1])) {
		cut--
	}
	return sentence[:cut] + " " + marker + sentence[cut:]
}

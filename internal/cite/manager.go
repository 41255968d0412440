// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite orchestrates the citation pipeline: it extracts citation
// metadata from retrieved documents, numbers citations through a
// tracker, and annotates the response text with inline markers.
package cite

import (
	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/internal/format"
	"github.com/pdiddy/citation-engine/internal/inject"
	"github.com/pdiddy/citation-engine/internal/track"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Manager turns one LLM response plus its retrieved documents into an
// annotated response and a citation list. Each Manager owns its tracker
// and must serve exactly one response scope at a time; share nothing
// across concurrent requests.
type Manager struct {
	tracker          *track.Tracker
	injector         *inject.Injector
	style            string
	resetPerResponse bool
}

// NewManager builds a Manager from pipeline configuration, applying
// defaults for unset fields.
func NewManager(cfg types.PipelineConfig) *Manager {
	style := cfg.Style
	if style == "" {
		style = types.DefaultStyle
	}
	return &Manager{
		tracker:          track.NewTracker(cfg.Tracker),
		injector:         inject.NewInjector(cfg.Injection),
		style:            style,
		resetPerResponse: !cfg.Accumulate,
	}
}

// ProcessResponse extracts a citation candidate from every retrieved
// document, registers them with deduplication, and returns the response
// text together with the scope's full citation list. When annotate is
// true the returned text carries inline markers; otherwise it is the
// raw response unchanged.
//
// Unless the Manager was configured to accumulate, numbering restarts
// at the configured start index for every call. An accumulating scope
// returns every citation registered so far in each call's list, not
// just the ones added by that call.
func (m *Manager) ProcessResponse(response string, docs []types.RetrievedDocument, annotate bool) (string, []types.Citation) {
	if m.resetPerResponse {
		m.tracker.Reset()
	}

	for _, doc := range docs {
		meta := extract.ExtractMetadata(doc.Meta, doc.Content)
		m.tracker.Add(types.Citation{
			StandardID:  meta.StandardID,
			Title:       meta.Title,
			Year:        meta.Year,
			ClauseRef:   meta.ClauseRef,
			URL:         doc.Meta.URL,
			SourceDocID: doc.DocID,
		})
	}

	citations := m.tracker.Citations()
	if !annotate {
		return response, citations
	}
	return m.injector.Inject(response, docs, citations), citations
}

// FormatReferences renders a reference list in the named style, or the
// Manager's configured style when style is "". A nil citation list uses
// the tracker's current citations.
func (m *Manager) FormatReferences(citations []types.Citation, style string) (string, error) {
	if style == "" {
		style = m.style
	}
	f, err := format.Get(style)
	if err != nil {
		return "", err
	}
	if citations == nil {
		citations = m.tracker.Citations()
	}
	return f.FormatReferenceList(citations), nil
}

// Citations returns the tracker's current citation list in registration
// order.
func (m *Manager) Citations() []types.Citation {
	return m.tracker.Citations()
}

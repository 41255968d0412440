// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders citations into bibliographic display strings.
// Three styles are supported: IEC, IEEE, and APA. All styles share the
// Formatter contract; Get performs the case-insensitive style lookup.
package format

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Formatter renders a single citation or a full reference list in one
// bibliographic style.
type Formatter interface {
	// FormatCitation renders one citation as "[id] <body>." with the
	// style's field order and separators.
	FormatCitation(c types.Citation) string

	// FormatReferenceList renders a heading plus one line per citation,
	// in the order given. An empty list renders as "".
	FormatReferenceList(citations []types.Citation) string
}

// Get returns the formatter for a style name, matched case-insensitively
// among "iec", "ieee", and "apa". Unknown names are a caller error.
func Get(style string) (Formatter, error) {
	switch strings.ToLower(style) {
	case "iec":
		return IECFormatter{}, nil
	case "ieee":
		return IEEEFormatter{}, nil
	case "apa":
		return APAFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported citation style %q (supported: iec, ieee, apa)", style)
	}
}

// renderList is the shared reference-list shape: heading, then one
// formatted line per citation.
func renderList(heading string, citations []types.Citation, f Formatter) string {
	if len(citations) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	for i, c := range citations {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.FormatCitation(c))
	}
	return b.String()
}

// joinBody assembles the present citation fields with ", " and closes
// with a period.
func joinBody(id int, fields []string) string {
	var present []string
	for _, f := range fields {
		if f != "" {
			present = append(present, f)
		}
	}
	return fmt.Sprintf("[%d] %s.", id, strings.Join(present, ", "))
}

// IECFormatter renders citations in the IEC house style:
// [1] IEC 61215-1, "Title", 2021, Clause 5.2, https://example.
type IECFormatter struct{}

func (IECFormatter) FormatCitation(c types.Citation) string {
	return joinBody(c.ID, []string{
		c.StandardID,
		quote(c.Title),
		c.Year,
		c.ClauseRef,
		c.URL,
	})
}

func (f IECFormatter) FormatReferenceList(citations []types.Citation) string {
	return renderList("References", citations, f)
}

// IEEEFormatter renders citations in IEEE style, title first:
// [1] "Title," IEC 61215-1, 2021.
type IEEEFormatter struct{}

func (IEEEFormatter) FormatCitation(c types.Citation) string {
	return joinBody(c.ID, []string{
		quote(c.Title),
		c.StandardID,
		c.Year,
		c.ClauseRef,
		c.URL,
	})
}

func (f IEEEFormatter) FormatReferenceList(citations []types.Citation) string {
	return renderList("REFERENCES", citations, f)
}

// APAFormatter renders citations in APA style with the issuing
// organization's full name:
// [1] International Electrotechnical Commission (2021), "Title", IEC 61215-1, Clause 5.2.
type APAFormatter struct{}

func (f APAFormatter) FormatCitation(c types.Citation) string {
	var lead string
	if org := f.organizationName(c.StandardID); org != "" {
		lead = org
		if c.Year != "" {
			lead += " (" + c.Year + ")"
		}
	} else {
		lead = c.Year
	}
	return joinBody(c.ID, []string{
		lead,
		quote(c.Title),
		c.StandardID,
		c.ClauseRef,
		c.URL,
	})
}

func (f APAFormatter) FormatReferenceList(citations []types.Citation) string {
	return renderList("References", citations, f)
}

// organizations maps a standards-body prefix to its full name.
var organizations = map[string]string{
	"IEC":  "International Electrotechnical Commission",
	"ISO":  "International Organization for Standardization",
	"IEEE": "Institute of Electrical and Electronics Engineers",
	"ASTM": "ASTM International",
	"UL":   "Underwriters Laboratories",
	"NEC":  "National Fire Protection Association",
	"NFPA": "National Fire Protection Association",
}

// organizationName resolves the issuing organization from a standard
// designation's prefix. Unrecognized or empty designations return "".
func (APAFormatter) organizationName(standardID string) string {
	prefix, _, _ := strings.Cut(standardID, " ")
	return organizations[prefix]
}

// quote wraps a non-empty title in double quotes.
func quote(title string) string {
	if title == "" {
		return ""
	}
	return `"` + title + `"`
}

package types

// Default configuration values applied by stage constructors when the
// corresponding field is zero.
const (
	// DefaultStartIndex is the first citation number a fresh Tracker assigns.
	DefaultStartIndex = 1

	// DefaultMarkerFormat renders inline markers as bracketed numbers.
	DefaultMarkerFormat = "[%d]"

	// DefaultSimilarityThreshold is the minimum sentence-to-document
	// similarity required for marker injection.
	DefaultSimilarityThreshold = 0.3

	// DefaultMinMatchLength is the minimum normalized sentence length
	// eligible for similarity comparison. Shorter sentences produce
	// spurious matches.
	DefaultMinMatchLength = 20

	// DefaultStyle is the bibliography style used when none is selected.
	DefaultStyle = "iec"
)

// TrackerConfig holds settings for citation numbering.
type TrackerConfig struct {
	// StartIndex is the first citation number assigned (default 1).
	StartIndex int `json:"start_index" yaml:"start_index"`
}

// InjectionConfig holds settings for inline marker placement.
type InjectionConfig struct {
	// MarkerFormat is the fmt template for inline markers, applied to
	// the citation ID (default "[%d]").
	MarkerFormat string `json:"marker_format" yaml:"marker_format"`

	// SimilarityThreshold is the minimum similarity score for a sentence
	// to receive a citation marker (default 0.3).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// MinMatchLength is the minimum normalized sentence length considered
	// for similarity matching (default 20).
	MinMatchLength int `json:"min_match_length" yaml:"min_match_length"`
}

// PipelineConfig groups the configuration for one response-processing scope.
type PipelineConfig struct {
	Tracker   TrackerConfig   `json:"tracker" yaml:"tracker"`
	Injection InjectionConfig `json:"injection" yaml:"injection"`

	// Style selects the bibliography style: iec, ieee, or apa.
	Style string `json:"style" yaml:"style"`

	// Accumulate keeps the tracker alive across responses: numbering
	// continues monotonically and every call returns the full
	// accumulated citation list. When false (the default) numbering
	// restarts at StartIndex for each processed response.
	Accumulate bool `json:"accumulate" yaml:"accumulate"`
}

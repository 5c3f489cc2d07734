package optimize

import (
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/signature"
)

// DefaultFootnotePattern matches the anchor markers the inlining pass
// resolves: runs of Unicode superscript digits, bracketed numbers, and
// asterisk runs.
const DefaultFootnotePattern = `[¹²³⁴⁵⁶⁷⁸⁹⁰]+|\[\d+\]|\*+`

// Config holds the optimizer's feature flags and thresholds.
type Config struct {
	// Language selects synthesized sentence templates: "de" or "en".
	Language string

	// Feature flags, all enabled by default.
	RemoveDecorative       bool
	InlineFootnotes        bool
	RemoveRedundant        bool
	NaturalizeTables       bool
	DescribeCharts         bool
	UseSpeakerNotes        bool
	SummarizeComplexSlides bool
	ResequenceReadingOrder bool

	// EligibleRoles are the role tags that participate in redundancy
	// removal.
	EligibleRoles map[string]bool

	// FootnotePattern is the regular expression for anchor markers.
	FootnotePattern string

	// MinNoteLength is the minimum speaker-note length (in bytes, after
	// trimming) worth turning into a context block.
	MinNoteLength int

	// ComplexSlideThreshold is the visible-block count at which a slide
	// gets a synthesized orientation summary.
	ComplexSlideThreshold int

	// Concurrency bounds the per-slide worker pool of the parallel
	// passes.
	Concurrency int
}

// DefaultConfig returns the default optimizer configuration.
func DefaultConfig() Config {
	return Config{
		Language:               "de",
		RemoveDecorative:       true,
		InlineFootnotes:        true,
		RemoveRedundant:        true,
		NaturalizeTables:       true,
		DescribeCharts:         true,
		UseSpeakerNotes:        true,
		SummarizeComplexSlides: true,
		ResequenceReadingOrder: true,
		EligibleRoles:          signature.DefaultEligibleRoles(),
		FootnotePattern:        DefaultFootnotePattern,
		MinNoteLength:          20,
		ComplexSlideThreshold:  6,
		Concurrency:            4,
	}
}

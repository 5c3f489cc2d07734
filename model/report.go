package model

import "fmt"

// WarningKind classifies a non-fatal anomaly encountered during
// optimization.
type WarningKind int

const (
	WarnUnknown WarningKind = iota
	WarnBackendUnavailable
	WarnClassificationTimeout
	WarnLowConfidence
	WarnUnresolvedFootnote
	WarnUndescribedChart
	WarnOCRFailed
)

func (k WarningKind) String() string {
	switch k {
	case WarnBackendUnavailable:
		return "BackendUnavailable"
	case WarnClassificationTimeout:
		return "ClassificationTimeout"
	case WarnLowConfidence:
		return "LowConfidence"
	case WarnUnresolvedFootnote:
		return "UnresolvedFootnote"
	case WarnUndescribedChart:
		return "UndescribedChart"
	case WarnOCRFailed:
		return "OCRFailed"
	default:
		return "Unknown"
	}
}

// Warning records one non-fatal anomaly. BlockID is -1 when the warning is
// not tied to a specific block.
type Warning struct {
	Kind    WarningKind
	Slide   int
	BlockID int
	Message string
}

func (w Warning) String() string {
	if w.BlockID < 0 {
		return fmt.Sprintf("%s (slide %d): %s", w.Kind, w.Slide, w.Message)
	}
	return fmt.Sprintf("%s (slide %d, block %d): %s", w.Kind, w.Slide, w.BlockID, w.Message)
}

// Report aggregates all warnings of one optimize run. It is created fresh
// per call and returned regardless of success.
type Report struct {
	Warnings []Warning
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a warning.
func (r *Report) Add(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// Merge appends all warnings from another report.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Count returns the number of warnings of the given kind.
func (r *Report) Count(kind WarningKind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

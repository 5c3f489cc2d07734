// Package classify answers content-classification and description requests
// for the accessibility optimizer.
//
// Every capability exists twice: as a deterministic rule (always available,
// used as ground truth when no AI backend is configured) and optionally as an
// AI backend call. The Layer merges the two: the backend answer wins unless
// it fails, times out, or reports confidence below the configured threshold,
// in which case the rule result is used and the caller is handed a non-fatal
// note for the report. Classification never mutates the document model.
package classify

import (
	"context"
	"errors"
	"time"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

var (
	// ErrNoSeries is returned when a chart carries no structured series
	// data, so the rule-based describer has nothing to work with.
	ErrNoSeries = errors.New("chart has no structured series data")

	// ErrEmptyAnswer is returned when a backend responds successfully but
	// with no usable content.
	ErrEmptyAnswer = errors.New("backend returned an empty answer")
)

// Decorative is the result of a decorative-image classification.
type Decorative struct {
	Decorative bool
	Confidence float64
}

// ImageQuery carries an image plus the geometric facts the rule-based
// classifier needs. AreaFraction is the image area divided by the slide
// area; Recurrence is the number of slides on which an image occupies the
// same position.
type ImageQuery struct {
	Bytes        []byte
	AltText      string
	AreaFraction float64
	Recurrence   int
}

// ChartQuery carries whatever is known about a chart: structured series
// data when the source had it, otherwise at most a rendered image.
type ChartQuery struct {
	Title  string
	Series []model.SeriesPoint
	Image  []byte
}

// Backend is the optional AI capability interface. Implementations must be
// idempotent and side-effect-free on the deck; callers apply results.
type Backend interface {
	ClassifyDecorative(ctx context.Context, q ImageQuery) (Decorative, error)
	SummarizeTable(ctx context.Context, grid [][]string) (string, error)
	DescribeChart(ctx context.Context, q ChartQuery) (string, error)
	ExtractContext(ctx context.Context, note string) (string, error)
	SummarizeSlide(ctx context.Context, title string, items []string) (string, error)
}

// Config holds classification thresholds.
type Config struct {
	// Language selects the sentence templates: "de" or "en".
	Language string

	// MinConfidence is the backend confidence below which an answer is
	// treated as no answer.
	MinConfidence float64

	// Timeout bounds each individual backend call.
	Timeout time.Duration

	// DecorativeMaxAreaFraction: images smaller than this fraction of the
	// slide area are decorative candidates.
	DecorativeMaxAreaFraction float64

	// DecorativeMinRecurrence: the image position must recur on at least
	// this many slides.
	DecorativeMinRecurrence int

	// MaxContextLength caps the speaker-note context sentence, in runes.
	MaxContextLength int
}

// DefaultConfig returns the default classification configuration.
func DefaultConfig() Config {
	return Config{
		Language:                  "de",
		MinConfidence:             0.6,
		Timeout:                   30 * time.Second,
		DecorativeMaxAreaFraction: 0.02,
		DecorativeMinRecurrence:   3,
		MaxContextLength:          200,
	}
}

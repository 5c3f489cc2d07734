package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

var _ Backend = (*Gemini)(nil)

// Note is a non-fatal fallback notice. The optimizer turns notes into report
// warnings, filling in slide and block references the layer does not know.
type Note struct {
	Kind    model.WarningKind
	Message string
}

// Layer merges the optional AI backend with the deterministic rules.
//
// Policy: the backend answer wins. When no backend is configured, the rules
// answer silently. When a configured backend errors, times out, or answers
// below the confidence threshold, the rules answer and the caller receives a
// Note describing the fallback. The layer never errors out of a capability
// that the rules can serve.
type Layer struct {
	cfg     Config
	backend Backend
	rules   *Rules
}

// NewLayer creates a classification layer. backend may be nil.
func NewLayer(cfg Config, backend Backend) *Layer {
	return &Layer{cfg: cfg, backend: backend, rules: NewRules(cfg)}
}

// HasBackend reports whether an AI backend is configured.
func (l *Layer) HasBackend() bool {
	return l.backend != nil
}

// Rules exposes the deterministic classifier, mainly for tests.
func (l *Layer) Rules() *Rules {
	return l.rules
}

// failureNote maps a backend error to the warning kind the report uses.
func failureNote(op string, err error) *Note {
	kind := model.WarnBackendUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		kind = model.WarnClassificationTimeout
	}
	return &Note{Kind: kind, Message: fmt.Sprintf("%s: %v; used rule-based fallback", op, err)}
}

// ClassifyDecorative resolves the decorative flag for an image.
func (l *Layer) ClassifyDecorative(ctx context.Context, q ImageQuery) (Decorative, *Note) {
	if l.backend == nil {
		return l.rules.ClassifyDecorative(q), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	dec, err := l.backend.ClassifyDecorative(callCtx, q)
	if err != nil {
		return l.rules.ClassifyDecorative(q), failureNote("decorative classification", err)
	}
	if dec.Confidence < l.cfg.MinConfidence {
		note := &Note{
			Kind:    model.WarnLowConfidence,
			Message: fmt.Sprintf("decorative classification confidence %.2f below %.2f; used rule-based fallback", dec.Confidence, l.cfg.MinConfidence),
		}
		return l.rules.ClassifyDecorative(q), note
	}
	return dec, nil
}

// SummarizeTable produces spoken text for a table grid.
func (l *Layer) SummarizeTable(ctx context.Context, grid [][]string) (string, *Note) {
	if l.backend == nil {
		return l.rules.SummarizeTable(grid), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	summary, err := l.backend.SummarizeTable(callCtx, grid)
	if err != nil {
		return l.rules.SummarizeTable(grid), failureNote("table summary", err)
	}
	return summary, nil
}

// DescribeChart produces spoken text for a chart. The returned error is
// ErrNoSeries when neither the backend nor the rules could describe the
// chart; the caller records an UndescribedChart warning in that case.
func (l *Layer) DescribeChart(ctx context.Context, q ChartQuery) (string, *Note, error) {
	if l.backend == nil {
		desc, err := l.rules.DescribeChart(q)
		return desc, nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	desc, err := l.backend.DescribeChart(callCtx, q)
	if err == nil {
		return desc, nil, nil
	}
	note := failureNote("chart description", err)

	desc, ruleErr := l.rules.DescribeChart(q)
	if ruleErr != nil {
		return "", note, ruleErr
	}
	return desc, note, nil
}

// ExtractContext produces the context sentence for a speaker note.
func (l *Layer) ExtractContext(ctx context.Context, note string) (string, *Note) {
	if l.backend == nil {
		return l.rules.ExtractContext(note), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	text, err := l.backend.ExtractContext(callCtx, note)
	if err != nil {
		return l.rules.ExtractContext(note), failureNote("note context", err)
	}
	return text, nil
}

// SummarizeSlide produces a one-sentence slide orientation. There is no
// rule-based equivalent: without a backend the result is empty and no note
// is raised, matching the original behavior of skipping summaries offline.
func (l *Layer) SummarizeSlide(ctx context.Context, title string, items []string) (string, *Note) {
	if l.backend == nil {
		return "", nil
	}

	callCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	summary, err := l.backend.SummarizeSlide(callCtx, title, items)
	if err != nil {
		return "", failureNote("slide summary", err)
	}
	return summary, nil
}

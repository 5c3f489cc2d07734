package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// fakeBackend scripts backend behavior for layer tests.
type fakeBackend struct {
	decorative Decorative
	text       string
	err        error
}

func (f *fakeBackend) ClassifyDecorative(ctx context.Context, q ImageQuery) (Decorative, error) {
	return f.decorative, f.err
}

func (f *fakeBackend) SummarizeTable(ctx context.Context, grid [][]string) (string, error) {
	return f.text, f.err
}

func (f *fakeBackend) DescribeChart(ctx context.Context, q ChartQuery) (string, error) {
	return f.text, f.err
}

func (f *fakeBackend) ExtractContext(ctx context.Context, note string) (string, error) {
	return f.text, f.err
}

func (f *fakeBackend) SummarizeSlide(ctx context.Context, title string, items []string) (string, error) {
	return f.text, f.err
}

var _ Backend = (*fakeBackend)(nil)

// ============================================================================
// Merge Policy Tests
// ============================================================================

func TestLayerNoBackendIsSilent(t *testing.T) {
	l := NewLayer(DefaultConfig(), nil)

	dec, note := l.ClassifyDecorative(context.Background(), ImageQuery{AreaFraction: 0.01, Recurrence: 5})
	if note != nil {
		t.Errorf("no-backend fallback should not raise a note, got %+v", note)
	}
	if !dec.Decorative {
		t.Error("rule should classify a tiny recurring image as decorative")
	}
}

func TestLayerBackendWins(t *testing.T) {
	backend := &fakeBackend{decorative: Decorative{Decorative: false, Confidence: 0.95}}
	l := NewLayer(DefaultConfig(), backend)

	// The rule would say decorative; the confident backend overrides it.
	dec, note := l.ClassifyDecorative(context.Background(), ImageQuery{AreaFraction: 0.01, Recurrence: 5})
	if note != nil {
		t.Errorf("confident backend answer should not raise a note, got %+v", note)
	}
	if dec.Decorative {
		t.Error("backend verdict should win over the rule")
	}
}

func TestLayerBackendErrorFallsBack(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	l := NewLayer(DefaultConfig(), backend)

	dec, note := l.ClassifyDecorative(context.Background(), ImageQuery{AreaFraction: 0.01, Recurrence: 5})
	if note == nil {
		t.Fatal("backend failure should raise a note")
	}
	if note.Kind != model.WarnBackendUnavailable {
		t.Errorf("note kind = %v, want BackendUnavailable", note.Kind)
	}
	if !dec.Decorative {
		t.Error("fallback should use the rule verdict")
	}
}

func TestLayerTimeoutNoteKind(t *testing.T) {
	backend := &fakeBackend{err: context.DeadlineExceeded}
	l := NewLayer(DefaultConfig(), backend)

	_, note := l.SummarizeTable(context.Background(), [][]string{{"A", "B"}, {"x", "1"}})
	if note == nil {
		t.Fatal("timeout should raise a note")
	}
	if note.Kind != model.WarnClassificationTimeout {
		t.Errorf("note kind = %v, want ClassificationTimeout", note.Kind)
	}
}

func TestLayerLowConfidenceFallsBack(t *testing.T) {
	backend := &fakeBackend{decorative: Decorative{Decorative: false, Confidence: 0.2}}
	l := NewLayer(DefaultConfig(), backend)

	dec, note := l.ClassifyDecorative(context.Background(), ImageQuery{AreaFraction: 0.01, Recurrence: 5})
	if note == nil {
		t.Fatal("low-confidence answer should raise a note")
	}
	if note.Kind != model.WarnLowConfidence {
		t.Errorf("note kind = %v, want LowConfidence", note.Kind)
	}
	if !dec.Decorative {
		t.Error("low-confidence backend answer should yield to the rule")
	}
}

func TestLayerTableFallbackUsesRuleSentence(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	l := NewLayer(DefaultConfig(), backend)

	summary, note := l.SummarizeTable(context.Background(), [][]string{
		{"Quartal", "Umsatz"},
		{"Q1", "5"},
		{"Q4", "8"},
	})
	if note == nil {
		t.Fatal("backend failure should raise a note")
	}
	if !strings.Contains(summary, "60%") {
		t.Errorf("fallback summary %q should come from the trend rule", summary)
	}
}

// ============================================================================
// Chart Policy Tests
// ============================================================================

func TestLayerChartBackendFailsRulesServe(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	l := NewLayer(DefaultConfig(), backend)

	desc, note, err := l.DescribeChart(context.Background(), ChartQuery{
		Series: []model.SeriesPoint{{Label: "Q1", Value: 5}, {Label: "Q4", Value: 8}},
	})
	if err != nil {
		t.Fatalf("DescribeChart() error = %v, want nil (rules can serve)", err)
	}
	if note == nil {
		t.Error("backend failure should raise a note")
	}
	if desc == "" {
		t.Error("rule description should not be empty")
	}
}

func TestLayerChartNothingCanServe(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	l := NewLayer(DefaultConfig(), backend)

	_, _, err := l.DescribeChart(context.Background(), ChartQuery{})
	if !errors.Is(err, ErrNoSeries) {
		t.Errorf("DescribeChart() error = %v, want ErrNoSeries", err)
	}
}

// ============================================================================
// Slide Summary Policy Tests
// ============================================================================

func TestLayerSlideSummaryBackendOnly(t *testing.T) {
	l := NewLayer(DefaultConfig(), nil)
	summary, note := l.SummarizeSlide(context.Background(), "Titel", []string{"a", "b"})
	if summary != "" || note != nil {
		t.Errorf("no backend: summary = %q, note = %v; want empty and nil", summary, note)
	}

	l = NewLayer(DefaultConfig(), &fakeBackend{text: "Die Folie vergleicht drei Varianten."})
	summary, note = l.SummarizeSlide(context.Background(), "Titel", []string{"a", "b"})
	if note != nil {
		t.Errorf("unexpected note: %+v", note)
	}
	if summary != "Die Folie vergleicht drei Varianten." {
		t.Errorf("summary = %q", summary)
	}
}

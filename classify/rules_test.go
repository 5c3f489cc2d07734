package classify

import (
	"strings"
	"testing"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

func testRules(lang string) *Rules {
	cfg := DefaultConfig()
	cfg.Language = lang
	return NewRules(cfg)
}

// ============================================================================
// Decorative Rule Tests
// ============================================================================

func TestClassifyDecorative(t *testing.T) {
	tests := []struct {
		name string
		q    ImageQuery
		want bool
	}{
		{"tiny recurring image", ImageQuery{AreaFraction: 0.01, Recurrence: 3}, true},
		{"tiny but unique", ImageQuery{AreaFraction: 0.01, Recurrence: 1}, false},
		{"recurring but large", ImageQuery{AreaFraction: 0.5, Recurrence: 5}, false},
		{"exactly at area threshold", ImageQuery{AreaFraction: 0.02, Recurrence: 3}, false},
		{"below threshold at min recurrence", ImageQuery{AreaFraction: 0.019, Recurrence: 3}, true},
	}

	r := testRules("de")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ClassifyDecorative(tt.q)
			if got.Decorative != tt.want {
				t.Errorf("ClassifyDecorative(%+v) = %v, want %v", tt.q, got.Decorative, tt.want)
			}
			if got.Confidence != 1.0 {
				t.Errorf("rule confidence = %v, want 1.0", got.Confidence)
			}
		})
	}
}

// ============================================================================
// Table Trend Tests
// ============================================================================

func TestSummarizeTableRisingTrend(t *testing.T) {
	grid := [][]string{
		{"Quartal", "Umsatz"},
		{"Q1", "5"},
		{"Q2", "6"},
		{"Q3", "7"},
		{"Q4", "8"},
	}

	got := testRules("de").SummarizeTable(grid)

	// First value, last value, direction, percentage change, axis labels,
	// and the first-occurring max-delta pair (all adjacent deltas are 1).
	for _, want := range []string{"Umsatz", "steigt", "von 5", "auf 8", "Quartal", "60%", "Q1 und Q2"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestSummarizeTableEnglish(t *testing.T) {
	grid := [][]string{
		{"Quarter", "Revenue"},
		{"Q1", "5"},
		{"Q4", "8"},
	}

	got := testRules("en").SummarizeTable(grid)
	for _, want := range []string{"Revenue", "rises", "from 5", "to 8", "60%"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestSummarizeTableFallingTrend(t *testing.T) {
	grid := [][]string{
		{"Jahr", "Kosten"},
		{"2022", "8"},
		{"2023", "6"},
		{"2024", "2"},
	}

	got := testRules("de").SummarizeTable(grid)
	for _, want := range []string{"fällt", "von 8", "auf 2", "-75%", "2023 und 2024"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestSummarizeTableFlat(t *testing.T) {
	grid := [][]string{
		{"Monat", "Anzahl"},
		{"Jan", "4"},
		{"Feb", "4"},
	}

	got := testRules("de").SummarizeTable(grid)
	if !strings.Contains(got, "bleibt konstant") {
		t.Errorf("summary %q should state a flat trend", got)
	}
	if !strings.Contains(got, "0%") {
		t.Errorf("summary %q should state 0%% change", got)
	}
}

func TestSummarizeTableMaxDeltaFirstPairWins(t *testing.T) {
	// Deltas: +3, -3; the tie resolves to the first-occurring pair.
	grid := [][]string{
		{"Phase", "Wert"},
		{"A", "1"},
		{"B", "4"},
		{"C", "1"},
	}

	got := testRules("de").SummarizeTable(grid)
	if !strings.Contains(got, "A und B") {
		t.Errorf("summary %q should pick the first max-delta pair A/B", got)
	}
}

func TestSummarizeTableGermanDecimalComma(t *testing.T) {
	grid := [][]string{
		{"Quartal", "Umsatz"},
		{"Q1", "2,5"},
		{"Q2", "5,0"},
	}

	got := testRules("de").SummarizeTable(grid)
	if !strings.Contains(got, "100%") {
		t.Errorf("summary %q should parse decimal commas (want 100%% change)", got)
	}
}

func TestSummarizeTableNonNumericFallsBackToNarration(t *testing.T) {
	grid := [][]string{
		{"Produkt", "Status"},
		{"Alpha", "fertig"},
		{"Beta", "in Arbeit"},
	}

	got := testRules("de").SummarizeTable(grid)
	for _, want := range []string{"Spalten: Produkt, Status", "Produkt: Alpha", "Status: in Arbeit"} {
		if !strings.Contains(got, want) {
			t.Errorf("narration %q missing %q", got, want)
		}
	}
}

func TestSummarizeTableEmpty(t *testing.T) {
	if got := testRules("de").SummarizeTable(nil); got != "" {
		t.Errorf("SummarizeTable(nil) = %q, want empty", got)
	}
}

// ============================================================================
// Chart Rule Tests
// ============================================================================

func TestDescribeChartFromSeries(t *testing.T) {
	q := ChartQuery{
		Title: "Umsatz",
		Series: []model.SeriesPoint{
			{Label: "Q1", Value: 5},
			{Label: "Q4", Value: 8},
		},
	}

	got, err := testRules("de").DescribeChart(q)
	if err != nil {
		t.Fatalf("DescribeChart() error = %v", err)
	}
	for _, want := range []string{"Umsatz", "steigt", "60%"} {
		if !strings.Contains(got, want) {
			t.Errorf("description %q missing %q", got, want)
		}
	}
}

func TestDescribeChartNoSeries(t *testing.T) {
	_, err := testRules("de").DescribeChart(ChartQuery{Image: []byte{1, 2, 3}})
	if err != ErrNoSeries {
		t.Errorf("DescribeChart() error = %v, want ErrNoSeries", err)
	}
}

// ============================================================================
// Note Context Tests
// ============================================================================

func TestExtractContext(t *testing.T) {
	tests := []struct {
		name string
		note string
		want string
	}{
		{
			"first sentence only",
			"Diese Folie erklärt die Strategie. Danach folgen Details.",
			"Kontext: Diese Folie erklärt die Strategie.",
		},
		{
			"no terminal punctuation",
			"Wichtiger Hinweis zur Planung",
			"Kontext: Wichtiger Hinweis zur Planung",
		},
		{
			"question mark terminates",
			"Warum jetzt? Weil der Markt bereit ist.",
			"Kontext: Warum jetzt?",
		},
	}

	r := testRules("de")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ExtractContext(tt.note); got != tt.want {
				t.Errorf("ExtractContext(%q) = %q, want %q", tt.note, got, tt.want)
			}
		})
	}
}

func TestExtractContextTruncates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxContextLength = 10
	r := NewRules(cfg)

	got := r.ExtractContext("Dies ist eine sehr lange Notiz ohne Satzzeichen am Anfang")
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated context %q should end with ellipsis", got)
	}
	if len([]rune(strings.TrimPrefix(got, "Kontext: "))) != 11 { // 10 runes + ellipsis
		t.Errorf("context %q not truncated to 10 runes", got)
	}
}

func TestExtractContextEmpty(t *testing.T) {
	if got := testRules("de").ExtractContext("   "); got != "" {
		t.Errorf("ExtractContext(blank) = %q, want empty", got)
	}
}

package classify

import (
	"fmt"
	"strconv"
	"strings"
)

// Rules is the deterministic classifier. It implements every capability of
// the Layer without network access and serves as the fallback when no
// backend is configured or a backend call fails.
type Rules struct {
	cfg Config
}

// NewRules creates a rule-based classifier.
func NewRules(cfg Config) *Rules {
	return &Rules{cfg: cfg}
}

// ClassifyDecorative applies the geometric rule: an image is decorative when
// it covers less than the configured fraction of the slide area and sits at
// the deck's most frequent image position, recurring on enough slides.
func (r *Rules) ClassifyDecorative(q ImageQuery) Decorative {
	decorative := q.AreaFraction < r.cfg.DecorativeMaxAreaFraction &&
		q.Recurrence >= r.cfg.DecorativeMinRecurrence
	return Decorative{Decorative: decorative, Confidence: 1.0}
}

// SummarizeTable renders a table as a single natural-language sentence.
//
// When the last column is numeric across all data rows, the sentence states
// the trend: first value, last value, direction, percentage change, and the
// adjacent-row pair with the largest absolute delta, keyed on the two axis
// labels (header of the first column and header of the value column). When
// several adjacent deltas tie, the first-occurring pair wins.
//
// Tables without a numeric value column fall back to a compact row-by-row
// narration.
func (r *Rules) SummarizeTable(grid [][]string) string {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ""
	}
	if len(grid) >= 2 {
		labels, values, ok := numericLastColumn(grid)
		if ok {
			axisLabel := strings.TrimSpace(grid[0][0])
			valueLabel := strings.TrimSpace(grid[0][len(grid[0])-1])
			return r.trendSentence(axisLabel, valueLabel, labels, values)
		}
	}
	return r.narrateRows(grid)
}

// DescribeChart applies the table trend rule to the chart's primary series.
// Charts without structured series data cannot be described by rule.
func (r *Rules) DescribeChart(q ChartQuery) (string, error) {
	if len(q.Series) == 0 {
		return "", ErrNoSeries
	}
	labels := make([]string, len(q.Series))
	values := make([]float64, len(q.Series))
	for i, p := range q.Series {
		labels[i] = p.Label
		values[i] = p.Value
	}
	valueLabel := strings.TrimSpace(q.Title)
	if valueLabel == "" {
		valueLabel = r.tr("Werte", "values")
	}
	return r.trendSentence(r.tr("Kategorie", "category"), valueLabel, labels, values), nil
}

// ExtractContext takes the first sentence of a speaker note, truncated to
// the configured maximum length.
func (r *Rules) ExtractContext(note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return ""
	}
	sentence := firstSentence(note)
	sentence = truncateRunes(sentence, r.cfg.MaxContextLength)
	return r.tr("Kontext: ", "Context: ") + sentence
}

// tr picks the template string for the configured language.
func (r *Rules) tr(de, en string) string {
	if r.cfg.Language == "en" {
		return en
	}
	return de
}

// trendSentence renders the four trend facts plus the two axis labels as one
// sentence.
func (r *Rules) trendSentence(axisLabel, valueLabel string, labels []string, values []float64) string {
	v0 := values[0]
	vn := values[len(values)-1]

	var verb string
	switch {
	case vn > v0:
		verb = r.tr("steigt", "rises")
	case vn < v0:
		verb = r.tr("fällt", "falls")
	default:
		verb = r.tr("bleibt konstant", "stays flat")
	}

	var pct string
	if v0 != 0 {
		pct = formatNumber((vn-v0)/v0*100) + "%"
	} else {
		pct = r.tr("n/a", "n/a")
	}

	head := fmt.Sprintf(r.tr("%s %s von %s auf %s über %s (%s Veränderung)",
		"%s %s from %s to %s across %s (%s change)"),
		valueLabel, verb, formatNumber(v0), formatNumber(vn), axisLabel, pct)

	// First-occurring adjacent pair with maximum absolute delta.
	if len(values) >= 2 {
		maxIdx := 0
		maxDelta := abs(values[1] - values[0])
		for i := 1; i < len(values)-1; i++ {
			if d := abs(values[i+1] - values[i]); d > maxDelta {
				maxDelta = d
				maxIdx = i
			}
		}
		tail := fmt.Sprintf(r.tr("; die größte Veränderung liegt zwischen %s und %s",
			"; the largest change is between %s and %s"),
			labels[maxIdx], labels[maxIdx+1])
		return head + tail + "."
	}
	return head + "."
}

// narrateRows renders header/value pairs row by row, the way the original
// spoke small non-numeric tables.
func (r *Rules) narrateRows(grid [][]string) string {
	headers := grid[0]
	lines := []string{r.tr("Spalten: ", "Columns: ") + strings.Join(trimAll(headers), ", ")}
	for _, row := range grid[1:] {
		var pairs []string
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			header := r.tr("Spalte ", "Column ") + strconv.Itoa(i+1)
			if i < len(headers) && strings.TrimSpace(headers[i]) != "" {
				header = strings.TrimSpace(headers[i])
			}
			pairs = append(pairs, header+": "+cell)
		}
		if len(pairs) > 0 {
			lines = append(lines, strings.Join(pairs, "; "))
		}
	}
	return strings.Join(lines, " | ")
}

// numericLastColumn extracts first-column labels and last-column values from
// the data rows. ok is false unless every data row parses.
func numericLastColumn(grid [][]string) (labels []string, values []float64, ok bool) {
	for _, row := range grid[1:] {
		if len(row) < 2 {
			return nil, nil, false
		}
		v, err := parseNumber(row[len(row)-1])
		if err != nil {
			return nil, nil, false
		}
		labels = append(labels, strings.TrimSpace(row[0]))
		values = append(values, v)
	}
	return labels, values, len(values) > 0
}

// parseNumber accepts both decimal points and German decimal commas.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

// formatNumber trims a float to at most one decimal place, dropping a
// trailing zero.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	if s == "-0" {
		s = "0"
	}
	return s
}

// firstSentence returns the text up to and including the first
// sentence-terminal punctuation mark.
func firstSentence(text string) string {
	for i, r := range text {
		switch r {
		case '.', '!', '?':
			return strings.TrimSpace(text[:i+1])
		}
	}
	return strings.TrimSpace(text)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

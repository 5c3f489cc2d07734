package render

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

func testDeck() *model.Deck {
	deck := model.NewDeck()
	deck.Metadata = model.Metadata{Title: "Quartalsbericht", Language: "de-DE"}

	s := &model.Slide{WidthMM: 254, HeightMM: 190.5}
	s.Blocks = []*model.Block{
		{ID: 1, Slide: 0, Kind: model.KindSyntheticContext, Role: model.RoleContext,
			Text: "Kontext: Diese Folie zeigt die Quartalszahlen."},
		{ID: 2, Slide: 0, Kind: model.KindTitle, Text: "Quartalszahlen"},
		{ID: 3, Slide: 0, Kind: model.KindBody, Text: "Der Umsatz steigt (BMI 2024) weiter."},
		{ID: 4, Slide: 0, Kind: model.KindTable,
			Table: &model.TableData{
				Grid:    [][]string{{"Quartal", "Umsatz"}, {"Q1", "5"}},
				Summary: "Umsatz steigt von 5 auf 8 über Quartal (60% Veränderung).",
			}},
		{ID: 5, Slide: 0, Kind: model.KindChart,
			Chart: &model.ChartData{Description: "Werte steigen von 10 auf 14."}},
		{ID: 6, Slide: 0, Kind: model.KindImage,
			Image: &model.ImageData{AltText: "Organigramm der Abteilung"}},
		{ID: 7, Slide: 0, Kind: model.KindImage, Hidden: true,
			Image: &model.ImageData{AltText: "Logo"}},
		{ID: 8, Slide: 0, Kind: model.KindFootnote, Consumed: true,
			Footnote: &model.FootnoteData{Key: "1", Body: "BMI 2024"}},
	}
	deck.AddSlide(s)
	return deck
}

// ============================================================================
// Output Structure Tests
// ============================================================================

func TestHTMLIsWellFormed(t *testing.T) {
	out, err := HTML(testDeck(), DefaultOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if _, err := html.Parse(bytes.NewReader(out)); err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if !strings.HasPrefix(string(out), "<!DOCTYPE html>") {
		t.Error("output should start with a doctype")
	}
}

func TestHTMLDocumentLanguage(t *testing.T) {
	out, err := HTML(testDeck(), DefaultOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(string(out), `<html lang="de-DE">`) {
		t.Error("metadata language should become the lang attribute")
	}

	deck := testDeck()
	deck.Metadata.Language = ""
	out, err = HTML(deck, Options{Language: "en"})
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(string(out), `<html lang="en">`) {
		t.Error("options language should be the fallback")
	}
}

func TestHTMLVisibleOrder(t *testing.T) {
	out, err := HTML(testDeck(), DefaultOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	s := string(out)

	// The markup order mirrors the block sequence.
	positions := []string{
		"Kontext: Diese Folie zeigt die Quartalszahlen.",
		"<h2",
		"Der Umsatz steigt (BMI 2024) weiter.",
		"60% Veränderung",
		"Werte steigen von 10 auf 14.",
		"Organigramm der Abteilung",
	}
	last := -1
	for _, want := range positions {
		idx := strings.Index(s, want)
		if idx < 0 {
			t.Fatalf("output missing %q", want)
		}
		if idx < last {
			t.Errorf("%q appears out of order", want)
		}
		last = idx
	}
}

func TestHTMLTableKeepsGrid(t *testing.T) {
	out, err := HTML(testDeck(), DefaultOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	s := string(out)

	if !strings.Contains(s, "<details>") {
		t.Error("table grid should sit behind a disclosure element")
	}
	if !strings.Contains(s, "<th>Quartal</th>") {
		t.Error("first grid row should render as header cells")
	}
	if !strings.Contains(s, "<td>Q1</td>") {
		t.Error("data rows should render as td cells")
	}
}

func TestHTMLHiddenBlocksAreAriaHidden(t *testing.T) {
	out, err := HTML(testDeck(), DefaultOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	s := string(out)

	if !strings.Contains(s, `data-suppressed="hidden"`) {
		t.Error("hidden block should be marked suppressed")
	}
	if !strings.Contains(s, `data-suppressed="consumed"`) {
		t.Error("consumed footnote should be marked suppressed")
	}
	if strings.Count(s, `aria-hidden="true"`) != 2 {
		t.Errorf("want exactly 2 aria-hidden elements, got %d", strings.Count(s, `aria-hidden="true"`))
	}
}

func TestHTMLExcludeHidden(t *testing.T) {
	out, err := HTML(testDeck(), Options{Language: "de", IncludeHidden: false})
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	s := string(out)

	if strings.Contains(s, "aria-hidden") {
		t.Error("hidden blocks should be absent when IncludeHidden is off")
	}
	if strings.Contains(s, "BMI 2024</div>") {
		t.Error("consumed footnote body should not appear")
	}
}

func TestHTMLImageWithoutAltIsSilent(t *testing.T) {
	deck := model.NewDeck()
	s := &model.Slide{}
	s.Blocks = []*model.Block{
		{ID: 1, Slide: 0, Kind: model.KindImage, Image: &model.ImageData{}},
	}
	deck.AddSlide(s)

	out, err := HTML(deck, DefaultOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if strings.Contains(string(out), "figure") {
		t.Error("an image without alt text renders nothing")
	}
}

func TestHTMLSlideSections(t *testing.T) {
	deck := testDeck()
	deck.AddSlide(&model.Slide{})

	out, err := HTML(deck, DefaultOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	s := string(out)

	if !strings.Contains(s, `aria-label="Folie 1"`) || !strings.Contains(s, `aria-label="Folie 2"`) {
		t.Error("each slide should render as a labeled section")
	}
}

package optimize

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

var superscriptDigits = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

// markerKey normalizes an anchor marker to the key footnote blocks carry:
// superscript digit runs become plain digits, bracketed numbers lose their
// brackets, asterisk runs stay as-is.
func markerKey(marker string) string {
	if strings.HasPrefix(marker, "[") && strings.HasSuffix(marker, "]") {
		return marker[1 : len(marker)-1]
	}
	var sb strings.Builder
	for _, r := range marker {
		if d, ok := superscriptDigits[r]; ok {
			sb.WriteRune(d)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// inlineFootnotes splices each footnote body into the text of its anchor and
// marks the footnote consumed. Anchors resolve on the own slide first, then
// deck-wide in slide order. A consumed footnote still resolves further
// anchors, so shared citations splice everywhere. Markers without a matching
// footnote stay in place and produce a warning.
//
// The pass mutates text across slide boundaries through the deck-wide lookup
// and therefore runs sequentially.
func (o *Optimizer) inlineFootnotes(ctx context.Context, deck *model.Deck, report *model.Report) error {
	// Key -> footnote block, first occurrence in slide order wins for the
	// deck-wide lookup.
	deckWide := make(map[string]*model.Block)
	perSlide := make(map[int]map[string]*model.Block)
	for _, s := range deck.Slides {
		for _, b := range s.Blocks {
			if b.Kind != model.KindFootnote || b.Footnote == nil {
				continue
			}
			key := b.Footnote.Key
			if key == "" {
				continue
			}
			if perSlide[s.Index] == nil {
				perSlide[s.Index] = make(map[string]*model.Block)
			}
			if _, ok := perSlide[s.Index][key]; !ok {
				perSlide[s.Index][key] = b
			}
			if _, ok := deckWide[key]; !ok {
				deckWide[key] = b
			}
		}
	}

	for _, s := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, b := range s.Blocks {
			if b.Kind == model.KindFootnote || b.Text == "" {
				continue
			}
			if !o.markerRe.MatchString(b.Text) {
				continue
			}

			b.Text = o.markerRe.ReplaceAllStringFunc(b.Text, func(marker string) string {
				key := markerKey(marker)
				fn := perSlide[s.Index][key]
				if fn == nil {
					fn = deckWide[key]
				}
				if fn == nil {
					report.Add(model.Warning{
						Kind:    model.WarnUnresolvedFootnote,
						Slide:   s.Index,
						BlockID: b.ID,
						Message: fmt.Sprintf("no footnote found for marker %q", marker),
					})
					return marker
				}
				fn.Consumed = true
				return " (" + fn.Footnote.Body + ")"
			})
		}
	}
	return nil
}

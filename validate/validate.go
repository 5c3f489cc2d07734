// Package validate checks an optimized deck against the traversal
// guarantees the optimizer promises: structural integrity, no audible
// footnotes, orientation blocks first, and kind priorities that never move
// backwards within a slide.
package validate

import (
	"fmt"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// Issue is one violated guarantee. BlockID is -1 when the issue is not tied
// to a single block.
type Issue struct {
	Rule    string
	Slide   int
	BlockID int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: slide %d, block %d: %s", i.Rule, i.Slide, i.BlockID, i.Message)
}

// kindRank mirrors the optimizer's traversal priorities.
func kindRank(k model.BlockKind) int {
	switch k {
	case model.KindSyntheticContext, model.KindSyntheticSummary:
		return 0
	case model.KindTitle:
		return 1
	case model.KindBody:
		return 2
	case model.KindTable, model.KindChart:
		return 3
	case model.KindImage:
		return 4
	default:
		return 5
	}
}

// Deck runs all checks and returns every violation found. A nil result
// means the deck honors the guarantees.
func Deck(deck *model.Deck) []Issue {
	var issues []Issue

	if err := deck.Validate(); err != nil {
		issues = append(issues, Issue{
			Rule:    "structure",
			Slide:   -1,
			BlockID: -1,
			Message: err.Error(),
		})
	}

	for _, s := range deck.Slides {
		issues = append(issues, checkSlide(s)...)
	}
	return issues
}

func checkSlide(s *model.Slide) []Issue {
	var issues []Issue

	prevRank := -1
	contextAllowed := true
	for i, b := range s.Visible() {
		if b.Kind == model.KindFootnote {
			issues = append(issues, Issue{
				Rule:    "no-audible-footnotes",
				Slide:   s.Index,
				BlockID: b.ID,
				Message: "footnote block is in the reading order",
			})
		}

		isOrientation := b.Kind == model.KindSyntheticContext || b.Kind == model.KindSyntheticSummary
		if isOrientation && !contextAllowed {
			issues = append(issues, Issue{
				Rule:    "orientation-first",
				Slide:   s.Index,
				BlockID: b.ID,
				Message: fmt.Sprintf("synthetic block at visible position %d, after content", i),
			})
		}
		if !isOrientation {
			contextAllowed = false
		}

		rank := kindRank(b.Kind)
		if rank < prevRank {
			issues = append(issues, Issue{
				Rule:    "priority-order",
				Slide:   s.Index,
				BlockID: b.ID,
				Message: fmt.Sprintf("kind %v follows a lower-priority block", b.Kind),
			})
		}
		prevRank = rank
	}

	return issues
}

package optimize

import (
	"context"
	"sort"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// priorityClass ranks block kinds for the linearized traversal. Synthetic
// orientation comes first, then title, body text, data blocks, and images.
// Equal classes fall back to layout position.
func priorityClass(b *model.Block) int {
	switch b.Kind {
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

// resequenceReadingOrder rewrites each slide's block sequence into the
// traversal order: blocks in the reading order first, sorted stably by
// (priority class, Y, X), followed by hidden, consumed, and footnote blocks
// in their original relative order. Sorting an already-sorted slide is a
// no-op, so the pass is idempotent.
func (o *Optimizer) resequenceReadingOrder(ctx context.Context, deck *model.Deck, report *model.Report) error {
	_, err := o.forEachSlide(ctx, deck, func(ctx context.Context, s *model.Slide) []model.Warning {
		var visible, rest []*model.Block
		for _, b := range s.Blocks {
			if b.InReadingOrder() {
				visible = append(visible, b)
			} else {
				rest = append(rest, b)
			}
		}

		sort.SliceStable(visible, func(i, j int) bool {
			ci, cj := priorityClass(visible[i]), priorityClass(visible[j])
			if ci != cj {
				return ci < cj
			}
			if visible[i].Y != visible[j].Y {
				return visible[i].Y < visible[j].Y
			}
			return visible[i].X < visible[j].X
		})

		s.Blocks = append(visible, rest...)
		return nil
	})
	return err
}

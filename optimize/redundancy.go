package optimize

import (
	"context"
	"sort"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/signature"
)

// removeRedundant hides repeated occurrences of role-tagged blocks across the
// deck. The first occurrence in traversal order (slides ascending, blocks by
// position within a slide) stays visible; later blocks with the same content
// signature are hidden. Signatures are deck-scoped, so a logo on every slide
// is announced exactly once.
//
// The pass is deterministic over block positions and roles and therefore
// reaches the same verdict on every run; already-hidden duplicates stay
// hidden.
func (o *Optimizer) removeRedundant(ctx context.Context, deck *model.Deck, report *model.Report) error {
	seen := signature.NewSet()

	for _, s := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}

		ordered := make([]*model.Block, len(s.Blocks))
		copy(ordered, s.Blocks)
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].Y != ordered[j].Y {
				return ordered[i].Y < ordered[j].Y
			}
			return ordered[i].X < ordered[j].X
		})

		for _, b := range ordered {
			if !o.cfg.EligibleRoles[b.Role] {
				continue
			}
			sig, ok := signature.ForBlock(b)
			if !ok {
				continue
			}
			if seen.Seen(sig) {
				b.Hidden = true
				continue
			}
			seen.Record(sig)
		}
	}
	return nil
}

package optimize

import (
	"context"
	"strings"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// Synthetic blocks sort into priority class 0; the Y coordinates place a
// context block ahead of a summary block when a slide carries both.
const (
	syntheticContextY = -2
	syntheticSummaryY = -1
)

func hasSynthetic(s *model.Slide, kind model.BlockKind) bool {
	for _, b := range s.Blocks {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// contextualizeNotes distills each slide's speaker notes into a synthetic
// context block announced before everything else on the slide. Short notes
// and slides that already carry a context block are skipped, so re-running
// the pass adds nothing.
//
// Block IDs are allocated up front in slide order; the fan-out then assigns
// deterministic IDs regardless of scheduling.
func (o *Optimizer) contextualizeNotes(ctx context.Context, deck *model.Deck, report *model.Report) error {
	ids := make(map[int]int)
	for _, s := range deck.Slides {
		if strings.TrimSpace(s.Notes) == "" || len(strings.TrimSpace(s.Notes)) < o.cfg.MinNoteLength {
			continue
		}
		if hasSynthetic(s, model.KindSyntheticContext) {
			continue
		}
		ids[s.Index] = deck.AllocateID()
	}

	warnings, err := o.forEachSlide(ctx, deck, func(ctx context.Context, s *model.Slide) []model.Warning {
		id, ok := ids[s.Index]
		if !ok {
			return nil
		}

		text, note := o.layer.ExtractContext(ctx, strings.TrimSpace(s.Notes))
		var ws []model.Warning
		if note != nil {
			ws = append(ws, model.Warning{
				Kind:    note.Kind,
				Slide:   s.Index,
				BlockID: -1,
				Message: note.Message,
			})
		}
		if text == "" {
			return ws
		}

		block := &model.Block{
			ID:    id,
			Slide: s.Index,
			Kind:  model.KindSyntheticContext,
			Role:  model.RoleContext,
			Y:     syntheticContextY,
			Text:  text,
		}
		s.Blocks = append([]*model.Block{block}, s.Blocks...)
		return ws
	})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		report.Add(w)
	}
	return nil
}

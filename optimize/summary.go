package optimize

import (
	"context"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// summarizeComplexSlides prepends a one-sentence orientation to slides whose
// visible block count reaches the threshold. The summary comes from the AI
// backend only; offline decks stay as they are. Slides that already carry a
// summary block are skipped.
func (o *Optimizer) summarizeComplexSlides(ctx context.Context, deck *model.Deck, report *model.Report) error {
	if !o.layer.HasBackend() {
		return nil
	}

	ids := make(map[int]int)
	for _, s := range deck.Slides {
		if len(s.Visible()) < o.cfg.ComplexSlideThreshold {
			continue
		}
		if hasSynthetic(s, model.KindSyntheticSummary) {
			continue
		}
		ids[s.Index] = deck.AllocateID()
	}

	warnings, err := o.forEachSlide(ctx, deck, func(ctx context.Context, s *model.Slide) []model.Warning {
		id, ok := ids[s.Index]
		if !ok {
			return nil
		}

		var items []string
		for _, b := range s.Visible() {
			if t := b.SpokenText(); t != "" {
				items = append(items, t)
			}
		}

		summary, note := o.layer.SummarizeSlide(ctx, s.Title(), items)
		var ws []model.Warning
		if note != nil {
			ws = append(ws, model.Warning{
				Kind:    note.Kind,
				Slide:   s.Index,
				BlockID: -1,
				Message: note.Message,
			})
		}
		if summary == "" {
			return ws
		}

		block := &model.Block{
			ID:    id,
			Slide: s.Index,
			Kind:  model.KindSyntheticSummary,
			Role:  model.RoleSummary,
			Y:     syntheticSummaryY,
			Text:  summary,
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

package optimize

import (
	"context"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// naturalizeTables fills in the spoken summary of every table block. The grid
// is never discarded; the renderer keeps it available alongside the summary.
// Tables that already carry a summary are left alone.
func (o *Optimizer) naturalizeTables(ctx context.Context, deck *model.Deck, report *model.Report) error {
	warnings, err := o.forEachSlide(ctx, deck, func(ctx context.Context, s *model.Slide) []model.Warning {
		var ws []model.Warning
		for _, b := range s.Blocks {
			if b.Kind != model.KindTable || b.Table == nil {
				continue
			}
			if b.Table.Summary != "" {
				continue
			}

			summary, note := o.layer.SummarizeTable(ctx, b.Table.Grid)
			b.Table.Summary = summary
			if note != nil {
				ws = append(ws, model.Warning{
					Kind:    note.Kind,
					Slide:   s.Index,
					BlockID: b.ID,
					Message: note.Message,
				})
			}
		}
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

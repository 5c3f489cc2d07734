package optimize

import (
	"context"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/classify"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// undescribedChart is the placeholder description of a chart neither the
// backend nor the rules could describe. It keeps the chart audible and makes
// the gap findable in rendered output.
const undescribedChart = "chart: undescribed"

// describeCharts fills in the spoken description of every chart block.
// Charts with series data get a deterministic trend sentence even offline;
// charts without one need the vision backend and fall back to a placeholder
// plus an UndescribedChart warning.
func (o *Optimizer) describeCharts(ctx context.Context, deck *model.Deck, report *model.Report) error {
	warnings, err := o.forEachSlide(ctx, deck, func(ctx context.Context, s *model.Slide) []model.Warning {
		var ws []model.Warning
		for _, b := range s.Blocks {
			if b.Kind != model.KindChart || b.Chart == nil {
				continue
			}
			if b.Chart.Description != "" {
				continue
			}

			desc, note, err := o.layer.DescribeChart(ctx, classify.ChartQuery{
				Title:  s.Title(),
				Series: b.Chart.Series,
				Image:  b.Chart.Image,
			})
			if note != nil {
				ws = append(ws, model.Warning{
					Kind:    note.Kind,
					Slide:   s.Index,
					BlockID: b.ID,
					Message: note.Message,
				})
			}
			if err != nil {
				b.Chart.Description = undescribedChart
				ws = append(ws, model.Warning{
					Kind:    model.WarnUndescribedChart,
					Slide:   s.Index,
					BlockID: b.ID,
					Message: "chart could not be described: " + err.Error(),
				})
				continue
			}
			b.Chart.Description = desc
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

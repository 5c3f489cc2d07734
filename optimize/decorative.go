package optimize

import (
	"context"
	"math"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/classify"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// positionKey buckets a layout position to whole millimeters so that the
// same logo anchored at the same spot matches across slides despite
// sub-millimeter conversion noise.
type positionKey struct {
	x, y int
}

func keyFor(b *model.Block) positionKey {
	return positionKey{x: int(math.Round(b.X)), y: int(math.Round(b.Y))}
}

// imageRecurrence counts, per position, on how many distinct slides an
// image block occupies that position.
func imageRecurrence(deck *model.Deck) map[positionKey]int {
	slidesAt := make(map[positionKey]map[int]struct{})
	for _, s := range deck.Slides {
		for _, b := range s.Blocks {
			if b.Kind != model.KindImage {
				continue
			}
			key := keyFor(b)
			if slidesAt[key] == nil {
				slidesAt[key] = make(map[int]struct{})
			}
			slidesAt[key][s.Index] = struct{}{}
		}
	}
	counts := make(map[positionKey]int, len(slidesAt))
	for key, slides := range slidesAt {
		counts[key] = len(slides)
	}
	return counts
}

// suppressDecorative resolves the decorative flag for every image block and
// hides the decorative ones. Blocks already classified on a previous run
// keep their stored verdict, so re-running the pass changes nothing.
func (o *Optimizer) suppressDecorative(ctx context.Context, deck *model.Deck, report *model.Report) error {
	recurrence := imageRecurrence(deck)

	warnings, err := o.forEachSlide(ctx, deck, func(ctx context.Context, s *model.Slide) []model.Warning {
		var ws []model.Warning
		slideArea := s.WidthMM * s.HeightMM

		for _, b := range s.Blocks {
			if b.Kind != model.KindImage || b.Image == nil {
				continue
			}
			if b.Image.Decorative != nil {
				if *b.Image.Decorative {
					b.Hidden = true
				}
				continue
			}

			areaFraction := 1.0
			if slideArea > 0 {
				areaFraction = (b.W * b.H) / slideArea
			}

			dec, note := o.layer.ClassifyDecorative(ctx, classify.ImageQuery{
				Bytes:        b.Image.Bytes,
				AltText:      b.Image.AltText,
				AreaFraction: areaFraction,
				Recurrence:   recurrence[keyFor(b)],
			})

			verdict := dec.Decorative
			b.Image.Decorative = &verdict
			b.Image.Confidence = dec.Confidence
			if verdict {
				b.Hidden = true
			}
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

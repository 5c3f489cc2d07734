package optimize

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/classify"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// Optimizer sequences the transformation passes over one deck at a time.
// A Deck must not be shared between concurrent Optimize calls.
type Optimizer struct {
	cfg      Config
	layer    *classify.Layer
	log      *zap.Logger
	markerRe *regexp.Regexp
}

// New creates an Optimizer. layer must not be nil; log may be nil, in which
// case progress logging is disabled.
func New(cfg Config, layer *classify.Layer, log *zap.Logger) (*Optimizer, error) {
	if layer == nil {
		return nil, fmt.Errorf("classification layer is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.FootnotePattern == "" {
		cfg.FootnotePattern = DefaultFootnotePattern
	}
	markerRe, err := regexp.Compile(cfg.FootnotePattern)
	if err != nil {
		return nil, fmt.Errorf("compiling footnote pattern: %w", err)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.EligibleRoles == nil {
		cfg.EligibleRoles = DefaultConfig().EligibleRoles
	}

	return &Optimizer{
		cfg:      cfg,
		layer:    layer,
		log:      log,
		markerRe: markerRe,
	}, nil
}

// Optimize runs all passes in their fixed order and returns the aggregated
// report. The deck is mutated in place. Structural invariant violations are
// fatal and reported before any mutation; everything else ends up as a
// warning in the report. Cancelling ctx stops the pipeline between passes;
// mutations already applied are retained.
func (o *Optimizer) Optimize(ctx context.Context, deck *model.Deck) (*model.Report, error) {
	if err := deck.Validate(); err != nil {
		return nil, err
	}

	report := model.NewReport()

	passes := []struct {
		name    string
		enabled bool
		run     func(context.Context, *model.Deck, *model.Report) error
	}{
		{"decorative-suppression", o.cfg.RemoveDecorative, o.suppressDecorative},
		{"footnote-inlining", o.cfg.InlineFootnotes, o.inlineFootnotes},
		{"redundancy-removal", o.cfg.RemoveRedundant, o.removeRedundant},
		{"table-naturalization", o.cfg.NaturalizeTables, o.naturalizeTables},
		{"chart-description", o.cfg.DescribeCharts, o.describeCharts},
		{"note-contextualization", o.cfg.UseSpeakerNotes, o.contextualizeNotes},
		{"slide-summarization", o.cfg.SummarizeComplexSlides, o.summarizeComplexSlides},
		{"reading-order", o.cfg.ResequenceReadingOrder, o.resequenceReadingOrder},
	}

	for _, p := range passes {
		if !p.enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		before := len(report.Warnings)
		if err := p.run(ctx, deck, report); err != nil {
			return report, err
		}
		o.log.Debug("pass complete",
			zap.String("pass", p.name),
			zap.Int("warnings", len(report.Warnings)-before))
	}

	o.log.Info("optimization complete",
		zap.Int("slides", len(deck.Slides)),
		zap.Int("blocks", deck.BlockCount()),
		zap.Int("warnings", len(report.Warnings)))

	return report, nil
}

// forEachSlide fans one task per slide out on a bounded pool and merges the
// per-slide warnings in slide order after the barrier. fn must only mutate
// its own slide.
func (o *Optimizer) forEachSlide(ctx context.Context, deck *model.Deck, fn func(context.Context, *model.Slide) []model.Warning) ([]model.Warning, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)

	perSlide := make([][]model.Warning, len(deck.Slides))
	for i, s := range deck.Slides {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perSlide[i] = fn(gctx, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Warning
	for _, ws := range perSlide {
		merged = append(merged, ws...)
	}
	return merged, nil
}

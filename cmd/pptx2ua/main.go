// Command pptx2ua converts a PowerPoint presentation into accessible HTML:
// it parses the deck, rewrites it for a linear screen-reader traversal, and
// renders the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/classify"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/ocr"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/optimize"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/pptx"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/render"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/validate"
)

var (
	// Global flags
	verbose  bool
	cfgFile  string
	outFile  string
	language string
	useOCR   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pptx2ua <input.pptx>",
	Short: "pptx2ua - barrierefreie Aufbereitung von Präsentationen",
	Long: `pptx2ua rewrites a slide deck so that a screen reader reads meaning
instead of layout: decorative images are suppressed, footnotes are spliced
into their anchors, repeated logos and headers are announced once, tables
and charts get natural-language summaries, and every slide is reordered
into context, title, body, data, images.

Classification uses deterministic rules by default. Set GEMINI_API_KEY to
let the Gemini API refine decorative verdicts, summaries and descriptions;
without it the converter runs fully offline.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
	RunE: runConvert,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (YAML)")
	rootCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output HTML file (default: input name with .html)")
	rootCmd.Flags().StringVarP(&language, "lang", "l", "", "Sentence template language: de or en (default de)")
	rootCmd.Flags().BoolVar(&useOCR, "ocr", false, "Recover missing image alt text via Tesseract (requires -tags ocr build)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	if language != "" {
		cfg.Language = language
	}

	input := args[0]
	output := outFile
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".html"
	}

	reader, err := pptx.Open(input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}
	defer reader.Close()

	deck, err := reader.Deck()
	if err != nil {
		return fmt.Errorf("building document model: %w", err)
	}
	logger.Info("presentation loaded",
		zap.String("input", input),
		zap.Int("slides", len(deck.Slides)),
		zap.Int("blocks", deck.BlockCount()))

	var ocrWarnings []model.Warning
	if useOCR {
		ocrWarnings = recoverAltText(deck, cfg.Language)
	}

	report, err := optimizeDeck(ctx, cfg, deck)
	if err != nil {
		return err
	}
	for _, w := range ocrWarnings {
		report.Add(w)
	}
	logWarnings(report)

	if issues := validate.Deck(deck); len(issues) > 0 {
		for _, issue := range issues {
			logger.Error("traversal guarantee violated", zap.String("issue", issue.String()))
		}
		return fmt.Errorf("optimized deck failed validation with %d issues", len(issues))
	}

	out, err := render.HTML(deck, render.Options{
		Language:      cfg.Language,
		IncludeHidden: cfg.Render.IncludeHidden,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	logger.Info("conversion complete",
		zap.String("output", output),
		zap.Int("warnings", len(report.Warnings)))
	return nil
}

// optimizeDeck wires the classification layer and runs the pass pipeline.
func optimizeDeck(ctx context.Context, cfg *fileConfig, deck *model.Deck) (*model.Report, error) {
	ccfg := classify.DefaultConfig()
	ccfg.Language = cfg.Language
	cfg.applyClassify(&ccfg)

	var backend classify.Backend
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gem, err := classify.NewGemini(ctx, key, cfg.Gemini.TextModel, cfg.Gemini.VisionModel, cfg.Language)
		if err != nil {
			logger.Warn("Gemini backend unavailable, using rules only", zap.Error(err))
		} else {
			backend = gem
			logger.Debug("Gemini backend configured")
		}
	}

	ocfg := optimize.DefaultConfig()
	ocfg.Language = cfg.Language
	cfg.applyOptimize(&ocfg)

	opt, err := optimize.New(ocfg, classify.NewLayer(ccfg, backend), logger)
	if err != nil {
		return nil, err
	}
	return opt.Optimize(ctx, deck)
}

// recoverAltText runs OCR over alt-less images. In builds without the ocr
// tag this degrades to one warning per candidate image.
func recoverAltText(deck *model.Deck, language string) []model.Warning {
	client, err := ocr.New()
	if err != nil {
		logger.Warn("OCR requested but unavailable", zap.Error(err))
		return nil
	}
	defer client.Close()

	lang := "deu+eng"
	if language == "en" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		logger.Warn("setting OCR language failed", zap.Error(err))
	}

	return ocr.RecoverAltText(deck, client)
}

func logWarnings(report *model.Report) {
	for _, w := range report.Warnings {
		logger.Warn("optimization warning",
			zap.String("kind", w.Kind.String()),
			zap.Int("slide", w.Slide),
			zap.Int("block", w.BlockID),
			zap.String("detail", w.Message))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

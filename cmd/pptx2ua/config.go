package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/classify"
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/optimize"
)

// fileConfig is the YAML configuration surface. Every field is optional;
// zero values keep the built-in defaults.
type fileConfig struct {
	Language string `yaml:"language"`

	Passes struct {
		RemoveDecorative       *bool `yaml:"remove_decorative"`
		InlineFootnotes        *bool `yaml:"inline_footnotes"`
		RemoveRedundant        *bool `yaml:"remove_redundant"`
		NaturalizeTables       *bool `yaml:"naturalize_tables"`
		DescribeCharts         *bool `yaml:"describe_charts"`
		UseSpeakerNotes        *bool `yaml:"use_speaker_notes"`
		SummarizeComplexSlides *bool `yaml:"summarize_complex_slides"`
		ResequenceReadingOrder *bool `yaml:"resequence_reading_order"`
	} `yaml:"passes"`

	Thresholds struct {
		MinConfidence         float64 `yaml:"min_confidence"`
		DecorativeMaxArea     float64 `yaml:"decorative_max_area_fraction"`
		DecorativeMinSlides   int     `yaml:"decorative_min_recurrence"`
		MinNoteLength         int     `yaml:"min_note_length"`
		ComplexSlideThreshold int     `yaml:"complex_slide_threshold"`
		TimeoutSeconds        int     `yaml:"classification_timeout_seconds"`
		Concurrency           int     `yaml:"concurrency"`
	} `yaml:"thresholds"`

	Gemini struct {
		TextModel   string `yaml:"text_model"`
		VisionModel string `yaml:"vision_model"`
	} `yaml:"gemini"`

	Render struct {
		IncludeHidden bool `yaml:"include_hidden"`
	} `yaml:"render"`
}

// loadConfig reads the YAML file when given, otherwise returns defaults.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{Language: "de"}
	cfg.Render.IncludeHidden = true

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Language == "" {
		cfg.Language = "de"
	}
	return cfg, nil
}

// applyClassify overlays non-zero threshold settings.
func (c *fileConfig) applyClassify(ccfg *classify.Config) {
	if c.Thresholds.MinConfidence > 0 {
		ccfg.MinConfidence = c.Thresholds.MinConfidence
	}
	if c.Thresholds.DecorativeMaxArea > 0 {
		ccfg.DecorativeMaxAreaFraction = c.Thresholds.DecorativeMaxArea
	}
	if c.Thresholds.DecorativeMinSlides > 0 {
		ccfg.DecorativeMinRecurrence = c.Thresholds.DecorativeMinSlides
	}
	if c.Thresholds.TimeoutSeconds > 0 {
		ccfg.Timeout = time.Duration(c.Thresholds.TimeoutSeconds) * time.Second
	}
}

// applyOptimize overlays pass toggles and thresholds.
func (c *fileConfig) applyOptimize(ocfg *optimize.Config) {
	p := c.Passes
	if p.RemoveDecorative != nil {
		ocfg.RemoveDecorative = *p.RemoveDecorative
	}
	if p.InlineFootnotes != nil {
		ocfg.InlineFootnotes = *p.InlineFootnotes
	}
	if p.RemoveRedundant != nil {
		ocfg.RemoveRedundant = *p.RemoveRedundant
	}
	if p.NaturalizeTables != nil {
		ocfg.NaturalizeTables = *p.NaturalizeTables
	}
	if p.DescribeCharts != nil {
		ocfg.DescribeCharts = *p.DescribeCharts
	}
	if p.UseSpeakerNotes != nil {
		ocfg.UseSpeakerNotes = *p.UseSpeakerNotes
	}
	if p.SummarizeComplexSlides != nil {
		ocfg.SummarizeComplexSlides = *p.SummarizeComplexSlides
	}
	if p.ResequenceReadingOrder != nil {
		ocfg.ResequenceReadingOrder = *p.ResequenceReadingOrder
	}

	if c.Thresholds.MinNoteLength > 0 {
		ocfg.MinNoteLength = c.Thresholds.MinNoteLength
	}
	if c.Thresholds.ComplexSlideThreshold > 0 {
		ocfg.ComplexSlideThreshold = c.Thresholds.ComplexSlideThreshold
	}
	if c.Thresholds.Concurrency > 0 {
		ocfg.Concurrency = c.Thresholds.Concurrency
	}
}

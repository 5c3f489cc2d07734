package classify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Gemini is a Backend implementation on top of Google's GenAI API. Vision
// calls (decorative classification, chart description) and text calls (table
// summary, note context, slide summary) may use different models.
type Gemini struct {
	client      *genai.Client
	textModel   string
	visionModel string
	language    string
}

// NewGemini creates a Gemini backend.
func NewGemini(ctx context.Context, apiKey, textModel, visionModel, language string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if textModel == "" {
		textModel = "gemini-2.0-flash"
	}
	if visionModel == "" {
		visionModel = textModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client:      client,
		textModel:   textModel,
		visionModel: visionModel,
		language:    language,
	}, nil
}

func (g *Gemini) tr(de, en string) string {
	if g.language == "en" {
		return en
	}
	return de
}

// generate runs one request and returns the trimmed answer text.
func (g *Gemini) generate(ctx context.Context, modelName string, parts []*genai.Part, maxTokens int32) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, modelName, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

// ClassifyDecorative asks the vision model whether an image is decorative.
// The prompt demands a single-letter verdict so the answer parses reliably.
func (g *Gemini) ClassifyDecorative(ctx context.Context, q ImageQuery) (Decorative, error) {
	if len(q.Bytes) == 0 {
		return Decorative{}, fmt.Errorf("no image bytes to classify")
	}

	prompt := g.tr(
		"Analysiere dieses Bild aus einer Präsentationsfolie. Ist es:\n"+
			"A) DEKORATIV - Hintergrund, Muster, Rahmen, rein ästhetisch\n"+
			"B) INHALTLICH - trägt Information bei (Foto, Diagramm, Screenshot)\n"+
			"Antworte nur mit A oder B.",
		"Analyze this image from a presentation slide. Is it:\n"+
			"A) DECORATIVE - background, pattern, frame, purely aesthetic\n"+
			"B) INFORMATIVE - carries information (photo, diagram, screenshot)\n"+
			"Answer with A or B only.")

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(q.Bytes, http.DetectContentType(q.Bytes)),
	}

	answer, err := g.generate(ctx, g.visionModel, parts, 8)
	if err != nil {
		return Decorative{}, err
	}

	switch {
	case strings.HasPrefix(strings.ToUpper(answer), "A"):
		return Decorative{Decorative: true, Confidence: 0.9}, nil
	case strings.HasPrefix(strings.ToUpper(answer), "B"):
		return Decorative{Decorative: false, Confidence: 0.9}, nil
	default:
		// An answer the prompt did not allow carries no confidence; the
		// layer will fall back to the rule.
		return Decorative{Confidence: 0}, nil
	}
}

// SummarizeTable asks the text model for a short spoken summary of a grid.
func (g *Gemini) SummarizeTable(ctx context.Context, grid [][]string) (string, error) {
	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}

	prompt := g.tr(
		"Diese Tabelle soll blinden Menschen vorgelesen werden:\n%s\n"+
			"Fasse die Kernaussage in 2-3 natürlichen Sätzen zusammen und nenne die "+
			"wichtigsten Datenpunkte. Vermeide \"Die Tabelle zeigt\".",
		"This table will be read aloud to blind users:\n%s\n"+
			"Summarize its key message in 2-3 natural sentences and name the most "+
			"important data points. Avoid \"The table shows\".")

	parts := []*genai.Part{genai.NewPartFromText(fmt.Sprintf(prompt, sb.String()))}
	return g.generate(ctx, g.textModel, parts, 200)
}

// DescribeChart describes a chart, preferring the rendered image when
// present and falling back to the structured series.
func (g *Gemini) DescribeChart(ctx context.Context, q ChartQuery) (string, error) {
	prompt := g.tr(
		"Beschreibe dieses Diagramm für blinde Menschen: nenne den Diagrammtyp, "+
			"die Kernaussage in einem Satz und die wichtigsten 2-3 Datenpunkte. "+
			"Maximal 3 Sätze.",
		"Describe this chart for blind users: name the chart type, the key "+
			"message in one sentence, and the 2-3 most important data points. "+
			"At most 3 sentences.")

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	switch {
	case len(q.Image) > 0:
		parts = append(parts, genai.NewPartFromBytes(q.Image, http.DetectContentType(q.Image)))
	case len(q.Series) > 0:
		var sb strings.Builder
		sb.WriteString(g.tr("Datenreihe", "Data series"))
		if q.Title != "" {
			sb.WriteString(" (" + q.Title + ")")
		}
		sb.WriteString(":\n")
		for _, p := range q.Series {
			fmt.Fprintf(&sb, "%s: %g\n", p.Label, p.Value)
		}
		parts = append(parts, genai.NewPartFromText(sb.String()))
	default:
		return "", ErrNoSeries
	}

	return g.generate(ctx, g.visionModel, parts, 200)
}

// ExtractContext distills the speaker note into one or two context
// sentences a listener should hear before the slide content.
func (g *Gemini) ExtractContext(ctx context.Context, note string) (string, error) {
	prompt := g.tr(
		"Der Vortragende hat diese Notizen zu einer Folie:\n\"%s\"\n"+
			"Extrahiere in 1-2 Sätzen den wichtigsten Kontext, den ein blinder "+
			"Zuhörer vor dem Folieninhalt wissen sollte. Antworte direkt mit dem "+
			"Kontextsatz.",
		"The presenter attached these notes to a slide:\n\"%s\"\n"+
			"Extract, in 1-2 sentences, the most important context a blind "+
			"listener should hear before the slide content. Answer with the "+
			"context sentence directly.")

	parts := []*genai.Part{genai.NewPartFromText(fmt.Sprintf(prompt, truncateRunes(note, 500)))}
	return g.generate(ctx, g.textModel, parts, 150)
}

// SummarizeSlide produces a one-sentence orientation for a busy slide.
func (g *Gemini) SummarizeSlide(ctx context.Context, title string, items []string) (string, error) {
	prompt := g.tr(
		"Folientitel: \"%s\"\nInhalte:\n- %s\n"+
			"Fasse in einem Satz zusammen, worum es auf dieser Folie geht, damit "+
			"blinde Nutzer die folgenden Details einordnen können.",
		"Slide title: \"%s\"\nContents:\n- %s\n"+
			"Summarize in one sentence what this slide is about, so blind users "+
			"can place the details that follow.")

	parts := []*genai.Part{genai.NewPartFromText(fmt.Sprintf(prompt, title, strings.Join(items, "\n- ")))}
	return g.generate(ctx, g.textModel, parts, 100)
}

package ocr

import (
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// RecoverAltText fills in missing image alt text by recognizing text inside
// the image bytes. Images that already carry alt text are never touched.
// Recognition failures become OCRFailed warnings; the deck stays usable.
func RecoverAltText(deck *model.Deck, c *Client) []model.Warning {
	var warnings []model.Warning

	for _, s := range deck.Slides {
		for _, b := range s.Blocks {
			if b.Kind != model.KindImage || b.Image == nil {
				continue
			}
			if b.Image.AltText != "" || len(b.Image.Bytes) == 0 {
				continue
			}

			text, err := c.RecognizeImage(b.Image.Bytes)
			if err != nil {
				warnings = append(warnings, model.Warning{
					Kind:    model.WarnOCRFailed,
					Slide:   s.Index,
					BlockID: b.ID,
					Message: err.Error(),
				})
				continue
			}
			b.Image.AltText = text
		}
	}
	return warnings
}

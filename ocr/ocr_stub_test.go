//go:build !ocr

package ocr

import (
	"errors"
	"testing"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if err == nil {
		t.Error("Expected error from New() when OCR is disabled")
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}

func TestRecoverAltTextStubWarns(t *testing.T) {
	deck := model.NewDeck()
	s := &model.Slide{}
	s.Blocks = []*model.Block{
		{ID: 1, Slide: 0, Kind: model.KindImage,
			Image: &model.ImageData{Bytes: []byte("img")}},
		{ID: 2, Slide: 0, Kind: model.KindImage,
			Image: &model.ImageData{Bytes: []byte("img"), AltText: "Vorhanden"}},
	}
	deck.AddSlide(s)

	warnings := RecoverAltText(deck, &Client{})

	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1 (only the alt-less image)", len(warnings))
	}
	if warnings[0].Kind != model.WarnOCRFailed || warnings[0].BlockID != 1 {
		t.Errorf("warning = %+v, want OCRFailed for block 1", warnings[0])
	}
	if s.Blocks[1].Image.AltText != "Vorhanden" {
		t.Error("existing alt text must not be touched")
	}
}

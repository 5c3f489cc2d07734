package signature

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// ============================================================================
// Text Signature Tests
// ============================================================================

func TestForTextNormalization(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "Quartalsbericht 2024", "Quartalsbericht 2024", true},
		{"case folded", "ACME GmbH", "acme gmbh", true},
		{"whitespace collapsed", "Alle  Rechte\tvorbehalten", "Alle Rechte vorbehalten", true},
		{"leading and trailing space", "  Impressum ", "Impressum", true},
		{"different content", "Umsatz Q1", "Umsatz Q2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa, sb := ForText(tt.a), ForText(tt.b)
			if (sa == sb) != tt.same {
				t.Errorf("ForText(%q) == ForText(%q) is %v, want %v", tt.a, tt.b, sa == sb, tt.same)
			}
		})
	}
}

// ============================================================================
// Image Signature Tests
// ============================================================================

// encodePNG renders a small two-tone test image.
func encodePNG(t *testing.T, w, h int, split int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < split {
				img.SetGray(x, y, color.Gray{Y: 250})
			} else {
				img.SetGray(x, y, color.Gray{Y: 10})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestForImageIdenticalBytes(t *testing.T) {
	a := encodePNG(t, 32, 32, 16)
	b := encodePNG(t, 32, 32, 16)
	if ForImage(a) != ForImage(b) {
		t.Error("identical images should share a signature")
	}
}

func TestForImageScaledMatch(t *testing.T) {
	// The same half-bright half-dark picture at two sizes should produce
	// the same perceptual hash.
	small := encodePNG(t, 16, 16, 8)
	large := encodePNG(t, 64, 64, 32)
	if ForImage(small) != ForImage(large) {
		t.Error("scaled copies of the same picture should share a signature")
	}
}

func TestForImageDifferentContent(t *testing.T) {
	a := encodePNG(t, 32, 32, 8)
	b := encodePNG(t, 32, 32, 24)
	if ForImage(a) == ForImage(b) {
		t.Error("different pictures should not share a signature")
	}
}

func TestForImageUndecodableFallsBack(t *testing.T) {
	junk := []byte("definitely not an image")
	sig := ForImage(junk)
	if sig == "" {
		t.Fatal("undecodable bytes should still produce a signature")
	}
	if sig != ForImage(junk) {
		t.Error("byte fallback signature should be deterministic")
	}
}

// ============================================================================
// Set Tests
// ============================================================================

func TestSetSeenRecord(t *testing.T) {
	s := NewSet()
	sig := ForText("logo")

	if s.Seen(sig) {
		t.Error("fresh set should not have seen anything")
	}
	s.Record(sig)
	if !s.Seen(sig) {
		t.Error("recorded signature should be seen")
	}
	s.Record(sig)
	if s.Len() != 1 {
		t.Errorf("Len() = %d after duplicate record, want 1", s.Len())
	}
}

// ============================================================================
// Block Dispatch Tests
// ============================================================================

func TestForBlock(t *testing.T) {
	img := encodePNG(t, 16, 16, 8)

	tests := []struct {
		name    string
		block   *model.Block
		wantOK  bool
	}{
		{"body text", &model.Block{Kind: model.KindBody, Text: "Vertraulich"}, true},
		{"empty text", &model.Block{Kind: model.KindBody}, false},
		{"image with bytes", &model.Block{Kind: model.KindImage, Image: &model.ImageData{Bytes: img}}, true},
		{"image without bytes", &model.Block{Kind: model.KindImage, Image: &model.ImageData{}}, false},
		{"footnote body", &model.Block{Kind: model.KindFootnote, Footnote: &model.FootnoteData{Body: "BMI 2024"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := ForBlock(tt.block)
			if ok != tt.wantOK {
				t.Errorf("ForBlock() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && sig == "" {
				t.Error("ForBlock() returned ok with empty signature")
			}
		})
	}
}

func TestForBlockTextMatchesForText(t *testing.T) {
	b := &model.Block{Kind: model.KindBody, Text: "  ACME  GmbH  "}
	sig, ok := ForBlock(b)
	if !ok {
		t.Fatal("expected a signature")
	}
	if sig != ForText("acme gmbh") {
		t.Error("block text signature should go through text normalization")
	}
}

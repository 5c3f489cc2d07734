package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"strings"

	// Stdlib decoders for the common slide media formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	// Extended decoders: PPTX media can carry BMP, TIFF and WebP.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var foldCaser = cases.Fold()

// ForText returns the canonical signature of a text: NFKC-normalized,
// case-folded, whitespace-collapsed, then hashed.
func ForText(text string) string {
	normalized := norm.NFKC.String(text)
	normalized = foldCaser.String(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")
	sum := sha256.Sum256([]byte(normalized))
	return "text:" + hex.EncodeToString(sum[:])
}

// ForImage returns the canonical signature of an image. When the bytes
// decode, the signature is an 8x8 average hash over grayscale pixels, so the
// same picture re-encoded or resized still matches. Undecodable bytes fall
// back to a plain content hash.
func ForImage(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		sum := sha256.Sum256(data)
		return "bytes:" + hex.EncodeToString(sum[:])
	}
	return fmt.Sprintf("ahash:%016x", averageHash(img))
}

// averageHash computes a 64-bit perceptual hash: the image is sampled down
// to an 8x8 grid of luminance values and each bit records whether its cell
// is brighter than the mean.
func averageHash(img image.Image) uint64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var cells [64]uint64
	var total uint64
	for cy := 0; cy < 8; cy++ {
		for cx := 0; cx < 8; cx++ {
			// Sample the center of each grid cell.
			px := bounds.Min.X + (cx*2+1)*w/16
			py := bounds.Min.Y + (cy*2+1)*h/16
			r, g, b, _ := img.At(px, py).RGBA()
			// Integer BT.601 luma, 16-bit channels.
			luma := (299*uint64(r) + 587*uint64(g) + 114*uint64(b)) / 1000
			cells[cy*8+cx] = luma
			total += luma
		}
	}
	mean := total / 64

	var hash uint64
	for i, luma := range cells {
		if luma > mean {
			hash |= 1 << uint(i)
		}
	}
	return hash
}

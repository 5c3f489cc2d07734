// Package signature computes canonical content signatures and tracks which
// ones have already been encountered within a single optimization run.
//
// Two blocks with the same signature carry the same content for screen-reader
// purposes even when their bytes differ superficially: text is case-folded
// and whitespace-collapsed before hashing, images are reduced to a small
// perceptual hash of their decoded pixels.
package signature

import (
	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// DefaultEligibleRoles is the default set of role tags that participate in
// redundancy removal.
func DefaultEligibleRoles() map[string]bool {
	return map[string]bool{
		model.RoleLogo:              true,
		model.RoleBoilerplateHeader: true,
		model.RoleRepeatedTitle:     true,
	}
}

// Set records which signatures have been seen. Its lifetime is exactly one
// optimize call; it must never be shared across decks.
type Set struct {
	seen map[string]struct{}
}

// NewSet creates an empty signature set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Seen reports whether the signature has been recorded.
func (s *Set) Seen(sig string) bool {
	_, ok := s.seen[sig]
	return ok
}

// Record marks the signature as seen. Recording is monotonic: there is no
// way to forget a signature short of discarding the Set.
func (s *Set) Record(sig string) {
	s.seen[sig] = struct{}{}
}

// Len returns the number of distinct signatures recorded.
func (s *Set) Len() int {
	return len(s.seen)
}

// ForBlock computes the canonical signature for a block's content. The
// second return value is false when the block has no hashable content
// (for example an image payload with no bytes).
func ForBlock(b *model.Block) (string, bool) {
	if b.Kind == model.KindImage && b.Image != nil {
		if len(b.Image.Bytes) == 0 {
			return "", false
		}
		return ForImage(b.Image.Bytes), true
	}
	text := b.Text
	if b.Kind == model.KindFootnote && b.Footnote != nil {
		text = b.Footnote.Body
	}
	if text == "" {
		return "", false
	}
	return ForText(text), true
}

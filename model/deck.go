package model

import "strconv"

// Metadata contains document-level information carried over from the source
// presentation.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Language string
	Keywords []string
}

// Slide is a single slide: an ordered sequence of blocks plus the raw
// speaker note. Blocks is the reading order and is mutable by passes; Notes
// is immutable source material, read only by the contextualization pass.
type Slide struct {
	Index  int // 0-based, stable
	Blocks []*Block
	Notes  string

	WidthMM  float64
	HeightMM float64
}

// Visible returns the blocks that contribute to the reading order, in their
// current sequence.
func (s *Slide) Visible() []*Block {
	out := make([]*Block, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		if b.InReadingOrder() {
			out = append(out, b)
		}
	}
	return out
}

// Title returns the text of the slide's first title block, or "".
func (s *Slide) Title() string {
	for _, b := range s.Blocks {
		if b.Kind == KindTitle {
			return b.Text
		}
	}
	return ""
}

// Deck is the whole presentation's document model.
type Deck struct {
	Metadata Metadata
	Slides   []*Slide

	nextID int
}

// NewDeck creates an empty deck.
func NewDeck() *Deck {
	return &Deck{}
}

// AddSlide appends a slide, assigning its index.
func (d *Deck) AddSlide(s *Slide) {
	s.Index = len(d.Slides)
	d.Slides = append(d.Slides, s)
}

// AllocateID returns a fresh block ID, unique within the deck. IDs are never
// reused, including those of hidden or consumed blocks.
func (d *Deck) AllocateID() int {
	for _, s := range d.Slides {
		for _, b := range s.Blocks {
			if b.ID >= d.nextID {
				d.nextID = b.ID + 1
			}
		}
	}
	id := d.nextID
	d.nextID++
	return id
}

// BlockByID looks up a block anywhere in the deck. Returns nil if absent.
func (d *Deck) BlockByID(id int) *Block {
	for _, s := range d.Slides {
		for _, b := range s.Blocks {
			if b.ID == id {
				return b
			}
		}
	}
	return nil
}

// BlockCount returns the total number of blocks, hidden or not.
func (d *Deck) BlockCount() int {
	n := 0
	for _, s := range d.Slides {
		n += len(s.Blocks)
	}
	return n
}

// Validate checks structural invariants: block IDs must be unique across the
// deck and every block's origin slide index must match its containing slide.
// A violation is fatal for the optimizer, which refuses to mutate a
// malformed deck.
func (d *Deck) Validate() error {
	seen := make(map[int]int, d.BlockCount())
	for _, s := range d.Slides {
		for _, b := range s.Blocks {
			if prev, ok := seen[b.ID]; ok {
				return &MalformedModelError{
					BlockID: b.ID,
					Slide:   s.Index,
					Reason:  "duplicate block id",
					Detail:  "first seen on slide " + strconv.Itoa(prev),
				}
			}
			seen[b.ID] = s.Index
			if b.Slide != s.Index {
				return &MalformedModelError{
					BlockID: b.ID,
					Slide:   s.Index,
					Reason:  "origin slide index mismatch",
					Detail:  "block claims slide " + strconv.Itoa(b.Slide),
				}
			}
		}
	}
	return nil
}

package model

// BlockKind identifies the kind of content a Block carries.
// The set is closed: passes switch over it exhaustively.
type BlockKind int

const (
	KindUnknown BlockKind = iota
	KindTitle
	KindBody
	KindImage
	KindTable
	KindChart
	KindFootnote
	KindSyntheticContext
	KindSyntheticSummary
)

func (k BlockKind) String() string {
	switch k {
	case KindTitle:
		return "Title"
	case KindBody:
		return "Body"
	case KindImage:
		return "Image"
	case KindTable:
		return "Table"
	case KindChart:
		return "Chart"
	case KindFootnote:
		return "Footnote"
	case KindSyntheticContext:
		return "SyntheticContext"
	case KindSyntheticSummary:
		return "SyntheticSummary"
	default:
		return "Unknown"
	}
}

// Semantic role tags. Blocks carrying one of the redundancy-eligible roles
// participate in cross-slide deduplication.
const (
	RoleLogo              = "logo"
	RoleBoilerplateHeader = "boilerplate-header"
	RoleRepeatedTitle     = "repeated-title"
	RoleContext           = "context"
	RoleSummary           = "summary"
)

// ImageData is the kind-specific payload of an Image block.
type ImageData struct {
	Bytes   []byte
	Format  string // file extension of the source media, e.g. "png"
	AltText string

	// AI- or rule-derived classification. Nil until the decorative
	// suppression pass has run.
	Decorative *bool
	Confidence float64
}

// TableData is the kind-specific payload of a Table block. The grid is
// retained even after naturalization so the renderer can emit tagged
// structure alongside the spoken summary.
type TableData struct {
	Grid    [][]string
	Summary string
}

// SeriesPoint is one point of a chart's primary data series.
type SeriesPoint struct {
	Label string
	Value float64
}

// ChartData is the kind-specific payload of a Chart block.
type ChartData struct {
	Series      []SeriesPoint
	Image       []byte
	Description string
}

// FootnoteData is the kind-specific payload of a Footnote block.
type FootnoteData struct {
	Key  string // normalized anchor key, e.g. "1"
	Body string
}

// Block is one semantic content unit on a slide.
//
// ID and Slide are stable: no pass may mutate them. X, Y, W, H are the
// original layout position in millimeters; after optimization the position is
// used only as a tie-break within a priority class. Hidden removes a block
// from the reading order without deleting it. Consumed applies to footnotes
// whose body has been spliced into an anchor.
type Block struct {
	ID    int
	Slide int // origin slide index, 0-based
	Kind  BlockKind
	Role  string

	X, Y float64
	W, H float64

	Hidden   bool
	Consumed bool

	// Text is the content of Title, Body, SyntheticContext and
	// SyntheticSummary blocks.
	Text string

	Image    *ImageData
	Table    *TableData
	Chart    *ChartData
	Footnote *FootnoteData
}

// InReadingOrder reports whether the block contributes to the screen-reader
// traversal. Footnote blocks never do: their content either gets spliced into
// an anchor or stays out of the traversal entirely.
func (b *Block) InReadingOrder() bool {
	if b.Hidden || b.Consumed {
		return false
	}
	return b.Kind != KindFootnote
}

// SpokenText returns the text a screen reader should announce for the block.
// Tables and charts speak their synthesized summary, images their alt text.
func (b *Block) SpokenText() string {
	switch b.Kind {
	case KindTable:
		if b.Table != nil {
			return b.Table.Summary
		}
	case KindChart:
		if b.Chart != nil {
			return b.Chart.Description
		}
	case KindImage:
		if b.Image != nil {
			return b.Image.AltText
		}
	default:
		return b.Text
	}
	return b.Text
}

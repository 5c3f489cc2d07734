// Package render serializes an optimized deck as accessible HTML. The
// output follows each slide's current block sequence: one section per
// slide, blocks in reading order, with hidden and consumed blocks kept in
// the markup under aria-hidden for auditing.
package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// Options controls HTML output.
type Options struct {
	// Language is the html lang attribute when the deck metadata does not
	// declare one.
	Language string

	// IncludeHidden keeps hidden and consumed blocks in the markup as
	// aria-hidden elements. Screen readers skip them; auditors can still
	// see what was suppressed and why.
	IncludeHidden bool
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{Language: "de", IncludeHidden: true}
}

// HTML renders the deck as a standalone HTML document.
func HTML(deck *model.Deck, opts Options) ([]byte, error) {
	lang := deck.Metadata.Language
	if lang == "" {
		lang = opts.Language
	}

	title := deck.Metadata.Title
	if title == "" {
		title = "Präsentation"
	}

	root := el(atom.Html, attr("lang", lang))
	head := el(atom.Head)
	head.AppendChild(el(atom.Meta, attr("charset", "utf-8")))
	titleNode := el(atom.Title)
	titleNode.AppendChild(text(title))
	head.AppendChild(titleNode)
	root.AppendChild(head)

	body := el(atom.Body)
	main := el(atom.Main)
	for _, s := range deck.Slides {
		main.AppendChild(slideSection(s, opts))
	}
	body.AppendChild(main)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return buf.Bytes(), nil
}

func slideSection(s *model.Slide, opts Options) *html.Node {
	section := el(atom.Section,
		attr("aria-label", fmt.Sprintf("Folie %d", s.Index+1)),
		attr("data-slide", strconv.Itoa(s.Index)))

	for _, b := range s.Blocks {
		if b.InReadingOrder() {
			if n := visibleNode(b); n != nil {
				section.AppendChild(n)
			}
			continue
		}
		if opts.IncludeHidden {
			section.AppendChild(hiddenNode(b))
		}
	}
	return section
}

// visibleNode maps one reading-order block to its element. Blocks with no
// spoken content render nothing.
func visibleNode(b *model.Block) *html.Node {
	id := strconv.Itoa(b.ID)

	switch b.Kind {
	case model.KindTitle:
		return textElement(atom.H2, id, "title", b.Text)

	case model.KindSyntheticContext:
		return textElement(atom.P, id, "context", b.Text)

	case model.KindSyntheticSummary:
		return textElement(atom.P, id, "summary", b.Text)

	case model.KindImage:
		if b.Image == nil || b.Image.AltText == "" {
			return nil
		}
		return el(atom.Figure,
			attr("role", "img"),
			attr("aria-label", b.Image.AltText),
			attr("data-block", id))

	case model.KindTable:
		if b.Table == nil {
			return nil
		}
		return tableFigure(b, id)

	case model.KindChart:
		if b.Chart == nil || b.Chart.Description == "" {
			return nil
		}
		return textElement(atom.P, id, "chart", b.Chart.Description)

	default:
		if b.Text == "" {
			return nil
		}
		return textElement(atom.P, id, "body", b.Text)
	}
}

// tableFigure renders the spoken summary as primary content and keeps the
// full grid behind a disclosure element.
func tableFigure(b *model.Block, id string) *html.Node {
	figure := el(atom.Figure, attr("class", "table"), attr("data-block", id))

	if b.Table.Summary != "" {
		p := el(atom.P)
		p.AppendChild(text(b.Table.Summary))
		figure.AppendChild(p)
	}

	if len(b.Table.Grid) > 0 {
		details := el(atom.Details)
		summary := el(atom.Summary)
		summary.AppendChild(text("Tabelle"))
		details.AppendChild(summary)

		table := el(atom.Table)
		for i, row := range b.Table.Grid {
			tr := el(atom.Tr)
			cellTag := atom.Td
			if i == 0 {
				cellTag = atom.Th
			}
			for _, cell := range row {
				tc := el(cellTag)
				tc.AppendChild(text(cell))
				tr.AppendChild(tc)
			}
			table.AppendChild(tr)
		}
		details.AppendChild(table)
		figure.AppendChild(details)
	}

	return figure
}

// hiddenNode keeps a suppressed block in the markup without exposing it to
// assistive technology.
func hiddenNode(b *model.Block) *html.Node {
	reason := "hidden"
	if b.Consumed {
		reason = "consumed"
	}

	div := el(atom.Div,
		attr("aria-hidden", "true"),
		attr("hidden", ""),
		attr("data-block", strconv.Itoa(b.ID)),
		attr("data-suppressed", reason))

	if t := b.SpokenText(); t != "" {
		div.AppendChild(text(t))
	} else if b.Kind == model.KindFootnote && b.Footnote != nil {
		div.AppendChild(text(b.Footnote.Body))
	}
	return div
}

func textElement(tag atom.Atom, id, class, content string) *html.Node {
	n := el(tag, attr("class", class), attr("data-block", id))
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			n.AppendChild(el(atom.Br))
		}
		n.AppendChild(text(line))
	}
	return n
}

func el(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

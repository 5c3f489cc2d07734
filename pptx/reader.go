package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Fliegenbart/neues-pptx-zu-pdf-gut/model"
)

// One millimeter is 36000 English Metric Units.
const emuPerMM = 36000.0

// Default slide size (10" x 7.5") for presentations without an explicit
// sldSz element.
const (
	defaultSlideWidthMM  = 254.0
	defaultSlideHeightMM = 190.5
)

// Text blocks anchored below this fraction of the slide height that start
// with an anchor marker are treated as footnotes.
const footnoteRegionFraction = 0.7

// footnoteLeadRe matches an anchor marker at the start of a text block:
// superscript digits, a bracketed number, or an asterisk run, optionally
// followed by separator characters.
var footnoteLeadRe = regexp.MustCompile(`^([¹²³⁴⁵⁶⁷⁸⁹⁰]+|\[\d+\]|\*+)[\s:.\)]*`)

var superscriptDigits = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

// normalizeMarker reduces an anchor marker to its canonical key: superscript
// digits become plain digits, bracketed numbers lose their brackets,
// asterisk runs stay as-is.
func normalizeMarker(marker string) string {
	if strings.HasPrefix(marker, "[") && strings.HasSuffix(marker, "]") {
		return marker[1 : len(marker)-1]
	}
	var sb strings.Builder
	for _, r := range marker {
		if d, ok := superscriptDigits[r]; ok {
			sb.WriteRune(d)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Reader provides access to PPTX presentation content.
type Reader struct {
	zr           *zip.Reader
	closer       io.Closer
	presentation *presentationXML
	slideParts   []*slideXML
	slideRels    map[int]*relationshipsXML // Slide index -> relationships
	notes        map[int]string            // Slide index -> speaker note text
	coreProps    *corePropertiesXML
	appProps     *appPropertiesXML
}

// Open opens a PPTX file for reading.
func Open(filename string) (*Reader, error) {
	zrc, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	r, err := newReader(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return r, nil
}

// NewReader reads a PPTX presentation from an in-memory or streamed archive.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr, nil)
}

func newReader(zr *zip.Reader, closer io.Closer) (*Reader, error) {
	r := &Reader{
		zr:        zr,
		closer:    closer,
		slideRels: make(map[int]*relationshipsXML),
		notes:     make(map[int]string),
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	if err := r.parsePresentation(); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}
	if err := r.parseSlides(); err != nil {
		return nil, fmt.Errorf("parsing slides: %w", err)
	}

	// Metadata is optional.
	r.parseCoreProperties()
	r.parseAppProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// validate checks that required PPTX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zr.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	hasSlide := false
	for name := range fileMap {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return fmt.Errorf("no slides found in presentation")
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// parsePresentation parses the main presentation file.
func (r *Reader) parsePresentation() error {
	data, err := r.getFileContent("ppt/presentation.xml")
	if err != nil {
		return err
	}
	r.presentation = &presentationXML{}
	return xml.Unmarshal(data, r.presentation)
}

// parseSlides parses all slide files in slide-number order.
func (r *Reader) parseSlides() error {
	slideFiles := make([]string, 0)
	for _, f := range r.zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			if !strings.Contains(f.Name, "_rels") {
				slideFiles = append(slideFiles, f.Name)
			}
		}
	}

	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})

	for _, slidePath := range slideFiles {
		data, err := r.getFileContent(slidePath)
		if err != nil {
			continue
		}
		var part slideXML
		if err := xml.Unmarshal(data, &part); err != nil {
			continue
		}

		index := len(r.slideParts)
		r.slideParts = append(r.slideParts, &part)
		r.parseSlideRelationships(slidePath, index)
		r.parseSlideNotes(index)
	}

	if len(r.slideParts) == 0 {
		return fmt.Errorf("no slides could be parsed")
	}
	return nil
}

// extractSlideNumber extracts the slide number from a path like
// "ppt/slides/slide1.xml".
func extractSlideNumber(p string) int {
	name := strings.TrimPrefix(p, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlideRelationships parses the relationships for a slide.
func (r *Reader) parseSlideRelationships(slidePath string, index int) {
	dir := path.Dir(slidePath)
	base := path.Base(slidePath)
	relsPath := path.Join(dir, "_rels", base+".rels")

	data, err := r.getFileContent(relsPath)
	if err != nil {
		return // Relationships are optional
	}

	rels := &relationshipsXML{}
	if err := xml.Unmarshal(data, rels); err != nil {
		return
	}
	r.slideRels[index] = rels
}

// resolveTarget maps a slide-relative relationship target to an archive path.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "../") {
		return "ppt/" + strings.TrimPrefix(target, "../")
	}
	if !strings.HasPrefix(target, "ppt/") {
		return "ppt/slides/" + target
	}
	return target
}

// relTarget looks up a relationship target by ID for a slide.
func (r *Reader) relTarget(index int, id string) string {
	rels := r.slideRels[index]
	if rels == nil || id == "" {
		return ""
	}
	for _, rel := range rels.Relationship {
		if rel.ID == id {
			return resolveTarget(rel.Target)
		}
	}
	return ""
}

// parseSlideNotes parses speaker notes for a slide.
func (r *Reader) parseSlideNotes(index int) {
	rels := r.slideRels[index]
	if rels == nil {
		return
	}

	var notesPath string
	for _, rel := range rels.Relationship {
		if strings.Contains(rel.Type, "notesSlide") {
			notesPath = resolveTarget(rel.Target)
			break
		}
	}
	if notesPath == "" {
		return
	}

	data, err := r.getFileContent(notesPath)
	if err != nil {
		return
	}
	var notes notesSlideXML
	if err := xml.Unmarshal(data, &notes); err != nil {
		return
	}

	var text strings.Builder
	for _, sp := range notes.CSld.SpTree.Sp {
		// Skip the slide image placeholder
		if sp.NvSpPr.NvPr.Ph != nil && sp.NvSpPr.NvPr.Ph.Type == "sldImg" {
			continue
		}
		if sp.TxBody == nil {
			continue
		}
		for _, p := range sp.TxBody.P {
			if t := paragraphText(&p); t != "" {
				if text.Len() > 0 {
					text.WriteString("\n")
				}
				text.WriteString(t)
			}
		}
	}

	r.notes[index] = strings.TrimSpace(text.String())
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}
	r.coreProps = &corePropertiesXML{}
	xml.Unmarshal(data, r.coreProps)
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent("docProps/app.xml")
	if err != nil {
		return
	}
	r.appProps = &appPropertiesXML{}
	xml.Unmarshal(data, r.appProps)
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.slideParts)
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{}
	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Author = r.coreProps.Creator
		meta.Subject = r.coreProps.Subject
		meta.Language = r.coreProps.Language
		if r.coreProps.Keywords != "" {
			meta.Keywords = strings.Split(r.coreProps.Keywords, ",")
			for i, kw := range meta.Keywords {
				meta.Keywords[i] = strings.TrimSpace(kw)
			}
		}
	}
	return meta
}

// Deck builds the document model for the whole presentation. Every shape
// with content becomes a block: placeholders and text boxes become title,
// body or footnote blocks, pictures become image blocks with their media
// bytes, tables and charts become their structured kinds.
func (r *Reader) Deck() (*model.Deck, error) {
	deck := model.NewDeck()
	deck.Metadata = r.Metadata()

	widthMM, heightMM := defaultSlideWidthMM, defaultSlideHeightMM
	if r.presentation.SlideSz != nil {
		widthMM = float64(r.presentation.SlideSz.Cx) / emuPerMM
		heightMM = float64(r.presentation.SlideSz.Cy) / emuPerMM
	}

	for i, part := range r.slideParts {
		s := &model.Slide{
			WidthMM:  widthMM,
			HeightMM: heightMM,
			Notes:    r.notes[i],
		}
		deck.AddSlide(s)

		b := &slideBuilder{reader: r, deck: deck, slide: s, relIndex: i}
		b.walkTree(&part.CSld.SpTree)
	}

	tagRepeatedTitles(deck)

	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

// slideBuilder accumulates blocks for one slide.
type slideBuilder struct {
	reader   *Reader
	deck     *model.Deck
	slide    *model.Slide
	relIndex int
}

func (b *slideBuilder) walkTree(spTree *spTreeXML) {
	for _, sp := range spTree.Sp {
		b.addShape(&sp)
	}
	for _, pic := range spTree.Pic {
		b.addPicture(&pic)
	}
	for _, gf := range spTree.GraphicFrame {
		b.addGraphicFrame(&gf)
	}
	for _, grp := range spTree.GrpSp {
		b.walkGroup(&grp)
	}
}

func (b *slideBuilder) walkGroup(grp *grpSpXML) {
	for _, sp := range grp.Sp {
		b.addShape(&sp)
	}
	for _, pic := range grp.Pic {
		b.addPicture(&pic)
	}
	for _, nested := range grp.GrpSp {
		b.walkGroup(&nested)
	}
}

// newBlock allocates a block with its geometry filled in from a transform.
func (b *slideBuilder) newBlock(kind model.BlockKind, xfrm *xfrmXML) *model.Block {
	block := &model.Block{
		ID:    b.deck.AllocateID(),
		Slide: b.slide.Index,
		Kind:  kind,
	}
	if xfrm != nil {
		block.X = float64(xfrm.Off.X) / emuPerMM
		block.Y = float64(xfrm.Off.Y) / emuPerMM
		block.W = float64(xfrm.Ext.Cx) / emuPerMM
		block.H = float64(xfrm.Ext.Cy) / emuPerMM
	}
	return block
}

func (b *slideBuilder) addShape(sp *spXML) {
	if sp.TxBody == nil {
		return
	}

	var lines []string
	for _, p := range sp.TxBody.P {
		if t := paragraphText(&p); t != "" {
			lines = append(lines, t)
		}
	}
	text := strings.Join(lines, "\n")
	if text == "" {
		return
	}

	kind := model.KindBody
	role := ""
	if sp.NvSpPr.NvPr.Ph != nil {
		switch sp.NvSpPr.NvPr.Ph.Type {
		case "title", "ctrTitle":
			kind = model.KindTitle
		case "hdr", "ftr", "dt", "sldNum":
			role = model.RoleBoilerplateHeader
		}
	}

	block := b.newBlock(kind, sp.SpPr.Xfrm)
	block.Role = role
	block.Text = text

	// A marker-led text box in the bottom region of the slide is a
	// footnote, not body text.
	if kind == model.KindBody && role == "" && b.isFootnote(block, text) {
		m := footnoteLeadRe.FindStringSubmatch(text)
		block.Kind = model.KindFootnote
		block.Text = ""
		block.Footnote = &model.FootnoteData{
			Key:  normalizeMarker(m[1]),
			Body: strings.TrimSpace(text[len(m[0]):]),
		}
	}

	b.slide.Blocks = append(b.slide.Blocks, block)
}

func (b *slideBuilder) isFootnote(block *model.Block, text string) bool {
	if !footnoteLeadRe.MatchString(text) {
		return false
	}
	return block.Y >= b.slide.HeightMM*footnoteRegionFraction
}

func (b *slideBuilder) addPicture(pic *picXML) {
	block := b.newBlock(model.KindImage, pic.SpPr.Xfrm)

	img := &model.ImageData{
		AltText: pic.NvPicPr.CNvPr.Descr,
	}
	if target := b.reader.relTarget(b.relIndex, pic.BlipFill.Blip.Embed); target != "" {
		if data, err := b.reader.getFileContent(target); err == nil {
			img.Bytes = data
			img.Format = strings.TrimPrefix(path.Ext(target), ".")
		}
	}
	block.Image = img

	if strings.Contains(strings.ToLower(pic.NvPicPr.CNvPr.Name), "logo") {
		block.Role = model.RoleLogo
	}

	b.slide.Blocks = append(b.slide.Blocks, block)
}

func (b *slideBuilder) addGraphicFrame(gf *graphicFrameXML) {
	switch {
	case gf.Graphic.GraphicData.Tbl != nil:
		block := b.newBlock(model.KindTable, gf.Xfrm)
		block.Table = &model.TableData{Grid: tableGrid(gf.Graphic.GraphicData.Tbl)}
		b.slide.Blocks = append(b.slide.Blocks, block)

	case gf.Graphic.GraphicData.Chart != nil:
		block := b.newBlock(model.KindChart, gf.Xfrm)
		block.Chart = &model.ChartData{
			Series: b.reader.chartSeries(b.relIndex, gf.Graphic.GraphicData.Chart.RID),
		}
		b.slide.Blocks = append(b.slide.Blocks, block)
	}
}

// tableGrid flattens a table into cell text. Continuation cells of a merged
// range stay as empty strings so the grid keeps its rectangular shape.
func tableGrid(tbl *tblXML) [][]string {
	grid := make([][]string, 0, len(tbl.Tr))
	for _, tr := range tbl.Tr {
		row := make([]string, 0, len(tr.Tc))
		for _, tc := range tr.Tc {
			if tc.VMerge != nil || tc.HMerge != nil || tc.TxBody == nil {
				row = append(row, "")
				continue
			}
			var cell strings.Builder
			for _, p := range tc.TxBody.P {
				if t := paragraphText(&p); t != "" {
					if cell.Len() > 0 {
						cell.WriteString(" ")
					}
					cell.WriteString(t)
				}
			}
			row = append(row, cell.String())
		}
		grid = append(grid, row)
	}
	return grid
}

// chartSeries reads the primary data series from a chart part.
func (r *Reader) chartSeries(index int, rid string) []model.SeriesPoint {
	target := r.relTarget(index, rid)
	if target == "" {
		return nil
	}
	data, err := r.getFileContent(target)
	if err != nil {
		return nil
	}
	var cs chartSpaceXML
	if err := xml.Unmarshal(data, &cs); err != nil {
		return nil
	}

	for _, group := range cs.Chart.PlotArea.Groups {
		for _, ser := range group.Ser {
			points := seriesPoints(&ser)
			if len(points) > 0 {
				return points
			}
		}
	}
	return nil
}

func seriesPoints(ser *serXML) []model.SeriesPoint {
	if ser.Val == nil || ser.Val.NumRef == nil {
		return nil
	}

	labels := make(map[int]string)
	if ser.Cat != nil {
		var pts []ptXML
		if ser.Cat.StrRef != nil {
			pts = ser.Cat.StrRef.Pts
		} else if ser.Cat.NumRef != nil {
			pts = ser.Cat.NumRef.Pts
		}
		for _, pt := range pts {
			labels[pt.Idx] = pt.V
		}
	}

	var points []model.SeriesPoint
	for _, pt := range ser.Val.NumRef.Pts {
		v, err := strconv.ParseFloat(strings.TrimSpace(pt.V), 64)
		if err != nil {
			continue
		}
		label := labels[pt.Idx]
		if label == "" {
			label = strconv.Itoa(pt.Idx + 1)
		}
		points = append(points, model.SeriesPoint{Label: label, Value: v})
	}
	return points
}

// paragraphText concatenates the run and field text of one paragraph.
func paragraphText(p *pXML) string {
	var text strings.Builder
	for _, run := range p.R {
		text.WriteString(run.T)
	}
	for _, fld := range p.Fld {
		text.WriteString(fld.T)
	}
	return strings.TrimSpace(text.String())
}

// tagRepeatedTitles tags title blocks whose text recurs on other slides, so
// the redundancy pass can hide the repeats. A title unique to its slide
// keeps an empty role and is never deduplicated.
func tagRepeatedTitles(deck *model.Deck) {
	counts := make(map[string]int)
	for _, s := range deck.Slides {
		seen := make(map[string]bool)
		for _, b := range s.Blocks {
			if b.Kind != model.KindTitle {
				continue
			}
			key := strings.TrimSpace(b.Text)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			counts[key]++
		}
	}

	for _, s := range deck.Slides {
		for _, b := range s.Blocks {
			if b.Kind != model.KindTitle {
				continue
			}
			if counts[strings.TrimSpace(b.Text)] >= 2 {
				b.Role = model.RoleRepeatedTitle
			}
		}
	}
}

package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	// Visual element blocks are wrapped in hidden bookmarks named
	// docxBookmarkPrefix + sequence number.
	docxBookmarkPrefix = "_Visual_"
	docxMargin         = 1134 // 2 cm in twips
	docxTablePct       = 5000 // 100% in fiftieths of a percent
)

// WordGenerator renders the flow document as WordprocessingML (.docx).
type WordGenerator struct {
	opts Options
}

// NewWordGenerator returns a Word generator using opts.
func NewWordGenerator(opts Options) *WordGenerator {
	return &WordGenerator{opts: opts.withDefaults()}
}

func (g *WordGenerator) Format() string        { return FormatWord }
func (g *WordGenerator) ContentType() string   { return docxContentType }
func (g *WordGenerator) FileExtension() string { return ".docx" }

// Generate creates the .docx package.
func (g *WordGenerator) Generate(ctx context.Context, data *ExportData, language string) ([]byte, error) {
	return runGenerator(ctx, FormatWord, func() ([]byte, error) {
		return GenerateWord(ctx, ResolvePlan(data, language, g.opts), g.opts)
	})
}

// GenerateWord lays out a resolved plan as a Word document and returns the
// zipped package bytes.
func GenerateWord(ctx context.Context, plan *RenderPlan, opts Options) ([]byte, error) {
	w := newWordComposer(plan, opts.withDefaults())

	if plan.Cover != nil {
		w.addCover()
	} else {
		w.addHeader()
	}
	w.addDocumentInfo()
	if plan.TableOfContents != nil {
		w.addTableOfContents()
	}
	for _, s := range plan.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w.addSection(s)
	}

	return w.pack()
}

type wordComposer struct {
	plan     *RenderPlan
	opts     Options
	brand    string
	content  []any
	bookmark int
	blocks   int // visual blocks emitted, placeholders included
}

func newWordComposer(plan *RenderPlan, opts Options) *wordComposer {
	return &wordComposer{
		plan:  plan,
		opts:  opts,
		brand: plan.BrandColor.OOXML(),
	}
}

// runStyle is the subset of run formatting the composer uses.
type runStyle struct {
	bold   bool
	italic bool
	color  string
	size   int // half-points
	shade  string
}

func (s runStyle) xml() *runPropsXML {
	if s == (runStyle{}) {
		return nil
	}
	rp := &runPropsXML{}
	if s.bold {
		rp.Bold = &struct{}{}
	}
	if s.italic {
		rp.Italic = &struct{}{}
	}
	if s.color != "" {
		rp.Color = &valXML{Val: s.color}
	}
	if s.size > 0 {
		rp.Size = &valXML{Val: fmt.Sprintf("%d", s.size)}
	}
	if s.shade != "" {
		rp.Shading = &shadingXML{Val: "clear", Color: "auto", Fill: s.shade}
	}
	return rp
}

func textRun(s string, style runStyle) *runXML {
	return &runXML{Props: style.xml(), Text: &textXML{Space: "preserve", Value: s}}
}

func paragraph(props *paragraphPropsXML, content ...any) *paragraphXML {
	return &paragraphXML{Props: props, Content: content}
}

func styled(style string) *paragraphPropsXML {
	return &paragraphPropsXML{Style: &valXML{Val: style}}
}

func centered() *paragraphPropsXML {
	return &paragraphPropsXML{Justified: &valXML{Val: "center"}}
}

func pageBreak() *paragraphXML {
	return paragraph(nil, &runXML{Break: &breakXML{Type: "page"}})
}

// multiline turns text with newlines into runs separated by line breaks.
func multiline(s string, style runStyle) []any {
	var runs []any
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			runs = append(runs, &runXML{Break: &breakXML{}})
		}
		runs = append(runs, textRun(line, style))
	}
	return runs
}

func (w *wordComposer) add(items ...any) {
	w.content = append(w.content, items...)
}

// addCover writes the centered cover page and ends it with a page break.
func (w *wordComposer) addCover() {
	cv := w.plan.Cover
	for range 4 {
		w.add(paragraph(nil))
	}
	w.add(paragraph(centered(), textRun(cv.CompanyName, runStyle{bold: true, size: 56, color: w.brand})))
	w.add(paragraph(centered(), textRun(cv.Title, runStyle{bold: true, size: 40, color: colorText.OOXML()})))
	if cv.Subtitle != "" {
		w.add(paragraph(centered(), textRun(cv.Subtitle, runStyle{size: 28, color: colorMuted.OOXML()})))
	}
	for range 6 {
		w.add(paragraph(nil))
	}
	if cv.PreparedFor != "" {
		w.add(paragraph(centered(), textRun("Prepared for: "+cv.PreparedFor, runStyle{size: 24})))
	}
	if cv.PreparedBy != "" {
		w.add(paragraph(centered(), textRun("Prepared by: "+cv.PreparedBy, runStyle{size: 24})))
	}
	if !cv.PreparedDate.IsZero() {
		w.add(paragraph(centered(), textRun(cv.PreparedDate.Format(dateLayout), runStyle{size: 22, color: colorMuted.OOXML()})))
	}
	w.add(pageBreak())
}

// addHeader writes the plain title block used when there is no cover page.
func (w *wordComposer) addHeader() {
	w.add(paragraph(styled("Title"), textRun("Business Plan: "+w.plan.Title, runStyle{color: w.brand})))
	if w.plan.Organization != "" {
		w.add(paragraph(nil, textRun(w.plan.Organization, runStyle{size: 24})))
	}
	w.add(paragraph(nil, textRun(fmt.Sprintf("Version %d | %s", w.plan.Version, w.plan.Status), runStyle{italic: true, color: colorMuted.OOXML()})))
}

func (w *wordComposer) addDocumentInfo() {
	w.add(paragraph(styled("Heading2"), textRun("Document Information", runStyle{})))
	field := func(label, value string) {
		w.add(paragraph(nil,
			textRun(label+": ", runStyle{bold: true}),
			textRun(value, runStyle{}),
		))
	}
	field("Plan Type", w.plan.PlanType)
	if !w.plan.CreatedAt.IsZero() {
		field("Created", w.plan.CreatedAt.Format(dateLayout))
	}
	if w.plan.FinalizedAt != nil {
		field("Finalized", w.plan.FinalizedAt.Format(dateLayout))
	}
	if w.plan.Description != "" {
		field("Description", w.plan.Description)
	}
}

func (w *wordComposer) addTableOfContents() {
	w.add(paragraph(styled("Heading1"), textRun("Table of Contents", runStyle{})))
	for _, e := range w.plan.TableOfContents {
		w.add(paragraph(&paragraphPropsXML{Indent: &indentXML{Left: 360}},
			textRun(fmt.Sprintf("%d. %s", e.Number, e.Title), runStyle{}),
		))
	}
	w.add(pageBreak())
}

// addSection writes the heading, prose and visual blocks of a section. A
// section without prose or visuals keeps its heading.
func (w *wordComposer) addSection(s SectionPlan) {
	w.add(paragraph(styled("Heading1"), textRun(s.Title, runStyle{})))
	for _, para := range s.Paragraphs {
		w.add(paragraph(nil, multiline(para, runStyle{})...))
	}
	for _, b := range s.Blocks {
		w.addBlock(b)
	}
}

// addBlock writes one visual element, wrapped in a bookmark. A panic while
// building the body turns into the placeholder note.
func (w *wordComposer) addBlock(b VisualBlock) {
	w.bookmark++
	id := w.bookmark
	title := []any{&bookmarkStartXML{ID: id, Name: fmt.Sprintf("%s%d", docxBookmarkPrefix, id)}}
	props := &paragraphPropsXML{Spacing: &spacingXML{Before: 160, After: 80}}
	if b.Title != "" {
		props = styled("Heading3")
		title = append(title, textRun(b.Title, runStyle{}))
	}
	title = append(title, &bookmarkEndXML{ID: id})

	var body []any
	ok := recoverBlock(FormatWord, b, func() {
		body = w.blockBody(b)
	})
	if !ok {
		body = []any{w.notice(placeholderText(b.Type))}
	}

	w.blocks++
	w.add(paragraph(props, title...))
	w.add(body...)
}

func (w *wordComposer) blockBody(b VisualBlock) []any {
	switch body := b.Body.(type) {
	case GridBody:
		if t := w.table(body); t != nil {
			return []any{t}
		}
		return nil
	case SummaryBody:
		return []any{w.chart(body)}
	case CardRowBody:
		if len(body.Cards) == 0 {
			return nil
		}
		return []any{w.metrics(body)}
	case ListBody:
		return w.infographic(body)
	case NoticeBody:
		return []any{w.notice(body.Text)}
	}
	panic(fmt.Sprintf("unhandled block body %T", b.Body))
}

// table writes a bordered table with a shaded header, striped and
// highlighted rows and an optional footer.
func (w *wordComposer) table(g GridBody) *tableXML {
	cols := len(g.Columns)
	if cols == 0 {
		return nil
	}
	colWidth := w.textWidth() / cols

	t := &tableXML{
		Props: tablePropsXML{
			Width:   widthXML{W: docxTablePct, Type: "pct"},
			Borders: tableBorders("single", 4, colorBorder.OOXML()),
		},
	}
	for range cols {
		t.Grid.Cols = append(t.Grid.Cols, gridColXML{W: colWidth})
	}

	header := make([]GridCell, cols)
	for i, h := range g.Columns {
		header[i] = GridCell{Text: h, Bold: true, Span: 1}
	}
	t.Rows = append(t.Rows, w.tableRow(header, cols, colWidth, colorHeaderFill.OOXML()))

	for i, r := range g.Rows {
		fill := ""
		if i%2 == 1 {
			fill = colorStripe.OOXML()
		}
		if r.Highlighted {
			fill = colorHighlight.OOXML()
		}
		t.Rows = append(t.Rows, w.tableRow(r.Cells, cols, colWidth, fill))
	}
	if g.Footer != nil {
		t.Rows = append(t.Rows, w.tableRow(g.Footer.Cells, cols, colWidth, colorHeaderFill.OOXML()))
	}
	return t
}

// tableRow lays cells over cols grid columns, honouring colspan. Short rows
// are padded with empty cells and surplus cells dropped.
func (w *wordComposer) tableRow(cells []GridCell, cols, colWidth int, fill string) tableRowXML {
	var row tableRowXML
	pos := 0
	for _, c := range cells {
		if pos >= cols {
			break
		}
		span := min(max(c.Span, 1), cols-pos)
		pos += span

		var pp *paragraphPropsXML
		if c.Numeric {
			pp = &paragraphPropsXML{Justified: &valXML{Val: "right"}}
		}
		row.Cells = append(row.Cells, tableCellXML{
			Props:      cellProps(colWidth*span, span, fill),
			Paragraphs: []*paragraphXML{paragraph(pp, multiline(c.Text, runStyle{bold: c.Bold, size: 20})...)},
		})
	}
	for ; pos < cols; pos++ {
		row.Cells = append(row.Cells, tableCellXML{
			Props:      cellProps(colWidth, 1, fill),
			Paragraphs: []*paragraphXML{paragraph(nil)},
		})
	}
	return row
}

func cellProps(width, span int, fill string) *cellPropsXML {
	cp := &cellPropsXML{Width: &widthXML{W: width, Type: "dxa"}}
	if span > 1 {
		cp.GridSpan = &valXML{Val: fmt.Sprintf("%d", span)}
	}
	if fill != "" {
		cp.Shading = &shadingXML{Val: "clear", Color: "auto", Fill: fill}
	}
	return cp
}

func tableBorders(val string, size int, color string) *tableBordersXML {
	b := borderXML{Val: val, Size: size, Color: color}
	return &tableBordersXML{Top: b, Left: b, Bottom: b, Right: b, InsideH: b, InsideV: b}
}

// chart writes the shaded chart placeholder with the dataset count.
func (w *wordComposer) chart(s SummaryBody) *paragraphXML {
	props := centered()
	props.Shading = &shadingXML{Val: "clear", Color: "auto", Fill: colorChartFill.OOXML()}
	props.Spacing = &spacingXML{Before: 120, After: 120}
	return paragraph(props, textRun(
		fmt.Sprintf("[%s Chart - %d data series]", s.TypeLabel, len(s.Series)),
		runStyle{italic: true, color: colorMuted.OOXML()},
	))
}

// metrics writes the metric cards as a single-row table.
func (w *wordComposer) metrics(m CardRowBody) *tableXML {
	n := len(m.Cards)
	colWidth := w.textWidth() / n
	t := &tableXML{
		Props: tablePropsXML{
			Width:   widthXML{W: docxTablePct, Type: "pct"},
			Borders: tableBorders("single", 12, colorWhite.OOXML()),
		},
	}
	var row tableRowXML
	for _, card := range m.Cards {
		t.Grid.Cols = append(t.Grid.Cols, gridColXML{W: colWidth})
		paras := []*paragraphXML{
			paragraph(centered(), textRun(card.Label, runStyle{size: 18, color: colorMuted.OOXML()})),
			paragraph(centered(), textRun(card.Value, runStyle{bold: true, size: 32, color: colorText.OOXML()})),
		}
		if card.Trend != "" {
			paras = append(paras, paragraph(centered(), textRun(card.Trend, runStyle{size: 18, color: trendColor(card.Direction).OOXML()})))
		}
		row.Cells = append(row.Cells, tableCellXML{
			Props:      cellProps(colWidth, 1, colorPanel.OOXML()),
			Paragraphs: paras,
		})
	}
	t.Rows = []tableRowXML{row}
	return t
}

// infographic writes each item as a shaded number badge, a bold title and
// an indented description.
func (w *wordComposer) infographic(l ListBody) []any {
	badge := runStyle{bold: true, color: w.brand, shade: w.plan.BrandColor.Tint(0.8).OOXML()}
	var out []any
	for _, it := range l.Items {
		out = append(out, paragraph(&paragraphPropsXML{Spacing: &spacingXML{Before: 80, After: 40}},
			textRun(fmt.Sprintf(" %d ", it.Number), badge),
			textRun("  ", runStyle{}),
			textRun(it.Title, runStyle{bold: true}),
		))
		if it.Description != "" {
			out = append(out, paragraph(&paragraphPropsXML{Indent: &indentXML{Left: 567}},
				textRun(it.Description, runStyle{size: 20, color: colorMuted.OOXML()}),
			))
		}
	}
	return out
}

func (w *wordComposer) notice(msg string) *paragraphXML {
	return paragraph(nil, textRun(msg, runStyle{italic: true, size: 18, color: colorMuted.OOXML()}))
}

// pageSize returns the page width and height in twips.
func (w *wordComposer) pageSize() (int, int) {
	if w.opts.PageSize == "LETTER" {
		return 12240, 15840
	}
	return 11906, 16838
}

func (w *wordComposer) textWidth() int {
	width, _ := w.pageSize()
	return width - 2*docxMargin
}

// pack zips the document parts. [Content_Types].xml goes first so that
// content sniffers recognise the package.
func (w *wordComposer) pack() ([]byte, error) {
	width, height := w.pageSize()
	doc := documentXML{
		XmlnsW: nsW,
		XmlnsR: nsR,
		Body: bodyXML{
			Content: w.content,
			SectPr: &sectPrXML{
				FooterRef: footerRefXML{Type: "default", ID: docxFooterRelID},
				PgSz:      pgSzXML{W: width, H: height},
				PgMar: pgMarXML{
					Top: docxMargin, Right: docxMargin, Bottom: docxMargin, Left: docxMargin,
					Header: 708, Footer: 708,
				},
			},
		},
	}
	documentPart, err := marshalPart(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	footerPart, err := marshalPart(w.footer())
	if err != nil {
		return nil, fmt.Errorf("marshal footer: %w", err)
	}

	core := coreXML{
		XmlnsCP:  "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		XmlnsDC:  "http://purl.org/dc/elements/1.1/",
		XmlnsDCT: "http://purl.org/dc/terms/",
		XmlnsXSI: "http://www.w3.org/2001/XMLSchema-instance",
		Title:    w.plan.Title,
		Creator:  w.plan.Organization,
		Language: w.plan.Language,
	}
	if !w.plan.CreatedAt.IsZero() {
		core.Created = &w3cDate{Type: "dcterms:W3CDTF", Value: w.plan.CreatedAt.UTC().Format(time.RFC3339)}
	}
	corePart, err := marshalPart(core)
	if err != nil {
		return nil, fmt.Errorf("marshal core properties: %w", err)
	}

	styles := fmt.Sprintf(docxStyles, colorTitle.OOXML(), w.brand, colorHeading2.OOXML())

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRootRels)},
		{"word/document.xml", documentPart},
		{"word/_rels/document.xml.rels", []byte(docxDocumentRels)},
		{"word/styles.xml", []byte(styles)},
		{"word/footer1.xml", footerPart},
		{"docProps/core.xml", corePart},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	if w.bookmark != w.blocks {
		log.Printf("export_word: %d bookmarks for %d visual blocks", w.bookmark, w.blocks)
	}
	return buf.Bytes(), nil
}

// footer shows "current / total" using PAGE and NUMPAGES fields.
func (w *wordComposer) footer() footerXML {
	muted := runStyle{size: 16, color: colorMuted.OOXML()}
	field := func(instr string) *fldSimpleXML {
		return &fldSimpleXML{Instr: instr, Run: textRun("1", muted)}
	}
	props := &paragraphPropsXML{Justified: &valXML{Val: "right"}}
	return footerXML{
		XmlnsW:    nsW,
		Paragraph: paragraph(props, field("PAGE"), textRun(" / ", muted), field("NUMPAGES")),
	}
}

func marshalPart(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

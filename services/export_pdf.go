package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"planexport/visuals"
)

const (
	pdfMargin   = 20.0 // mm
	pdfGrid     = 12
	pdfBodySize = 11.0
	// Prose is cut into rows of at most this many lines so no row is taller
	// than a page.
	pdfMaxLinesPerRow = 25
	dateLayout        = "January 02, 2006"
)

// PDFGenerator renders the paginated document.
type PDFGenerator struct {
	opts Options
}

// NewPDFGenerator returns a PDF generator using opts.
func NewPDFGenerator(opts Options) *PDFGenerator {
	return &PDFGenerator{opts: opts.withDefaults()}
}

func (g *PDFGenerator) Format() string        { return FormatPDF }
func (g *PDFGenerator) ContentType() string   { return "application/pdf" }
func (g *PDFGenerator) FileExtension() string { return ".pdf" }

// Generate creates the PDF document using maroto/v2.
func (g *PDFGenerator) Generate(ctx context.Context, data *ExportData, language string) ([]byte, error) {
	return runGenerator(ctx, FormatPDF, func() ([]byte, error) {
		return GeneratePDF(ctx, ResolvePlan(data, language, g.opts), g.opts)
	})
}

// GeneratePDF lays out a resolved plan: cover page, header and document
// information, table of contents and sections. It returns the raw PDF bytes.
func GeneratePDF(ctx context.Context, plan *RenderPlan, opts Options) ([]byte, error) {
	c := newPDFComposer(plan, opts.withDefaults())
	m := maroto.New(c.config())

	// --- Cover page, alone on the first page ---
	if plan.Cover != nil {
		m.AddPages(page.New().Add(c.coverRows()...))
	}

	// --- Header and document information ---
	var front []core.Row
	if plan.Cover == nil {
		front = append(front, c.headerRows()...)
	}
	front = append(front, c.documentInfoRows()...)

	// --- Table of contents, followed by a page break ---
	if plan.TableOfContents != nil {
		m.AddPages(page.New().Add(append(front, c.tocRows()...)...))
		front = nil
	}

	// --- Sections ---
	body := front
	for _, s := range plan.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body = append(body, c.sectionRows(s)...)
	}
	if len(body) > 0 {
		m.AddPages(page.New().Add(body...))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

type pdfComposer struct {
	plan   *RenderPlan
	opts   Options
	width  float64 // printable width in mm
	brand  *props.Color
	blocks int // visual blocks emitted, placeholders included
}

func newPDFComposer(plan *RenderPlan, opts Options) *pdfComposer {
	width := 210.0
	if opts.PageSize == "LETTER" {
		width = 215.9
	}
	return &pdfComposer{
		plan:  plan,
		opts:  opts,
		width: width - 2*pdfMargin,
		brand: pdfColor(plan.BrandColor),
	}
}

func (c *pdfComposer) config() *entity.Config {
	size := pagesize.A4
	if c.opts.PageSize == "LETTER" {
		size = pagesize.Letter
	}
	b := config.NewBuilder().
		WithPageSize(size).
		WithLeftMargin(pdfMargin).
		WithTopMargin(pdfMargin).
		WithRightMargin(pdfMargin).
		WithTitle(c.plan.Title, true).
		WithPageNumber(props.PageNumber{
			Pattern: c.opts.PageNumberPattern,
			Place:   props.RightBottom,
			Size:    8,
			Color:   pdfColor(colorMuted),
		})
	if c.plan.Organization != "" {
		b = b.WithAuthor(c.plan.Organization, true)
	}
	if !c.plan.CreatedAt.IsZero() {
		b = b.WithCreationDate(c.plan.CreatedAt)
	}
	return b.Build()
}

// coverRows builds the cover page: logo, company name in the brand color,
// title, subtitle, prepared for/by and the date.
func (c *pdfComposer) coverRows() []core.Row {
	cv := c.plan.Cover
	rows := []core.Row{row.New(40)}

	if logo := cv.resolveLogo(); logo != nil {
		rows = append(rows,
			row.New(35).Add(
				col.New(pdfGrid).Add(
					image.NewFromBytes(logo.PNG, extension.Png, props.Rect{Center: true, Percent: 100}),
				),
			),
			row.New(8),
		)
	}

	rows = append(rows, c.textRow(cv.CompanyName, props.Text{
		Size:  28,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: c.brand,
	}, pdfGrid))
	rows = append(rows, row.New(6))
	rows = append(rows, c.textRow(cv.Title, props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: pdfColor(colorText),
	}, pdfGrid))
	if cv.Subtitle != "" {
		rows = append(rows, c.textRow(cv.Subtitle, props.Text{
			Size:  14,
			Align: align.Center,
			Color: pdfColor(colorMuted),
		}, pdfGrid))
	}

	rows = append(rows, row.New(30))
	meta := props.Text{Size: 12, Align: align.Center, Color: pdfColor(colorText)}
	if cv.PreparedFor != "" {
		rows = append(rows, c.textRow("Prepared for: "+cv.PreparedFor, meta, pdfGrid))
	}
	if cv.PreparedBy != "" {
		rows = append(rows, c.textRow("Prepared by: "+cv.PreparedBy, meta, pdfGrid))
	}
	if !cv.PreparedDate.IsZero() {
		rows = append(rows, c.textRow(cv.PreparedDate.Format(dateLayout), props.Text{
			Size:  11,
			Align: align.Center,
			Color: pdfColor(colorMuted),
		}, pdfGrid))
	}
	return rows
}

// headerRows is the plain header printed when there is no cover page.
func (c *pdfComposer) headerRows() []core.Row {
	rows := []core.Row{
		c.textRow("Business Plan: "+c.plan.Title, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Color: c.brand,
		}, pdfGrid),
	}
	if c.plan.Organization != "" {
		rows = append(rows, c.textRow(c.plan.Organization, props.Text{
			Size:  11,
			Color: pdfColor(colorText),
		}, pdfGrid))
	}
	rows = append(rows,
		c.textRow(fmt.Sprintf("Version %d | %s", c.plan.Version, c.plan.Status), props.Text{
			Size:  9,
			Color: pdfColor(colorMuted),
		}, pdfGrid),
		row.New(4),
	)
	return rows
}

// documentInfoRows is the shaded plan type / dates / description block.
func (c *pdfComposer) documentInfoRows() []core.Row {
	panel := &props.Cell{BackgroundColor: pdfColor(colorPanel)}
	rows := []core.Row{
		row.New(8).Add(
			col.New(pdfGrid).Add(
				text.New("Document Information", props.Text{
					Top:   2,
					Left:  2,
					Size:  11,
					Style: fontstyle.Bold,
				}),
			).WithStyle(panel),
		),
	}

	pairs := [][2]string{{"Plan Type", c.plan.PlanType}}
	if !c.plan.CreatedAt.IsZero() {
		pairs = append(pairs, [2]string{"Created", c.plan.CreatedAt.Format(dateLayout)})
	}
	if c.plan.FinalizedAt != nil {
		pairs = append(pairs, [2]string{"Finalized", c.plan.FinalizedAt.Format(dateLayout)})
	}
	if c.plan.Description != "" {
		pairs = append(pairs, [2]string{"Description", c.plan.Description})
	}

	for _, p := range pairs {
		value := props.Text{Top: 1, Size: 9}
		h := c.textHeight(p[1], value, 9)
		rows = append(rows, row.New(h).Add(
			col.New(3).Add(text.New(p[0], props.Text{Top: 1, Left: 2, Size: 9, Style: fontstyle.Bold})).WithStyle(panel),
			col.New(9).Add(text.New(p[1], value)).WithStyle(panel),
		))
	}
	return append(rows, row.New(6))
}

// tocRows lists the numbered section titles.
func (c *pdfComposer) tocRows() []core.Row {
	rows := []core.Row{
		row.New(14).Add(
			col.New(pdfGrid).Add(
				text.New("Table of Contents", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Color: c.brand,
				}),
			),
		),
	}
	for _, e := range c.plan.TableOfContents {
		rows = append(rows, c.textRow(fmt.Sprintf("%d. %s", e.Number, e.Title), props.Text{
			Left: 4,
			Size: pdfBodySize,
		}, pdfGrid))
	}
	return rows
}

// sectionRows renders the heading, prose and visual blocks of a section.
// A section with neither prose nor visuals still gets its heading.
func (c *pdfComposer) sectionRows(s SectionPlan) []core.Row {
	rows := []core.Row{
		c.textRow(s.Title, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Color: c.brand,
		}, pdfGrid),
		row.New(2),
	}

	prose := props.Text{Size: pdfBodySize, Align: align.Left, Color: pdfColor(colorText)}
	for _, para := range s.Paragraphs {
		for _, line := range strings.Split(para, "\n") {
			rows = append(rows, c.proseRows(line, prose)...)
		}
		rows = append(rows, row.New(3))
	}

	for _, b := range s.Blocks {
		var blockRows []core.Row
		ok := recoverBlock(FormatPDF, b, func() {
			blockRows = c.blockRows(b)
		})
		if !ok {
			blockRows = c.noticeRows(placeholderText(b.Type))
		}
		c.blocks++
		rows = append(rows, blockRows...)
	}

	return append(rows, row.New(6))
}

// blockRows renders one visual element: optional title, then its body.
func (c *pdfComposer) blockRows(b VisualBlock) []core.Row {
	rows := []core.Row{row.New(3)}
	if b.Title != "" {
		rows = append(rows, c.textRow(b.Title, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Color: pdfColor(colorText),
		}, pdfGrid))
	}

	switch body := b.Body.(type) {
	case GridBody:
		rows = append(rows, c.gridRows(body)...)
	case SummaryBody:
		rows = append(rows, c.summaryRows(body))
	case CardRowBody:
		rows = append(rows, c.cardRows(body)...)
	case ListBody:
		rows = append(rows, c.listRows(body)...)
	case NoticeBody:
		rows = append(rows, c.noticeRows(body.Text)...)
	default:
		panic(fmt.Sprintf("unhandled block body %T", b.Body))
	}
	return append(rows, row.New(3))
}

// gridRows draws a table: shaded bold header, alternating rows, highlighted
// rows and an optional bold footer. Tables wider than the page grid continue
// below as further column groups, each with its own header.
func (c *pdfComposer) gridRows(g GridBody) []core.Row {
	total := len(g.Columns)
	if total == 0 {
		return nil
	}

	var rows []core.Row
	for lo := 0; lo < total; lo += pdfGrid {
		hi := min(lo+pdfGrid, total)
		if lo > 0 {
			rows = append(rows, row.New(3))
		}
		widths := splitGrid(pdfGrid, hi-lo)

		header := make([]GridCell, 0, hi-lo)
		for _, name := range g.Columns[lo:hi] {
			header = append(header, GridCell{Text: name, Bold: true, Span: 1})
		}
		rows = append(rows, c.gridRow(header, widths, colorHeaderFill))

		for i, r := range g.Rows {
			fill := colorWhite
			if i%2 == 1 {
				fill = colorStripe
			}
			if r.Highlighted {
				fill = colorHighlight
			}
			rows = append(rows, c.gridRow(columnGroup(r.Cells, lo, hi), widths, fill))
		}
		if g.Footer != nil {
			rows = append(rows, c.gridRow(columnGroup(g.Footer.Cells, lo, hi), widths, colorHeaderFill))
		}
	}
	return rows
}

// columnGroup returns the cells covering columns [lo, hi). A cell spanning
// into the group from the left keeps its place as an empty cell.
func columnGroup(cells []GridCell, lo, hi int) []GridCell {
	var out []GridCell
	pos := 0
	for _, cell := range cells {
		span := max(cell.Span, 1)
		start, end := max(pos, lo), min(pos+span, hi)
		if start < end {
			part := cell
			part.Span = end - start
			if pos < lo {
				part.Text = ""
			}
			out = append(out, part)
		}
		pos += span
		if pos >= hi {
			break
		}
	}
	return out
}

// gridRow lays cells over the column widths, honouring colspan. Missing
// cells are padded, surplus cells dropped.
func (c *pdfComposer) gridRow(cells []GridCell, widths []int, fill Color) core.Row {
	style := &props.Cell{
		BackgroundColor: pdfColor(fill),
		BorderType:      border.Full,
		BorderColor:     pdfColor(colorBorder),
		BorderThickness: 0.2,
	}

	var cols []core.Col
	height := 7.0
	pos := 0
	for _, cell := range cells {
		if pos >= len(widths) {
			break
		}
		span := min(max(cell.Span, 1), len(widths)-pos)
		size := 0
		for _, w := range widths[pos : pos+span] {
			size += w
		}
		pos += span

		tp := props.Text{Top: 1.5, Left: 1.5, Size: 9, Color: pdfColor(colorText)}
		if cell.Bold {
			tp.Style = fontstyle.Bold
		}
		if cell.Numeric {
			tp.Align = align.Right
		}
		height = max(height, c.textHeight(cell.Text, tp, size))
		cols = append(cols, col.New(size).Add(text.New(cell.Text, tp)).WithStyle(style))
	}
	for ; pos < len(widths); pos++ {
		cols = append(cols, col.New(widths[pos]).WithStyle(style))
	}
	return row.New(height).Add(cols...)
}

// summaryRows draws the chart placeholder: a bordered box with the chart
// type and the totals of the first few datasets.
func (c *pdfComposer) summaryRows(s SummaryBody) core.Row {
	series := s.Top(c.opts.MaxChartSeries)
	components := []core.Component{
		text.New(s.Heading, props.Text{
			Top:   3,
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: pdfColor(colorMuted),
		}),
	}
	for i, st := range series {
		components = append(components, text.New(fmt.Sprintf("- %s: Total %s", st.Label, st.Text), props.Text{
			Top:   10 + float64(i)*6,
			Size:  10,
			Align: align.Center,
			Color: pdfColor(colorText),
		}))
	}
	return row.New(14 + float64(len(series))*6).Add(
		col.New(pdfGrid).Add(components...).WithStyle(&props.Cell{
			BackgroundColor: pdfColor(colorChartFill),
			BorderType:      border.Full,
			BorderColor:     pdfColor(colorBorder),
			BorderThickness: 0.3,
		}),
	)
}

// cardRows draws metrics as cards: muted label, large bold value and a
// trend line colored by direction.
func (c *pdfComposer) cardRows(m CardRowBody) []core.Row {
	if len(m.Cards) == 0 {
		return nil
	}
	widths := splitGrid(pdfGrid, len(m.Cards))
	style := &props.Cell{
		BackgroundColor: pdfColor(colorPanel),
		BorderType:      border.Full,
		BorderColor:     pdfColor(colorWhite),
		BorderThickness: 1.5,
	}

	var cols []core.Col
	for i, card := range m.Cards {
		components := []core.Component{
			text.New(card.Label, props.Text{Top: 2.5, Size: 9, Align: align.Center, Color: pdfColor(colorMuted)}),
			text.New(card.Value, props.Text{Top: 8, Size: 16, Style: fontstyle.Bold, Align: align.Center, Color: pdfColor(colorText)}),
		}
		if card.Trend != "" {
			components = append(components, text.New(card.Trend, props.Text{
				Top:   17.5,
				Size:  9,
				Align: align.Center,
				Color: pdfColor(trendColor(card.Direction)),
			}))
		}
		cols = append(cols, col.New(widths[i]).Add(components...).WithStyle(style))
	}
	return []core.Row{row.New(25).Add(cols...)}
}

// listRows draws infographic items as a numbered badge beside a bold title
// and optional description.
func (c *pdfComposer) listRows(l ListBody) []core.Row {
	badge := &props.Cell{BackgroundColor: pdfColor(c.plan.BrandColor.Tint(0.8))}
	desc := props.Text{Top: 7, Left: 2, Size: 9, Color: pdfColor(colorMuted)}

	var rows []core.Row
	for _, it := range l.Items {
		height := 10.0
		if it.Description != "" {
			height = max(height, 6+c.textHeight(it.Description, desc, pdfGrid-1))
		}
		body := col.New(pdfGrid-1).Add(
			text.New(it.Title, props.Text{Top: 1.5, Left: 2, Size: 11, Style: fontstyle.Bold, Color: pdfColor(colorText)}),
		)
		if it.Description != "" {
			body = body.Add(text.New(it.Description, desc))
		}
		rows = append(rows,
			row.New(height).Add(
				col.New(1).Add(
					text.New(fmt.Sprintf("%d", it.Number), props.Text{
						Top:   2,
						Size:  11,
						Style: fontstyle.Bold,
						Align: align.Center,
						Color: c.brand,
					}),
				).WithStyle(badge),
				body,
			),
			row.New(2),
		)
	}
	return rows
}

// noticeRows is the muted bracketed line for an element that could not
// be rendered.
func (c *pdfComposer) noticeRows(msg string) []core.Row {
	return []core.Row{
		c.textRow(msg, props.Text{
			Size:  9,
			Style: fontstyle.Italic,
			Color: pdfColor(colorMuted),
		}, pdfGrid),
	}
}

// proseRows wraps a line of prose and cuts it into rows short enough to
// fit on a page.
func (c *pdfComposer) proseRows(s string, tp props.Text) []core.Row {
	lines := wrapText(s, c.charsPerLine(tp.Size, pdfGrid))
	var rows []core.Row
	for start := 0; start < len(lines); start += pdfMaxLinesPerRow {
		end := min(start+pdfMaxLinesPerRow, len(lines))
		chunk := strings.Join(lines[start:end], " ")
		rows = append(rows, row.New(c.linesHeight(end-start, tp)).Add(
			col.New(pdfGrid).Add(text.New(chunk, tp)),
		))
	}
	return rows
}

// textRow is a single full or partial width text row sized to its content.
func (c *pdfComposer) textRow(s string, tp props.Text, size int) core.Row {
	return row.New(c.textHeight(s, tp, size)).Add(col.New(size).Add(text.New(s, tp)))
}

// textHeight estimates the row height needed for s in a column of size
// grid units.
func (c *pdfComposer) textHeight(s string, tp props.Text, size int) float64 {
	lines := len(wrapText(s, c.charsPerLine(tp.Size, size)))
	return tp.Top + c.linesHeight(max(lines, 1), tp)
}

func (c *pdfComposer) linesHeight(lines int, tp props.Text) float64 {
	return float64(lines)*fontLineHeight(tp.Size) + 2
}

// charsPerLine is a conservative estimate of how many characters of the
// given point size fit into size grid units.
func (c *pdfComposer) charsPerLine(fontSize float64, size int) int {
	colWidth := c.width*float64(size)/pdfGrid - 3
	charWidth := fontSize * ptToMM * 0.55
	return max(int(colWidth/charWidth), 8)
}

const ptToMM = 0.3528

func fontLineHeight(size float64) float64 {
	return size * ptToMM * 1.3
}

// wrapText greedily breaks s into lines of at most perLine characters.
// Words longer than a line are kept whole.
func wrapText(s string, perLine int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > perLine {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}

// splitGrid divides total grid units between n columns, giving the
// remainder to the leftmost columns.
func splitGrid(total, n int) []int {
	widths := make([]int, n)
	for i := range widths {
		widths[i] = total / n
		if i < total%n {
			widths[i]++
		}
	}
	return widths
}

func trendColor(d visuals.TrendDirection) Color {
	switch d {
	case visuals.TrendUp:
		return colorTrendUp
	case visuals.TrendDown:
		return colorTrendDown
	}
	return colorMuted
}

func pdfColor(c Color) *props.Color {
	return &props.Color{Red: int(c.R), Green: int(c.G), Blue: int(c.B)}
}

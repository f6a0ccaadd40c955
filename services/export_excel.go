package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	summarySheetName = "Summary"
	contentSheetName = "Content"
	xlsxDateLayout   = "2006-01-02"
)

// ExcelGenerator projects the plan into a two-sheet workbook. Visual
// elements are not rendered.
type ExcelGenerator struct {
	opts Options
}

// NewExcelGenerator returns an Excel generator using opts.
func NewExcelGenerator(opts Options) *ExcelGenerator {
	return &ExcelGenerator{opts: opts.withDefaults()}
}

func (g *ExcelGenerator) Format() string        { return FormatExcel }
func (g *ExcelGenerator) ContentType() string   { return xlsxContentType }
func (g *ExcelGenerator) FileExtension() string { return ".xlsx" }

// Generate creates the workbook.
func (g *ExcelGenerator) Generate(ctx context.Context, data *ExportData, language string) ([]byte, error) {
	return runGenerator(ctx, FormatExcel, func() ([]byte, error) {
		// Visual payloads are never decoded for the workbook.
		textOnly := *data
		off := false
		textOnly.IncludeVisuals = &off
		return GenerateExcel(ctx, ResolvePlan(&textOnly, language, g.opts))
	})
}

// GenerateExcel creates a workbook with a Summary sheet and a Content sheet
// from the given plan and returns the file contents as a byte slice.
func GenerateExcel(ctx context.Context, plan *RenderPlan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename default sheet.
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, summarySheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(contentSheetName); err != nil {
		return nil, fmt.Errorf("create content sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f, plan.BrandColor)
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, plan, styles); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeContentSheet(f, plan, styles); err != nil {
		return nil, err
	}

	props := &excelize.DocProperties{
		Title:    plan.Title,
		Creator:  plan.Organization,
		Language: plan.Language,
		Version:  fmt.Sprintf("%d", plan.Version),
	}
	if !plan.CreatedAt.IsZero() {
		props.Created = plan.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		props.Modified = props.Created
	}
	if err := f.SetDocProps(props); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

type workbookStyles struct {
	title   int
	header  int
	label   int
	value   int
	content int
}

func newWorkbookStyles(f *excelize.File, brand Color) (workbookStyles, error) {
	var s workbookStyles
	var err error

	// Title style: bold, 16pt, brand color.
	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: brand.Hex()},
	})
	if err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}

	// Column header style: bold, white text on brand color.
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{brand.Hex()},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	s.label, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create label style: %w", err)
	}

	s.value, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create value style: %w", err)
	}

	// Content cells wrap and align to the top.
	s.content, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return s, fmt.Errorf("create content style: %w", err)
	}
	return s, nil
}

// sheetWriter places values at (column index, row) on one sheet.
type sheetWriter struct {
	f     *excelize.File
	sheet string
}

func (w sheetWriter) set(col, row int, value any, style int) error {
	cell := cellRef(col, row)
	if s, ok := value.(string); ok {
		value = sanitizeExcelCell(s)
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		return fmt.Errorf("set %s!%s: %w", w.sheet, cell, err)
	}
	if style != 0 {
		if err := w.f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			return fmt.Errorf("style %s!%s: %w", w.sheet, cell, err)
		}
	}
	return nil
}

func (w sheetWriter) pair(row int, label, value string, s workbookStyles) error {
	if err := w.set(0, row, label, s.label); err != nil {
		return err
	}
	return w.set(1, row, value, s.value)
}

// writeSummarySheet lays out the title, a Property/Value table and the
// section overview.
func writeSummarySheet(f *excelize.File, plan *RenderPlan, s workbookStyles) error {
	w := sheetWriter{f: f, sheet: summarySheetName}

	for i, width := range []float64{24, 60} {
		col := columnLetter(i)
		if err := f.SetColWidth(w.sheet, col, col, width); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	row := 1
	if err := w.set(0, row, "Business Plan Summary", s.title); err != nil {
		return err
	}
	row += 2

	if err := w.set(0, row, "Property", s.header); err != nil {
		return err
	}
	if err := w.set(1, row, "Value", s.header); err != nil {
		return err
	}
	row++

	props := [][2]string{
		{"Title", plan.Title},
		{"Organization", plan.Organization},
		{"Plan Type", plan.PlanType},
		{"Status", plan.Status},
		{"Version", fmt.Sprintf("%d", plan.Version)},
		{"Created", plan.CreatedAt.Format(xlsxDateLayout)},
	}
	if plan.FinalizedAt != nil {
		props = append(props, [2]string{"Finalized", plan.FinalizedAt.Format(xlsxDateLayout)})
	}
	if plan.Description != "" {
		props = append(props, [2]string{"Description", plan.Description})
	}
	for _, p := range props {
		if err := w.pair(row, p[0], p[1], s); err != nil {
			return err
		}
		row++
	}
	row++

	if err := w.set(0, row, "Sections Overview", s.title); err != nil {
		return err
	}
	row++
	if err := w.set(0, row, "Section", s.header); err != nil {
		return err
	}
	if err := w.set(1, row, "Has Content", s.header); err != nil {
		return err
	}
	row++

	for _, sec := range plan.Sections {
		if err := w.pair(row, sec.Title, "Yes", s); err != nil {
			return err
		}
		row++
	}
	return nil
}

// writeContentSheet writes a Section/Content header, a blank row, then one
// row per section followed by a blank spacer row.
func writeContentSheet(f *excelize.File, plan *RenderPlan, s workbookStyles) error {
	w := sheetWriter{f: f, sheet: contentSheetName}

	for i, width := range []float64{30, 100} {
		col := columnLetter(i)
		if err := f.SetColWidth(w.sheet, col, col, width); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	if err := w.set(0, 1, "Section", s.header); err != nil {
		return err
	}
	if err := w.set(1, 1, "Content", s.header); err != nil {
		return err
	}

	row := 3
	for _, sec := range plan.Sections {
		if err := w.set(0, row, sec.Title, s.label); err != nil {
			return err
		}
		if n := utf8.RuneCountInString(sec.Content); n > excelize.TotalCellChars {
			log.Printf("export_excel: section %q has %d characters, the cell keeps the first %d",
				sec.Title, n, excelize.TotalCellChars)
		}
		if err := w.set(1, row, sec.Content, s.content); err != nil {
			return err
		}
		row += 2
	}
	return nil
}

// columnLetter converts a zero-based column index to its spreadsheet letter
// (0 -> A, 25 -> Z, 26 -> AA).
func columnLetter(index int) string {
	name, err := excelize.ColumnNumberToName(index + 1)
	if err != nil {
		return "A"
	}
	return name
}

// cellRef returns the A1-style reference for a zero-based column and a
// one-based row.
func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

package services

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateExcel_ThreeSections(t *testing.T) {
	plan := ResolvePlan(threeSectionData(), "fr", DefaultOptions())

	result, err := GenerateExcel(context.Background(), plan)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateExcel() returned empty bytes")
	}

	// Verify it's a valid Excel file
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Summary" || sheets[1] != "Content" {
		t.Fatalf("sheets = %v, want [Summary Content]", sheets)
	}

	// Content: header, blank, then title/content and a spacer per section.
	cells := map[string]string{
		"A1": "Section",
		"B1": "Content",
		"A2": "",
		"A3": "Executive Summary",
		"B3": "We bake bread.",
		"A4": "",
		"A5": "Market",
		"B5": "'=Neighbourhood demand",
		"A6": "",
		"A7": "Team",
		"B7": "",
		"A8": "",
	}
	for ref, want := range cells {
		got, _ := f.GetCellValue("Content", ref)
		if got != want {
			t.Errorf("Content!%s = %q, want %q", ref, got, want)
		}
	}

	rows, err := f.GetRows("Content")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	// The trailing spacer row is blank, so the last populated row is 7.
	if len(rows) != 7 {
		t.Errorf("Content has %d populated rows, want 7", len(rows))
	}
}

func TestGenerateExcel_SummarySheet(t *testing.T) {
	plan := ResolvePlan(threeSectionData(), "fr", DefaultOptions())

	result, err := GenerateExcel(context.Background(), plan)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	// No finalized date or description: the property table ends at row 9.
	cells := map[string]string{
		"A1":  "Business Plan Summary",
		"A3":  "Property",
		"B3":  "Value",
		"A4":  "Title",
		"B4":  "Bakery Plan",
		"B5":  "Le Fournil",
		"B8":  "2",
		"A9":  "Created",
		"B9":  "2025-01-15",
		"A11": "Sections Overview",
		"A12": "Section",
		"B12": "Has Content",
		"A13": "Executive Summary",
		"B13": "Yes",
		"A15": "Team",
		"B15": "Yes",
	}
	for ref, want := range cells {
		got, _ := f.GetCellValue("Summary", ref)
		if got != want {
			t.Errorf("Summary!%s = %q, want %q", ref, got, want)
		}
	}
}

func TestExcelGenerator_IgnoresVisuals(t *testing.T) {
	g := NewExcelGenerator(DefaultOptions())
	result, err := g.Generate(context.Background(), visualData(), "en")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	// Sections come out in Order: Highlights (1) then Numbers (2).
	first, _ := f.GetCellValue("Content", "A3")
	second, _ := f.GetCellValue("Content", "A5")
	if first != "Highlights" || second != "Numbers" {
		t.Errorf("section order = %q, %q, want Highlights, Numbers", first, second)
	}
	raw, _ := f.GetCellValue("Content", "B5")
	if raw != "<p>Figures for the <em>first</em> year.</p>" {
		t.Errorf("content cell = %q, want the raw prose", raw)
	}
}

func TestGenerateExcel_WarnsOnCellLimit(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	plan := ResolvePlan(threeSectionData(), "fr", DefaultOptions())
	plan.Sections[0].Content = strings.Repeat("a", 40000)

	result, err := GenerateExcel(context.Background(), plan)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if !strings.Contains(logs.String(), "has 40000 characters, the cell keeps the first 32767") {
		t.Errorf("no truncation warning logged, got %q", logs.String())
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	got, err := f.GetCellValue("Content", "B3")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if len(got) != excelize.TotalCellChars {
		t.Errorf("stored %d characters, want %d", len(got), excelize.TotalCellChars)
	}
}

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}

	for _, tt := range tests {
		got := columnLetter(tt.index)
		if got != tt.want {
			t.Errorf("columnLetter(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
	if got := cellRef(27, 4); got != "AB4" {
		t.Errorf("cellRef(27, 4) = %q, want AB4", got)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"normal text", "Hello", "Hello"},
		{"starts with equals", "=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"starts with plus", "+1234", "'+1234"},
		{"starts with minus", "-100", "'-100"},
		{"starts with at", "@import", "'@import"},
		{"starts with tab", "\tdata", "'\tdata"},
		{"starts with pipe", "|command", "'|command"},
		{"starts with carriage return", "\rdata", "'\rdata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeExcelCell(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestThinBorders(t *testing.T) {
	borders := thinBorders()
	if len(borders) != 4 {
		t.Errorf("thinBorders() returned %d borders, want 4", len(borders))
	}

	sides := map[string]bool{"left": false, "top": false, "bottom": false, "right": false}
	for _, b := range borders {
		sides[b.Type] = true
		if b.Style != 1 {
			t.Errorf("border %s style = %d, want 1 (thin)", b.Type, b.Style)
		}
	}
	for side, found := range sides {
		if !found {
			t.Errorf("missing border side: %s", side)
		}
	}
}

// Package testhelpers provides sample export documents shared by tests.
package testhelpers

import (
	"testing"
	"time"

	"planexport/services"
	"planexport/visuals"
)

// CreatedAt is the creation time of every sample document.
var CreatedAt = time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// SampleDocument returns a document with a cover page and the sections of
// SampleVisualSections.
func SampleDocument(t *testing.T) *services.ExportData {
	t.Helper()

	finalized := CreatedAt.Add(72 * time.Hour)
	return &services.ExportData{
		PlanID:           "plan-001",
		Title:            "Coffee Roastery Expansion",
		OrganizationName: "Brûlerie du Port",
		PlanType:         "BusinessPlan",
		Status:           "Finalized",
		Version:          3,
		Description:      "Three year plan for a second roasting site.",
		CreatedAt:        CreatedAt,
		FinalizedAt:      &finalized,
		CoverPage: &services.CoverPage{
			CompanyName:  "Brûlerie du Port",
			Subtitle:     "Investor edition",
			PrimaryColor: "#8B4513",
			PreparedFor:  "Board of Directors",
			PreparedBy:   "Finance team",
		},
		SectionsWithVisuals: SampleVisualSections(),
	}
}

// SampleVisualSections returns three sections out of order, carrying one
// element of each known type plus one unknown and one broken element.
func SampleVisualSections() []services.VisualSection {
	return []services.VisualSection{
		{
			SectionKey: "financial-projections",
			Title:      "Financial Projections",
			Order:      3,
			Content:    "<p>Revenue grows <strong>steadily</strong> over three years.</p>",
			VisualElements: []visuals.Element{
				{
					ID:    "fin-table",
					Type:  visuals.TypeTable,
					Title: "Income Statement",
					Data: &visuals.TableData{
						TableType: visuals.TableFinancial,
						Headers:   []string{"Line", "Year 1", "Year 2", "Year 3"},
						Rows: []visuals.TableRow{
							{Cells: []visuals.TableCell{{Value: "Revenue"}, {Value: 120000}, {Value: 180000}, {Value: 250000}}},
							{Cells: []visuals.TableCell{{Value: "Costs"}, {Value: 90000}, {Value: 120000}, {Value: 150000}}},
							{Cells: []visuals.TableCell{{Value: "Net", Format: "bold"}, {Value: 30000}, {Value: 60000}, {Value: 100000}}, IsHighlighted: true},
						},
						Footer: &visuals.TableRow{Cells: []visuals.TableCell{{Value: "Total", Colspan: IntPtr(3)}, {Value: 190000}}},
					},
				},
				{
					ID:   "fin-chart",
					Type: visuals.TypeChart,
					Data: map[string]any{
						"chartType": "bar",
						"title":     "Revenue by year",
						"labels":    []any{"Y1", "Y2", "Y3"},
						"datasets": []any{
							map[string]any{"label": "Revenue", "data": []any{120000, 180000, 250000}},
							map[string]any{"label": "Costs", "data": []any{90000, 120000, 150000}},
						},
					},
				},
				{
					ID:   "broken-chart",
					Type: visuals.TypeChart,
					Data: "not-a-chart-object",
				},
			},
		},
		{
			SectionKey: "executive-summary",
			Title:      "Executive Summary",
			Order:      1,
			Content:    "We roast specialty coffee.\n\nWe plan to open a second site.",
			VisualElements: []visuals.Element{
				{
					ID:   "kpis",
					Type: visuals.TypeMetric,
					Data: map[string]any{
						"metrics": []any{
							map[string]any{"label": "Gross margin", "value": 0.1562, "format": "percentage", "trend": "up", "trendValue": "+2.1%"},
							map[string]any{"label": "Funding", "value": 2500, "format": "currency"},
							map[string]any{"label": "Customers", "value": 2500.7, "format": "number", "trend": "down", "trendValue": "-3%"},
						},
					},
				},
			},
		},
		{
			SectionKey: "operations",
			Title:      "Operations",
			Order:      2,
			VisualElements: []visuals.Element{
				{
					ID:   "steps",
					Type: visuals.TypeInfographic,
					Data: &visuals.InfographicData{
						InfographicType: visuals.InfographicProcessFlow,
						Items: []visuals.InfographicItem{
							{Title: "Source", Order: IntPtr(2)},
							{Title: "Roast"},
							{Title: "Ship", Description: "Next-day delivery", Order: IntPtr(3)},
							{Title: "Cup"},
						},
					},
				},
				{
					ID:   "mystery",
					Type: visuals.Type("gauge"),
					Data: map[string]any{"value": 3},
				},
			},
		},
	}
}

// LegacyDocument returns a document using the flat section list with no
// cover page.
func LegacyDocument(t *testing.T) *services.ExportData {
	t.Helper()

	return &services.ExportData{
		PlanID:           "plan-legacy",
		Title:            "Legacy Plan",
		OrganizationName: "Acme",
		PlanType:         "StrategicPlan",
		Status:           "Draft",
		Version:          1,
		CreatedAt:        CreatedAt,
		Sections: []services.ExportSection{
			{Title: "Executive Summary", Content: "Acme makes anvils."},
			{Title: "Market Analysis", Content: "Demand from coyotes is steady."},
			{Title: "Management Team", Content: ""},
		},
	}
}

package services

import (
	"time"

	"planexport/visuals"
)

var fixtureCreated = time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)

// threeSectionData is a legacy-style document with no visuals.
func threeSectionData() *ExportData {
	return &ExportData{
		Title:            "Bakery Plan",
		OrganizationName: "Le Fournil",
		PlanType:         "BusinessPlan",
		Status:           "Draft",
		Version:          2,
		CreatedAt:        fixtureCreated,
		Sections: []ExportSection{
			{Title: "Executive Summary", Content: "We bake bread."},
			{Title: "Market", Content: "=Neighbourhood demand"},
			{Title: "Team", Content: ""},
		},
	}
}

// visualData carries one element of each kind, one undecodable chart and
// one unknown type, six elements in all.
func visualData() *ExportData {
	return &ExportData{
		Title:            "Visual Plan",
		OrganizationName: "Le Fournil",
		Status:           "Draft",
		Version:          1,
		CreatedAt:        fixtureCreated,
		CoverPage:        &CoverPage{PrimaryColor: "#336699"},
		SectionsWithVisuals: []VisualSection{
			{
				Title:   "Numbers",
				Order:   2,
				Content: "<p>Figures for the <em>first</em> year.</p>",
				VisualElements: []visuals.Element{
					{ID: "t1", Type: visuals.TypeTable, Data: map[string]any{
						"headers": []any{"Item", "Amount"},
						"rows": []any{
							map[string]any{"cells": []any{map[string]any{"value": "Flour"}, map[string]any{"value": 1200}}},
							map[string]any{"cells": []any{map[string]any{"value": "Total", "colspan": 2}}, "isHighlighted": true},
						},
					}},
					{ID: "c1", Type: visuals.TypeChart, Data: map[string]any{
						"chartType": "line",
						"datasets": []any{
							map[string]any{"label": "A", "data": []any{1, 2}},
							map[string]any{"label": "B", "data": []any{3, 4}},
							map[string]any{"label": "C", "data": []any{5, 6}},
							map[string]any{"label": "D", "data": []any{7, 8}},
						},
					}},
					{ID: "c2", Type: visuals.TypeChart, Data: "not-a-chart-object"},
				},
			},
			{
				Title: "Highlights",
				Order: 1,
				VisualElements: []visuals.Element{
					{ID: "m1", Type: visuals.TypeMetric, Data: map[string]any{
						"metrics": []any{
							map[string]any{"label": "One", "value": 1},
							map[string]any{"label": "Two", "value": 2},
							map[string]any{"label": "Three", "value": 3},
							map[string]any{"label": "Four", "value": 4},
							map[string]any{"label": "Five", "value": 5},
						},
					}},
					{ID: "i1", Type: visuals.TypeInfographic, Data: map[string]any{
						"items": []any{map[string]any{"title": "Mix"}, map[string]any{"title": "Bake"}},
					}},
					{ID: "x1", Type: "hologram"},
				},
			},
		},
	}
}

package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planexport/services"
	"planexport/testhelpers"
	"planexport/visuals"
)

func TestHTMLGenerator_Document(t *testing.T) {
	g := services.NewHTMLGenerator(services.DefaultOptions())
	assert.Equal(t, "html", g.Format())
	assert.Equal(t, "text/html; charset=utf-8", g.ContentType())
	assert.Equal(t, ".html", g.FileExtension())

	out, err := g.Generate(context.Background(), testhelpers.SampleDocument(t), "fr")
	require.NoError(t, err)
	page := string(out)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<html lang="fr">`)
	assert.Contains(t, page, "--primary-color:#8B4513;")
	assert.Equal(t, 6, strings.Count(page, `<div class="visual `))

	for _, want := range []string{
		`<header class="cover">`,
		`<a href="#section-1">Executive Summary</a>`,
		`<a href="#section-3">Financial Projections</a>`,
		`<section class="plan-section" id="section-2">`,
		"<strong>steadily</strong>",
		`<td colspan="3" class="bold">Total</td>`,
		`<tr class="highlight">`,
		"Revenue: Total 550,000",
		"Costs: Total 360,000",
		"15.6%",
		"$2,500",
		`trend-down`,
		"[Chart rendering error]",
		"[Unsupported visual element: gauge]",
	} {
		assert.Contains(t, page, want)
	}
	assert.NotContains(t, page, `href="#section-2"`)
}

func TestHTMLGenerator_ChartListsEverySeries(t *testing.T) {
	data := testhelpers.LegacyDocument(t)
	data.SectionsWithVisuals = []services.VisualSection{{
		Title: "Chart",
		VisualElements: []visuals.Element{{
			ID:   "c",
			Type: visuals.TypeChart,
			Data: &visuals.ChartData{
				ChartType: "pie",
				Datasets: []visuals.ChartDataset{
					{Label: "A", Data: []float64{1}},
					{Label: "B", Data: []float64{2}},
					{Label: "C", Data: []float64{3}},
					{Label: "D", Data: []float64{4}},
				},
			},
		}},
	}}

	out, err := services.NewHTMLGenerator(services.DefaultOptions()).Generate(context.Background(), data, "fr")
	require.NoError(t, err)
	page := string(out)
	assert.Contains(t, page, "[PIE Chart]")
	assert.Equal(t, 4, strings.Count(page, ": Total "))
}

func TestHTMLGenerator_SanitisesProse(t *testing.T) {
	data := testhelpers.LegacyDocument(t)
	data.Title = `Plan <script>alert("x")</script>`
	data.SectionsWithVisuals = []services.VisualSection{{
		Title:   "Risky",
		Content: `<p onclick="steal()">Hello <b>world</b></p><script>alert(1)</script>`,
	}}

	out, err := services.NewHTMLGenerator(services.DefaultOptions()).Generate(context.Background(), data, "fr")
	require.NoError(t, err)
	page := string(out)
	assert.NotContains(t, page, "<script>")
	assert.NotContains(t, page, "onclick")
	assert.Contains(t, page, "<b>world</b>")
}

func TestHTMLGenerator_LegacyPlainText(t *testing.T) {
	data := testhelpers.LegacyDocument(t)
	data.Sections[0].Content = "Line one\nLine two & more"

	out, err := services.NewHTMLGenerator(services.DefaultOptions()).Generate(context.Background(), data, "fr")
	require.NoError(t, err)
	page := string(out)
	assert.Contains(t, page, "<p>Line one<br>Line two &amp; more</p>")
	assert.Contains(t, page, "Business Plan: Legacy Plan")
	assert.Contains(t, page, "--primary-color:#2563EB;")
}

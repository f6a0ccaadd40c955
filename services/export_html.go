package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

const htmlContentType = "text/html; charset=utf-8"

// HTMLGenerator renders a standalone HTML page with inline styles.
type HTMLGenerator struct {
	opts Options
}

// NewHTMLGenerator returns an HTML generator using opts.
func NewHTMLGenerator(opts Options) *HTMLGenerator {
	return &HTMLGenerator{opts: opts.withDefaults()}
}

func (g *HTMLGenerator) Format() string        { return FormatHTML }
func (g *HTMLGenerator) ContentType() string   { return htmlContentType }
func (g *HTMLGenerator) FileExtension() string { return ".html" }

// Generate renders the page.
func (g *HTMLGenerator) Generate(ctx context.Context, data *ExportData, language string) ([]byte, error) {
	return runGenerator(ctx, FormatHTML, func() ([]byte, error) {
		return GenerateHTML(ctx, ResolvePlan(data, language, g.opts))
	})
}

// GenerateHTML renders plan as a complete HTML document.
func GenerateHTML(ctx context.Context, plan *RenderPlan) ([]byte, error) {
	var buf bytes.Buffer
	if err := HTMLDocument(plan).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// HTMLDocument is the full page component.
func HTMLDocument(plan *RenderPlan) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html>\n")
		h.printf(`<html lang="%s">`, attr(plan.Language))
		h.raw(`<head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.printf(`<title>%s</title>`, templ.EscapeString(plan.Title))
		h.printf(`<style>:root{--primary-color:%s;}%s</style>`, plan.BrandColor.Hex(), htmlStyles)
		h.raw(`</head><body>`)
		if h.err != nil {
			return h.err
		}

		parts := []templ.Component{}
		if plan.Cover != nil {
			parts = append(parts, htmlCover(plan.Cover))
		} else {
			parts = append(parts, htmlHeader(plan))
		}
		parts = append(parts, htmlDocumentInfo(plan))
		if plan.TableOfContents != nil {
			parts = append(parts, htmlTableOfContents(plan.TableOfContents))
		}
		parts = append(parts, htmlSections(plan.Sections))

		h.raw(`<main class="document">`)
		for _, p := range parts {
			if h.err != nil {
				return h.err
			}
			if err := p.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func htmlCover(c *CoverPlan) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="cover">`)
		if logo := c.resolveLogo(); logo != nil {
			h.printf(`<img class="cover-logo" src="%s" width="%d" height="%d" alt="">`,
				attr(logo.DataURI()), logo.Width, logo.Height)
		}
		h.printf(`<p class="cover-company">%s</p>`, templ.EscapeString(c.CompanyName))
		h.printf(`<h1 class="cover-title">%s</h1>`, templ.EscapeString(c.Title))
		if c.Subtitle != "" {
			h.printf(`<p class="cover-subtitle">%s</p>`, templ.EscapeString(c.Subtitle))
		}
		if c.PreparedFor != "" {
			h.printf(`<p class="cover-meta">Prepared for: %s</p>`, templ.EscapeString(c.PreparedFor))
		}
		if c.PreparedBy != "" {
			h.printf(`<p class="cover-meta">Prepared by: %s</p>`, templ.EscapeString(c.PreparedBy))
		}
		if !c.PreparedDate.IsZero() {
			h.printf(`<p class="cover-meta"><time datetime="%s">%s</time></p>`,
				c.PreparedDate.Format("2006-01-02"), c.PreparedDate.Format(dateLayout))
		}
		h.raw(`</header>`)
		return h.err
	})
}

func htmlHeader(plan *RenderPlan) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="plain-header">`)
		h.printf(`<h1>Business Plan: %s</h1>`, templ.EscapeString(plan.Title))
		if plan.Organization != "" {
			h.printf(`<p class="organization">%s</p>`, templ.EscapeString(plan.Organization))
		}
		h.printf(`<p class="muted">Version %d | %s</p>`, plan.Version, templ.EscapeString(plan.Status))
		h.raw(`</header>`)
		return h.err
	})
}

func htmlDocumentInfo(plan *RenderPlan) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="document-info"><h2>Document Information</h2><dl>`)
		field := func(label, value string) {
			h.printf(`<dt>%s</dt><dd>%s</dd>`, label, templ.EscapeString(value))
		}
		field("Plan Type", plan.PlanType)
		if !plan.CreatedAt.IsZero() {
			field("Created", plan.CreatedAt.Format(dateLayout))
		}
		if plan.FinalizedAt != nil {
			field("Finalized", plan.FinalizedAt.Format(dateLayout))
		}
		if plan.Description != "" {
			field("Description", plan.Description)
		}
		h.raw(`</dl></section>`)
		return h.err
	})
}

func htmlTableOfContents(entries []TOCEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<nav class="toc"><h2>Table of Contents</h2><ol>`)
		for _, e := range entries {
			h.printf(`<li><a href="#%s">%s</a></li>`, attr(e.Anchor), templ.EscapeString(e.Title))
		}
		h.raw(`</ol></nav>`)
		return h.err
	})
}

func htmlSections(sections []SectionPlan) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		policy := bluemonday.UGCPolicy()
		for _, s := range sections {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := htmlSection(s, policy).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// htmlSection writes a section with its prose and visual blocks. Markup in
// prose is sanitised; plain text is split into paragraphs.
func htmlSection(s SectionPlan, policy *bluemonday.Policy) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<section class="plan-section" id="%s">`, attr(s.Anchor))
		h.printf(`<h2>%s</h2>`, templ.EscapeString(s.Title))
		if s.HasContent() {
			h.raw(`<div class="prose">`)
			if strings.ContainsRune(s.Content, '<') {
				h.raw(policy.Sanitize(s.Content))
			} else {
				for _, p := range s.Paragraphs {
					lines := strings.Split(p, "\n")
					for i := range lines {
						lines[i] = templ.EscapeString(lines[i])
					}
					h.printf(`<p>%s</p>`, strings.Join(lines, "<br>"))
				}
			}
			h.raw(`</div>`)
		}
		if h.err != nil {
			return h.err
		}
		for _, b := range s.Blocks {
			if err := htmlBlock(b).Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</section>`)
		return h.err
	})
}

// htmlBlock renders one visual element into a buffer first so that a panic
// leaves no half-written markup behind.
func htmlBlock(b VisualBlock) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var body bytes.Buffer
		ok := recoverBlock(FormatHTML, b, func() {
			writeBlockBody(&htmlWriter{w: &body}, b.Body)
		})
		if !ok {
			body.Reset()
			writeNotice(&htmlWriter{w: &body}, placeholderText(b.Type))
		}

		h := &htmlWriter{w: w}
		h.printf(`<div class="visual visual-%s" data-visual-id="%s">`, attr(string(b.Type)), attr(b.ElementID))
		if b.Title != "" {
			h.printf(`<h3>%s</h3>`, templ.EscapeString(b.Title))
		}
		h.raw(body.String())
		h.raw(`</div>`)
		return h.err
	})
}

func writeBlockBody(h *htmlWriter, body BlockBody) {
	switch b := body.(type) {
	case GridBody:
		writeGrid(h, b)
	case SummaryBody:
		writeSummary(h, b)
	case CardRowBody:
		writeCards(h, b)
	case ListBody:
		writeList(h, b)
	case NoticeBody:
		writeNotice(h, b.Text)
	default:
		panic(fmt.Sprintf("unhandled block body %T", body))
	}
}

func writeGrid(h *htmlWriter, g GridBody) {
	h.printf(`<table class="grid grid-%s"><thead><tr>`, attr(g.Kind))
	for _, c := range g.Columns {
		h.printf(`<th>%s</th>`, templ.EscapeString(c))
	}
	h.raw(`</tr></thead><tbody>`)
	for i, r := range g.Rows {
		class := ""
		switch {
		case r.Highlighted:
			class = ` class="highlight"`
		case i%2 == 1:
			class = ` class="stripe"`
		}
		h.printf(`<tr%s>`, class)
		writeCells(h, "td", r.Cells)
		h.raw(`</tr>`)
	}
	h.raw(`</tbody>`)
	if g.Footer != nil {
		h.raw(`<tfoot><tr>`)
		writeCells(h, "td", g.Footer.Cells)
		h.raw(`</tr></tfoot>`)
	}
	h.raw(`</table>`)
}

func writeCells(h *htmlWriter, tag string, cells []GridCell) {
	for _, c := range cells {
		var attrs strings.Builder
		if c.Span > 1 {
			fmt.Fprintf(&attrs, ` colspan="%d"`, c.Span)
		}
		if c.RowSpan > 1 {
			fmt.Fprintf(&attrs, ` rowspan="%d"`, c.RowSpan)
		}
		var classes []string
		if c.Numeric {
			classes = append(classes, "num")
		}
		if c.Bold {
			classes = append(classes, "bold")
		}
		if len(classes) > 0 {
			fmt.Fprintf(&attrs, ` class="%s"`, strings.Join(classes, " "))
		}
		h.printf(`<%s%s>%s</%s>`, tag, attrs.String(), templ.EscapeString(c.Text), tag)
	}
}

func writeSummary(h *htmlWriter, s SummaryBody) {
	h.printf(`<div class="chart-placeholder" data-chart-type="%s">`, attr(s.ChartType))
	h.printf(`<p class="chart-heading">%s</p><ul>`, templ.EscapeString(s.Heading))
	for _, series := range s.Series {
		swatch := ""
		if c, err := ParseHexColor(series.Color); err == nil {
			swatch = fmt.Sprintf(`<span class="swatch" style="background:%s"></span>`, c.Hex())
		}
		h.printf(`<li>%s%s: Total %s</li>`, swatch, templ.EscapeString(series.Label), templ.EscapeString(series.Text))
	}
	h.raw(`</ul></div>`)
}

func writeCards(h *htmlWriter, m CardRowBody) {
	h.printf(`<div class="metrics metrics-%s">`, attr(m.Layout))
	for _, c := range m.Cards {
		h.raw(`<div class="metric-card">`)
		h.printf(`<p class="metric-label">%s</p>`, templ.EscapeString(c.Label))
		h.printf(`<p class="metric-value">%s</p>`, templ.EscapeString(c.Value))
		if c.Trend != "" {
			h.printf(`<p class="metric-trend trend-%s">%s</p>`, attr(string(c.Direction)), templ.EscapeString(c.Trend))
		}
		h.raw(`</div>`)
	}
	h.raw(`</div>`)
}

func writeList(h *htmlWriter, l ListBody) {
	h.printf(`<ol class="infographic infographic-%s">`, attr(l.Kind))
	for _, it := range l.Items {
		h.printf(`<li><span class="badge">%d</span><strong>%s</strong>`, it.Number, templ.EscapeString(it.Title))
		if it.Description != "" {
			h.printf(`<p>%s</p>`, templ.EscapeString(it.Description))
		}
		h.raw(`</li>`)
	}
	h.raw(`</ol>`)
}

func writeNotice(h *htmlWriter, msg string) {
	h.printf(`<p class="notice">%s</p>`, templ.EscapeString(msg))
}

// htmlWriter writes to w and keeps the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// printf formats without escaping; callers escape user text.
func (h *htmlWriter) printf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func attr(s string) string {
	return templ.EscapeString(s)
}

const htmlStyles = `
body{margin:0;font-family:Calibri,Arial,sans-serif;color:#212529;background:#fff;line-height:1.5}
.document{max-width:900px;margin:0 auto;padding:40px}
.cover{text-align:center;padding:120px 0;border-bottom:4px solid var(--primary-color);margin-bottom:40px}
.cover-logo{display:block;margin:0 auto 24px;max-width:300px;height:auto}
.cover-company{font-size:28px;font-weight:bold;color:var(--primary-color);margin:0}
.cover-title{font-size:36px;margin:12px 0}
.cover-subtitle{font-size:18px;color:#6c757d}
.cover-meta{color:#6c757d;margin:4px 0}
.plain-header h1{color:var(--primary-color)}
.muted{color:#6c757d;font-style:italic}
.document-info dl{display:grid;grid-template-columns:160px 1fr;gap:4px 16px}
.document-info dt{font-weight:bold}
.toc ol{padding-left:20px}
.toc a{color:inherit;text-decoration:none}
.plan-section h2{color:var(--primary-color);border-bottom:1px solid #c8c8c8;padding-bottom:4px}
.visual{margin:20px 0}
.grid{width:100%;border-collapse:collapse;font-size:14px}
.grid th,.grid td{border:1px solid #c8c8c8;padding:6px 8px;text-align:left}
.grid th{background:#e0e0e0}
.grid tr.stripe td{background:#fafafa}
.grid tr.highlight td{background:#fff3cd}
.grid tfoot td{font-weight:bold;background:#e0e0e0}
.grid .num{text-align:right}
.grid .bold{font-weight:bold}
.chart-placeholder{border:1px solid #c8c8c8;background:#f0f0f0;padding:16px;text-align:center}
.chart-placeholder ul{list-style:none;padding:0}
.chart-heading{font-weight:bold}
.swatch{display:inline-block;width:10px;height:10px;margin-right:6px}
.metrics{display:flex;gap:12px}
.metrics-column{flex-direction:column}
.metrics-grid{flex-wrap:wrap}
.metric-card{flex:1;background:#f8f8f8;padding:12px;text-align:center}
.metric-label{color:#6c757d;font-size:12px;margin:0}
.metric-value{font-size:22px;font-weight:bold;margin:4px 0}
.metric-trend{font-size:12px;margin:0}
.trend-up{color:#16a34a}
.trend-down{color:#dc2626}
.infographic{list-style:none;padding:0}
.infographic li{margin:8px 0}
.badge{display:inline-block;min-width:24px;padding:2px 6px;margin-right:8px;border-radius:12px;background:var(--primary-color);color:#fff;text-align:center}
.infographic p{margin:4px 0 0 40px;color:#6c757d}
.notice{color:#6c757d;font-style:italic;font-size:12px}
`

package services

import (
	"cmp"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"planexport/visuals"
)

const defaultDocumentTitle = "Business Plan"

// RenderPlan is ExportData resolved once into what every composer draws:
// fallbacks applied, sections sorted, prose stripped and visual elements
// decoded into blocks.
type RenderPlan struct {
	Title        string
	Organization string
	PlanType     string
	Status       string
	Version      int
	Description  string
	CreatedAt    time.Time
	FinalizedAt  *time.Time
	Language     string

	BrandColor Color
	Cover      *CoverPlan // nil: plain header

	// TableOfContents is nil when the table of contents is disabled.
	TableOfContents []TOCEntry
	Sections        []SectionPlan
}

// CoverPlan is a cover page with every fallback resolved.
type CoverPlan struct {
	CompanyName  string
	Title        string
	Subtitle     string
	PreparedFor  string
	PreparedBy   string
	PreparedDate time.Time
	LogoRef      string
	Logo         *Logo // set by resolveLogo
}

// resolveLogo decodes the cover logo on first use. Only composers that draw
// the logo call it.
func (c *CoverPlan) resolveLogo() *Logo {
	if c.Logo != nil || c.LogoRef == "" {
		return c.Logo
	}
	logo, err := prepareLogo(c.LogoRef)
	c.LogoRef = ""
	if err != nil {
		log.Printf("export: cover logo skipped: %v", err)
		return nil
	}
	c.Logo = logo
	return logo
}

// TOCEntry is one numbered table of contents line.
type TOCEntry struct {
	Number int
	Title  string
	Anchor string
}

// SectionPlan is one section in render order.
type SectionPlan struct {
	Number     int
	Anchor     string
	Key        string
	Title      string
	Order      int
	Content    string   // as supplied
	Paragraphs []string // markup stripped
	Blocks     []VisualBlock
}

// HasContent reports whether the section has non-blank prose.
func (s SectionPlan) HasContent() bool {
	return len(s.Paragraphs) > 0
}

// VisualBlock is one visual element ready to draw.
type VisualBlock struct {
	ElementID string
	Title     string
	Type      visuals.Type
	Body      BlockBody
}

// BlockBody is one of GridBody, SummaryBody, CardRowBody, ListBody or
// NoticeBody.
type BlockBody interface {
	blockBody()
}

// GridBody is a table.
type GridBody struct {
	Kind    string
	Columns []string
	Rows    []GridRow
	Footer  *GridRow
}

// GridRow is a table row.
type GridRow struct {
	Cells       []GridCell
	Highlighted bool
}

// GridCell is a table cell.
type GridCell struct {
	Text    string
	Bold    bool
	Numeric bool
	Span    int
	RowSpan int
}

// SummaryBody stands in for a chart.
type SummaryBody struct {
	ChartType string
	TypeLabel string // upper-cased chart type
	Heading   string
	Labels    []string
	Series    []SeriesTotal
}

// SeriesTotal is a dataset label with the sum of its values.
type SeriesTotal struct {
	Label string
	Total float64
	Text  string
	Color string
}

// Top returns at most n series.
func (s SummaryBody) Top(n int) []SeriesTotal {
	if n < len(s.Series) {
		return s.Series[:n]
	}
	return s.Series
}

// CardRowBody is a row of metric cards.
type CardRowBody struct {
	Layout string
	Cards  []Card
}

// Card is one metric.
type Card struct {
	Label     string
	Value     string
	Trend     string
	Direction visuals.TrendDirection
	Icon      string
}

// ListBody is an ordered infographic.
type ListBody struct {
	Kind  string
	Items []ListItem
}

// ListItem is one numbered infographic entry.
type ListItem struct {
	Number      int
	Title       string
	Description string
	Icon        string
}

// NoticeBody replaces an element that could not be rendered.
type NoticeBody struct {
	Text string
}

func (GridBody) blockBody()    {}
func (SummaryBody) blockBody() {}
func (CardRowBody) blockBody() {}
func (ListBody) blockBody()    {}
func (NoticeBody) blockBody()  {}

// BlockCount returns the number of visual blocks across all sections.
func (p *RenderPlan) BlockCount() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Blocks)
	}
	return n
}

// ResolvePlan resolves data into a RenderPlan. It never modifies data.
func ResolvePlan(data *ExportData, lang string, opts Options) *RenderPlan {
	opts = opts.withDefaults()
	if lang == "" {
		lang = opts.DefaultLanguage
	}

	plan := &RenderPlan{
		Title:        data.Title,
		Organization: data.OrganizationName,
		PlanType:     data.PlanType,
		Status:       data.Status,
		Version:      data.Version,
		Description:  strings.TrimSpace(data.Description),
		CreatedAt:    data.CreatedAt,
		FinalizedAt:  data.FinalizedAt,
		Language:     lang,
	}

	coverColor := ""
	if data.CoverPage != nil {
		coverColor = data.CoverPage.PrimaryColor
	}
	plan.BrandColor = resolveBrandColor(coverColor, opts.BrandColor)

	if data.CoverPage != nil {
		plan.Cover = resolveCover(data)
	}

	plan.Sections = resolveSections(data, opts)

	if data.TableOfContentsEnabled() {
		plan.TableOfContents = []TOCEntry{}
		for _, s := range plan.Sections {
			if data.UsesVisualSections() && !s.HasContent() {
				continue
			}
			plan.TableOfContents = append(plan.TableOfContents, TOCEntry{
				Number: len(plan.TableOfContents) + 1,
				Title:  s.Title,
				Anchor: s.Anchor,
			})
		}
	}

	return plan
}

func resolveCover(data *ExportData) *CoverPlan {
	cp := data.CoverPage
	cover := &CoverPlan{
		CompanyName: firstNonEmpty(cp.CompanyName, data.OrganizationName),
		Title:       firstNonEmpty(cp.DocumentTitle, data.Title, defaultDocumentTitle),
		Subtitle:    strings.TrimSpace(cp.Subtitle),
		PreparedFor: strings.TrimSpace(cp.PreparedFor),
		PreparedBy:  strings.TrimSpace(cp.PreparedBy),
	}
	switch {
	case cp.PreparedDate != nil:
		cover.PreparedDate = *cp.PreparedDate
	case data.FinalizedAt != nil:
		cover.PreparedDate = *data.FinalizedAt
	default:
		cover.PreparedDate = data.CreatedAt
	}
	cover.LogoRef = strings.TrimSpace(cp.LogoURL)
	return cover
}

func resolveSections(data *ExportData, opts Options) []SectionPlan {
	var sections []SectionPlan
	if data.UsesVisualSections() {
		sorted := slices.Clone(data.SectionsWithVisuals)
		slices.SortStableFunc(sorted, func(a, b VisualSection) int {
			return cmp.Or(
				cmp.Compare(a.Order, b.Order),
				cmp.Compare(a.SectionKey, b.SectionKey),
				cmp.Compare(a.Title, b.Title),
			)
		})
		for _, vs := range sorted {
			s := SectionPlan{
				Key:        vs.SectionKey,
				Title:      vs.Title,
				Order:      vs.Order,
				Content:    vs.Content,
				Paragraphs: Paragraphs(StripHTML(vs.Content)),
			}
			if data.VisualsEnabled() {
				for _, el := range vs.VisualElements {
					s.Blocks = append(s.Blocks, buildBlock(el, opts))
				}
			}
			sections = append(sections, s)
		}
	} else {
		for i, es := range data.Sections {
			sections = append(sections, SectionPlan{
				Title:      es.Title,
				Order:      i,
				Content:    es.Content,
				Paragraphs: Paragraphs(normalizeSpace(es.Content)),
			})
		}
	}

	for i := range sections {
		sections[i].Number = i + 1
		sections[i].Anchor = fmt.Sprintf("section-%d", i+1)
	}
	return sections
}

// buildBlock decodes one element. Decode failures and unknown types become
// a NoticeBody so that the element still occupies its slot.
func buildBlock(el visuals.Element, opts Options) VisualBlock {
	block := VisualBlock{
		ElementID: el.ID,
		Title:     strings.TrimSpace(el.Title),
		Type:      visuals.ParseType(string(el.Type)),
	}

	payload, err := visuals.Decode(el)
	if err != nil {
		log.Printf("export: visual element %q degraded to placeholder: %v", el.ID, err)
		block.Body = NoticeBody{Text: placeholderText(el.Type)}
		return block
	}

	switch p := payload.(type) {
	case *visuals.TableData:
		block.Body = gridBody(p)
	case *visuals.ChartData:
		if block.Title == "" {
			block.Title = p.Title
		}
		block.Body = summaryBody(p)
	case *visuals.MetricData:
		block.Body = cardRowBody(p, opts.MaxMetricCards)
	case *visuals.InfographicData:
		block.Body = listBody(p)
	}
	return block
}

var placeholderLabels = map[visuals.Type]string{
	visuals.TypeTable:       "Table",
	visuals.TypeChart:       "Chart",
	visuals.TypeMetric:      "Metrics",
	visuals.TypeInfographic: "Infographic",
}

// placeholderText is the short bracketed note shown instead of a visual
// element that cannot be rendered.
func placeholderText(t visuals.Type) string {
	label, ok := placeholderLabels[visuals.ParseType(string(t))]
	if !ok {
		return fmt.Sprintf("[Unsupported visual element: %s]", strings.TrimSpace(string(t)))
	}
	return fmt.Sprintf("[%s rendering error]", label)
}

func gridBody(t *visuals.TableData) GridBody {
	g := GridBody{Kind: t.TableType, Columns: t.Headers}
	for _, r := range t.Rows {
		g.Rows = append(g.Rows, gridRow(r))
	}
	if t.Footer != nil {
		footer := gridRow(*t.Footer)
		for i := range footer.Cells {
			footer.Cells[i].Bold = true
		}
		g.Footer = &footer
	}
	return g
}

func gridRow(r visuals.TableRow) GridRow {
	row := GridRow{Highlighted: r.IsHighlighted}
	for _, c := range r.Cells {
		_, numeric := visuals.Number(c.Value)
		row.Cells = append(row.Cells, GridCell{
			Text:    visuals.Text(c.Value),
			Bold:    strings.EqualFold(c.Format, "bold"),
			Numeric: numeric,
			Span:    c.Span(),
			RowSpan: c.RowSpan(),
		})
	}
	return row
}

func summaryBody(c *visuals.ChartData) SummaryBody {
	label := cases.Upper(language.Und).String(c.ChartType)
	s := SummaryBody{
		ChartType: c.ChartType,
		TypeLabel: label,
		Heading:   fmt.Sprintf("[%s Chart]", label),
		Labels:    c.Labels,
	}
	currencyCode := ""
	if c.Options != nil {
		currencyCode = c.Options.Currency
	}
	for _, d := range c.Datasets {
		total := d.Total()
		s.Series = append(s.Series, SeriesTotal{
			Label: d.Label,
			Total: total,
			Text:  FormatTotal(total, currencyCode),
			Color: d.Color,
		})
	}
	return s
}

func cardRowBody(m *visuals.MetricData, limit int) CardRowBody {
	body := CardRowBody{Layout: m.Layout}
	for i, metric := range m.Metrics {
		if i >= limit {
			break
		}
		body.Cards = append(body.Cards, Card{
			Label:     metric.Label,
			Value:     FormatMetricValue(metric.Value, metric.Format),
			Trend:     metric.TrendValue,
			Direction: metric.Trend,
			Icon:      metric.Icon,
		})
	}
	return body
}

func listBody(ig *visuals.InfographicData) ListBody {
	items := slices.Clone(ig.Items)
	slices.SortStableFunc(items, func(a, b visuals.InfographicItem) int {
		return cmp.Compare(a.SortKey(), b.SortKey())
	})
	body := ListBody{Kind: ig.InfographicType}
	for i, it := range items {
		body.Items = append(body.Items, ListItem{
			Number:      i + 1,
			Title:       it.Title,
			Description: strings.TrimSpace(it.Description),
			Icon:        it.Icon,
		})
	}
	return body
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

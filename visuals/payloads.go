package visuals

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Table subtypes.
const (
	TableFinancial  = "financial"
	TableSWOT       = "swot"
	TableComparison = "comparison"
	TableTimeline   = "timeline"
	TablePricing    = "pricing"
	TableCustom     = "custom"
)

// TableData is a grid of cells with a header row and an optional footer.
type TableData struct {
	TableType   string     `json:"tableType"`
	Headers     []string   `json:"headers"`
	Rows        []TableRow `json:"rows"`
	Footer      *TableRow  `json:"footer,omitempty"`
	ColumnTypes []string   `json:"columnTypes,omitempty"`
}

// TableRow is one row of cells.
type TableRow struct {
	Cells         []TableCell `json:"cells"`
	IsHighlighted bool        `json:"isHighlighted"`
}

// TableCell holds a single cell value. Value is whatever the producer put
// there: a string, a number, occasionally a bool.
type TableCell struct {
	Value   any    `json:"value"`
	Format  string `json:"format,omitempty"`
	Colspan *int   `json:"colspan,omitempty"`
	Rowspan *int   `json:"rowspan,omitempty"`
}

func (t *TableData) Kind() Type { return TypeTable }

func (t *TableData) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Headers, validation.Required),
		validation.Field(&t.Rows),
		validation.Field(&t.Footer),
	)
}

func (r TableRow) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Cells),
	)
}

func (c TableCell) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Colspan, validation.Min(1)),
		validation.Field(&c.Rowspan, validation.Min(1)),
	)
}

// Span returns the cell's column span, at least 1.
func (c TableCell) Span() int {
	if c.Colspan == nil || *c.Colspan < 1 {
		return 1
	}
	return *c.Colspan
}

// RowSpan returns the cell's row span, at least 1.
func (c TableCell) RowSpan() int {
	if c.Rowspan == nil || *c.Rowspan < 1 {
		return 1
	}
	return *c.Rowspan
}

// Chart subtypes.
const (
	ChartLine       = "line"
	ChartBar        = "bar"
	ChartPie        = "pie"
	ChartDonut      = "donut"
	ChartArea       = "area"
	ChartStackedBar = "stacked-bar"
)

// ChartData describes a chart. It is summarised, never plotted.
type ChartData struct {
	ChartType string         `json:"chartType"`
	Title     string         `json:"title,omitempty"`
	Labels    []string       `json:"labels"`
	Datasets  []ChartDataset `json:"datasets"`
	Options   *ChartOptions  `json:"options,omitempty"`
}

// ChartDataset is one named series of values.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	Color string    `json:"color,omitempty"`
}

// ChartOptions are display hints.
type ChartOptions struct {
	ShowLegend       *bool  `json:"showLegend,omitempty"`
	ShowGrid         *bool  `json:"showGrid,omitempty"`
	Currency         string `json:"currency,omitempty"`
	PercentageFormat *bool  `json:"percentageFormat,omitempty"`
	Stacked          *bool  `json:"stacked,omitempty"`
}

func (c *ChartData) Kind() Type { return TypeChart }

func (c *ChartData) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Datasets, validation.Required),
	)
}

func (d ChartDataset) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Label, validation.Required),
	)
}

// Total sums the dataset values.
func (d ChartDataset) Total() float64 {
	var sum float64
	for _, v := range d.Data {
		sum += v
	}
	return sum
}

// Metric formats.
const (
	FormatCurrency   = "currency"
	FormatPercentage = "percentage"
	FormatNumber     = "number"
	FormatText       = "text"
)

// TrendDirection is the direction of a metric trend.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// MetricData is a set of headline figures.
type MetricData struct {
	Metrics []Metric `json:"metrics"`
	Layout  string   `json:"layout,omitempty"`
}

// Metric is a single labelled figure.
type Metric struct {
	Label      string         `json:"label"`
	Value      any            `json:"value"`
	Format     string         `json:"format,omitempty"`
	Trend      TrendDirection `json:"trend,omitempty"`
	TrendValue string         `json:"trendValue,omitempty"`
	Icon       string         `json:"icon,omitempty"`
}

func (m *MetricData) Kind() Type { return TypeMetric }

func (m *MetricData) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Metrics, validation.Required),
	)
}

func (m Metric) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Label, validation.Required),
	)
}

// Infographic subtypes.
const (
	InfographicProcessFlow = "process-flow"
	InfographicIconList    = "icon-list"
	InfographicQuote       = "quote"
	InfographicCallout     = "callout"
	InfographicTimeline    = "timeline"
)

// InfographicData is an ordered list of titled items.
type InfographicData struct {
	InfographicType string            `json:"infographicType"`
	Items           []InfographicItem `json:"items"`
}

// InfographicItem is one step or entry of an infographic.
type InfographicItem struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Order       *int   `json:"order,omitempty"`
}

func (i *InfographicData) Kind() Type { return TypeInfographic }

func (i *InfographicData) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Items, validation.Required),
	)
}

func (it InfographicItem) Validate() error {
	return validation.ValidateStruct(&it,
		validation.Field(&it.Title, validation.Required),
	)
}

// SortKey is the item's order, with a missing order counting as 0.
func (it InfographicItem) SortKey() int {
	if it.Order == nil {
		return 0
	}
	return *it.Order
}

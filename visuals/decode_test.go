package visuals

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"table", TypeTable},
		{"Table", TypeTable},
		{" CHART ", TypeChart},
		{"metric", TypeMetric},
		{"metrics", TypeMetric},
		{"infographic", TypeInfographic},
		{"video", TypeUnknown},
		{"", TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseType(tt.in))
		})
	}
}

func TestDecode_TableFromCaseInsensitiveJSON(t *testing.T) {
	raw := json.RawMessage(`{
		"TableType": "Financial",
		"HEADERS": ["Year", "Revenue"],
		"rows": [
			{"Cells": [{"Value": "2025"}, {"value": 120000, "format": "currency"}], "isHighlighted": true},
			{"cells": [{"value": "2026", "colspan": 2}]}
		],
		"footer": {"cells": [{"value": "Total"}, {"value": 120000}]}
	}`)

	p, err := Decode(Element{ID: "t1", Type: "table", Data: raw})
	require.NoError(t, err)

	table, ok := p.(*TableData)
	require.True(t, ok)
	assert.Equal(t, TableFinancial, table.TableType)
	assert.Equal(t, []string{"Year", "Revenue"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.True(t, table.Rows[0].IsHighlighted)
	assert.Equal(t, "120000", Text(table.Rows[0].Cells[1].Value))
	assert.Equal(t, 2, table.Rows[1].Cells[0].Span())
	require.NotNil(t, table.Footer)
	assert.Equal(t, "Total", Text(table.Footer.Cells[0].Value))
}

func TestDecode_FromGenericMap(t *testing.T) {
	data := map[string]any{
		"chartType": "Line",
		"labels":    []any{"Q1", "Q2"},
		"datasets": []any{
			map[string]any{"label": "Revenue", "data": []any{10.0, 20.0}},
		},
	}

	p, err := Decode(Element{ID: "c1", Type: "chart", Data: data})
	require.NoError(t, err)

	chart := p.(*ChartData)
	assert.Equal(t, ChartLine, chart.ChartType)
	require.Len(t, chart.Datasets, 1)
	assert.InDelta(t, 30.0, chart.Datasets[0].Total(), 0.0001)
}

func TestDecode_TypedPayloadIsNotMutated(t *testing.T) {
	src := &MetricData{Metrics: []Metric{{Label: "Growth", Value: 0.2, Format: "PERCENTAGE", Trend: "UP"}}}

	p, err := Decode(Element{ID: "m1", Type: TypeMetric, Data: src})
	require.NoError(t, err)

	got := p.(*MetricData)
	assert.Equal(t, FormatPercentage, got.Metrics[0].Format)
	assert.Equal(t, TrendUp, got.Metrics[0].Trend)
	assert.Equal(t, "row", got.Layout)
	assert.Equal(t, "PERCENTAGE", src.Metrics[0].Format)
	assert.Empty(t, src.Layout)
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		el      Element
		wantErr error
	}{
		{
			name:    "chart with plain string",
			el:      Element{ID: "x", Type: "chart", Data: "not-a-chart-object"},
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "chart with JSON string literal",
			el:      Element{ID: "x", Type: "chart", Data: json.RawMessage(`"not-a-chart-object"`)},
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "table with no headers",
			el:      Element{ID: "x", Type: "table", Data: map[string]any{"rows": []any{}}},
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "chart given table data",
			el:      Element{ID: "x", Type: "chart", Data: &TableData{Headers: []string{"A"}}},
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "dataset without label",
			el:      Element{ID: "x", Type: "chart", Data: map[string]any{"datasets": []any{map[string]any{"data": []any{1}}}}},
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "infographic item without title",
			el:      Element{ID: "x", Type: "infographic", Data: map[string]any{"items": []any{map[string]any{"description": "d"}}}},
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "missing data",
			el:      Element{ID: "x", Type: "metric"},
			wantErr: ErrMissingPayload,
		},
		{
			name:    "unknown type",
			el:      Element{ID: "x", Type: "video", Data: map[string]any{}},
			wantErr: ErrUnknownType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.el)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestElement_UnmarshalJSONKeepsRawData(t *testing.T) {
	var el Element
	require.NoError(t, json.Unmarshal([]byte(`{"id":"v1","type":"metric","title":"KPIs","data":{"metrics":[{"label":"Users","value":"1200"}]}}`), &el))

	assert.Equal(t, "v1", el.ID)
	assert.Equal(t, TypeMetric, el.Type)
	_, isRaw := el.Data.(json.RawMessage)
	assert.True(t, isRaw)

	p, err := Decode(el)
	require.NoError(t, err)
	assert.Equal(t, "1200", Text(p.(*MetricData).Metrics[0].Value))
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float", 2500.7, 2500.7, true},
		{"int", 42, 42, true},
		{"numeric string", " 0.25 ", 0.25, true},
		{"word", "n/a", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"blank", "  ", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "abc", Text("abc"))
	assert.Equal(t, "2500", Text(2500.0))
	assert.Equal(t, "0.25", Text(0.25))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, `{"a":1}`, Text(map[string]any{"a": 1}))
}

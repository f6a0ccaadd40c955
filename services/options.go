package services

import (
	"strings"
	"time"
)

// Options are the engine-wide rendering defaults. The zero value is usable;
// missing fields take the values from DefaultOptions.
type Options struct {
	BrandColor        string
	PageSize          string
	PageNumberPattern string
	MaxMetricCards    int
	MaxChartSeries    int
	DefaultLanguage   string
	Template          string
	Timeout           time.Duration
}

// DefaultOptions returns the built-in rendering defaults.
func DefaultOptions() Options {
	return Options{
		BrandColor:        DefaultBrandColor,
		PageSize:          "A4",
		PageNumberPattern: "{current} / {total}",
		MaxMetricCards:    4,
		MaxChartSeries:    3,
		DefaultLanguage:   "fr",
		Template:          "default",
		Timeout:           60 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if strings.TrimSpace(o.BrandColor) == "" {
		o.BrandColor = d.BrandColor
	}
	switch strings.ToUpper(o.PageSize) {
	case "A4", "LETTER":
		o.PageSize = strings.ToUpper(o.PageSize)
	default:
		o.PageSize = d.PageSize
	}
	if o.PageNumberPattern == "" {
		o.PageNumberPattern = d.PageNumberPattern
	}
	if o.MaxMetricCards <= 0 {
		o.MaxMetricCards = d.MaxMetricCards
	}
	if o.MaxChartSeries <= 0 {
		o.MaxChartSeries = d.MaxChartSeries
	}
	if o.DefaultLanguage == "" {
		o.DefaultLanguage = d.DefaultLanguage
	}
	if o.Template == "" {
		o.Template = d.Template
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

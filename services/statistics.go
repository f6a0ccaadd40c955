package services

import (
	"strings"
	"time"

	"planexport/visuals"
)

const (
	wordsPerPage   = 400
	visualsPerPage = 3
)

// ExportStatistics summarises what an export contains.
type ExportStatistics struct {
	SectionCount       int           `json:"sectionCount"`
	VisualElementCount int           `json:"visualElementCount"`
	TableCount         int           `json:"tableCount"`
	ChartCount         int           `json:"chartCount"`
	MetricCount        int           `json:"metricCount"`
	InfographicCount   int           `json:"infographicCount"`
	UnknownCount       int           `json:"unknownCount"`
	WordCount          int           `json:"wordCount"`
	EstimatedPageCount int           `json:"estimatedPageCount"`
	ProcessingTime     time.Duration `json:"processingTime"`
}

// ComputeStatistics counts sections, visual elements by declared type and
// words of prose in data. ProcessingTime is left for the caller.
func ComputeStatistics(data *ExportData) *ExportStatistics {
	st := &ExportStatistics{}

	if data.UsesVisualSections() {
		st.SectionCount = len(data.SectionsWithVisuals)
		for _, s := range data.SectionsWithVisuals {
			st.WordCount += countWords(StripHTML(s.Content))
			if !data.VisualsEnabled() {
				continue
			}
			for _, el := range s.VisualElements {
				st.VisualElementCount++
				switch visuals.ParseType(string(el.Type)) {
				case visuals.TypeTable:
					st.TableCount++
				case visuals.TypeChart:
					st.ChartCount++
				case visuals.TypeMetric:
					st.MetricCount++
				case visuals.TypeInfographic:
					st.InfographicCount++
				default:
					st.UnknownCount++
				}
			}
		}
	} else {
		st.SectionCount = len(data.Sections)
		for _, s := range data.Sections {
			st.WordCount += countWords(s.Content)
		}
	}

	pages := st.WordCount/wordsPerPage + st.VisualElementCount/visualsPerPage
	if data.CoverPage != nil {
		pages++
	}
	if data.TableOfContentsEnabled() {
		pages++
	}
	st.EstimatedPageCount = max(pages, 1)
	return st
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

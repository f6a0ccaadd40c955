package services

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"planexport/visuals"
)

// ExportData is one business plan snapshot handed to the generators.
// Generators only read it.
type ExportData struct {
	PlanID           string     `json:"planId"`
	Title            string     `json:"title"`
	OrganizationName string     `json:"organizationName"`
	PlanType         string     `json:"planType"`
	Status           string     `json:"status"`
	Version          int        `json:"version"`
	Description      string     `json:"description,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	FinalizedAt      *time.Time `json:"finalizedAt,omitempty"`

	CoverPage *CoverPage `json:"coverPage,omitempty"`

	// nil means enabled
	IncludeTableOfContents *bool `json:"includeTableOfContents,omitempty"`
	IncludeVisuals         *bool `json:"includeVisuals,omitempty"`

	// Sections is the legacy title/content list. SectionsWithVisuals wins
	// when both are populated.
	Sections            []ExportSection `json:"sections,omitempty"`
	SectionsWithVisuals []VisualSection `json:"sectionsWithVisuals,omitempty"`
}

// CoverPage holds the cover page settings. A nil cover page means a plain
// header is printed instead.
type CoverPage struct {
	CompanyName   string     `json:"companyName,omitempty"`
	DocumentTitle string     `json:"documentTitle,omitempty"`
	Subtitle      string     `json:"subtitle,omitempty"`
	PrimaryColor  string     `json:"primaryColor,omitempty"`
	LogoURL       string     `json:"logoUrl,omitempty"`
	PreparedFor   string     `json:"preparedFor,omitempty"`
	PreparedBy    string     `json:"preparedBy,omitempty"`
	PreparedDate  *time.Time `json:"preparedDate,omitempty"`
}

// ExportSection is a legacy section: a title and plain text.
type ExportSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// VisualSection is a section whose prose may contain markup and which may
// carry visual elements.
type VisualSection struct {
	SectionKey     string            `json:"sectionKey,omitempty"`
	Title          string            `json:"title"`
	Order          int               `json:"order"`
	Content        string            `json:"content,omitempty"`
	VisualElements []visuals.Element `json:"visualElements,omitempty"`
}

// TableOfContentsEnabled reports whether a table of contents is requested.
func (d *ExportData) TableOfContentsEnabled() bool {
	return d.IncludeTableOfContents == nil || *d.IncludeTableOfContents
}

// VisualsEnabled reports whether visual elements should be rendered.
func (d *ExportData) VisualsEnabled() bool {
	return d.IncludeVisuals == nil || *d.IncludeVisuals
}

// UsesVisualSections reports whether the richer section list is in effect.
func (d *ExportData) UsesVisualSections() bool {
	return len(d.SectionsWithVisuals) > 0
}

// ReadExportData decodes one JSON document model from r.
func ReadExportData(r io.Reader) (*ExportData, error) {
	var data ExportData
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode export data: %w", err)
	}
	return &data, nil
}

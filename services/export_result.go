package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// ExportResult is one generated file plus the metadata needed to deliver it.
type ExportResult struct {
	ID            uuid.UUID         `json:"id"`
	FileData      []byte            `json:"-"`
	FileName      string            `json:"fileName"`
	ContentType   string            `json:"contentType"`
	FileSizeBytes int64             `json:"fileSizeBytes"`
	Format        string            `json:"format"`
	Language      string            `json:"language"`
	Template      string            `json:"template"`
	ExportedAt    time.Time         `json:"exportedAt"`
	Statistics    *ExportStatistics `json:"statistics,omitempty"`
}

// exportFileName returns BusinessPlan_<title>_<yyyyMMdd><ext>.
func exportFileName(title string, at time.Time, ext string) string {
	name := sanitizeFilename(title)
	if name == "" {
		name = "Untitled"
	}
	return fmt.Sprintf("BusinessPlan_%s_%s%s", name, at.Format("20060102"), ext)
}

// sanitizeFilename replaces characters that are unsafe for filenames with
// underscores and collapses runs of them.
func sanitizeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return '_'
		case strings.ContainsRune(`<>:"/\|?* `, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_.")
}

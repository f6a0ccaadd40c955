package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// ExportRequest carries the per-request parameters of an export.
type ExportRequest struct {
	Language          string
	Template          string
	IncludeStatistics bool
}

// Exporter runs generators from a registry and wraps their output in an
// ExportResult.
type Exporter struct {
	registry *Registry
	opts     Options
	now      func() time.Time
}

// NewExporter returns an Exporter. A nil registry means DefaultRegistry(opts).
func NewExporter(registry *Registry, opts Options) *Exporter {
	opts = opts.withDefaults()
	if registry == nil {
		registry = DefaultRegistry(opts)
	}
	return &Exporter{registry: registry, opts: opts, now: time.Now}
}

// Registry returns the generators the exporter can use.
func (e *Exporter) Registry() *Registry {
	return e.registry
}

// Export generates one format under the configured timeout.
func (e *Exporter) Export(ctx context.Context, data *ExportData, format string, req ExportRequest) (*ExportResult, error) {
	gen, err := e.registry.Lookup(format)
	if err != nil {
		return nil, err
	}

	lang := e.normalizeLanguage(req.Language)
	tmpl := req.Template
	if tmpl == "" {
		tmpl = e.opts.Template
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	start := e.now()
	out, err := gen.Generate(ctx, data, lang)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", gen.Format(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("export %s: %w: empty output", gen.Format(), ErrGenerationFailed)
	}
	checkContentType(gen, out)

	exportedAt := e.now()
	res := &ExportResult{
		ID:            uuid.New(),
		FileData:      out,
		FileName:      exportFileName(data.Title, exportedAt, gen.FileExtension()),
		ContentType:   gen.ContentType(),
		FileSizeBytes: int64(len(out)),
		Format:        gen.Format(),
		Language:      lang,
		Template:      tmpl,
		ExportedAt:    exportedAt,
	}
	if req.IncludeStatistics {
		res.Statistics = ComputeStatistics(data)
		res.Statistics.ProcessingTime = exportedAt.Sub(start)
	}
	log.Printf("export: %s generated (%d bytes) for plan %s", res.FileName, res.FileSizeBytes, data.PlanID)
	return res, nil
}

// ExportAll generates every format in parallel. Results are in the order of
// formats; the first failure cancels the rest.
func (e *Exporter) ExportAll(ctx context.Context, data *ExportData, formats []string, req ExportRequest) ([]*ExportResult, error) {
	for _, f := range formats {
		if _, err := e.registry.Lookup(f); err != nil {
			return nil, err
		}
	}

	results := make([]*ExportResult, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			res, err := e.Export(ctx, data, f, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// normalizeLanguage returns the canonical BCP 47 form of lang, or the
// default language when lang is empty or malformed.
func (e *Exporter) normalizeLanguage(lang string) string {
	if lang == "" {
		return e.opts.DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		log.Printf("export: unknown language %q, using %q", lang, e.opts.DefaultLanguage)
		return e.opts.DefaultLanguage
	}
	return tag.String()
}

// checkContentType logs when the sniffed type of out does not match what the
// generator declares. An OOXML package that sniffs as a plain zip is accepted.
func checkContentType(gen Generator, out []byte) {
	detected := mimetype.Detect(out)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(gen.ContentType()) {
			return
		}
	}
	if detected.Is("application/zip") && strings.Contains(gen.ContentType(), "openxmlformats") {
		return
	}
	log.Printf("export_%s: output sniffed as %s, declared %s", gen.Format(), detected.String(), gen.ContentType())
}

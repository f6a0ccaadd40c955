package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
)

// Format identifiers.
const (
	FormatPDF   = "pdf"
	FormatWord  = "word"
	FormatExcel = "excel"
	FormatHTML  = "html"
)

var (
	// ErrUnknownFormat is returned when no generator is registered for a format.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrGenerationFailed wraps fatal failures inside a generator.
	ErrGenerationFailed = errors.New("document generation failed")
)

// Generator turns ExportData into the bytes of one file format.
// Generate is synchronous and CPU bound; ctx is checked before work starts
// and between sections.
type Generator interface {
	Format() string
	ContentType() string
	FileExtension() string
	Generate(ctx context.Context, data *ExportData, language string) ([]byte, error)
}

// Registry maps format identifiers to generators.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	aliases    map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		aliases:    make(map[string]string),
	}
}

// DefaultRegistry returns a registry with the PDF, Word, Excel and HTML
// generators registered, plus the docx/xlsx/htm aliases.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Register(NewPDFGenerator(opts))
	r.Register(NewWordGenerator(opts))
	r.Register(NewExcelGenerator(opts))
	r.Register(NewHTMLGenerator(opts))
	r.Alias("docx", FormatWord)
	r.Alias("xlsx", FormatExcel)
	r.Alias("htm", FormatHTML)
	return r
}

// Register adds g, replacing any generator with the same format.
func (r *Registry) Register(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[strings.ToLower(g.Format())] = g
}

// Alias makes alias resolve to format.
func (r *Registry) Alias(alias, format string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[strings.ToLower(alias)] = strings.ToLower(format)
}

// Lookup returns the generator for format, matching case-insensitively.
func (r *Registry) Lookup(format string) (Generator, error) {
	key := strings.ToLower(strings.TrimSpace(format))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	g, ok := r.generators[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return g, nil
}

// Formats lists the registered format identifiers in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.generators))
	for f := range r.generators {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// runGenerator checks ctx, then runs fn and converts a panic into
// ErrGenerationFailed so that callers never see partial output.
func runGenerator(ctx context.Context, format string, fn func() ([]byte, error)) (out []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("export_%s: panic during generation: %v\n%s", format, r, debug.Stack())
			out = nil
			err = fmt.Errorf("%w: %s: %v", ErrGenerationFailed, format, r)
		}
	}()
	out, err = fn()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrGenerationFailed, format, err)
	}
	return out, nil
}

// recoverBlock runs render and reports whether it completed without
// panicking. A panic in one visual element must not take down the document.
func recoverBlock(format string, b VisualBlock, render func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("export_%s: visual element %q failed to render: %v", format, b.ElementID, r)
			ok = false
		}
	}()
	render()
	return true
}

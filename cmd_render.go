package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"planexport/config"
	"planexport/services"
)

var (
	renderFormats  []string
	renderOutDir   string
	renderLanguage string
	renderTemplate string
	renderStats    bool
)

var renderCmd = &cobra.Command{
	Use:   "render [model.json]",
	Short: "Render a document model into export files",
	Long: `Reads a business plan document model from a JSON file (or "-" for
stdin) and writes one file per requested format to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringSliceVarP(&renderFormats, "format", "f", nil, "formats to render (default from config)")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "output directory (default from config)")
	renderCmd.Flags().StringVarP(&renderLanguage, "lang", "l", "", "document language tag")
	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "template name recorded on the export")
	renderCmd.Flags().BoolVar(&renderStats, "stats", false, "print document statistics")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := readModel(args[0])
	if err != nil {
		return err
	}

	formats := renderFormats
	if len(formats) == 0 {
		formats = cfg.Output.Formats
	}
	outDir := renderOutDir
	if outDir == "" {
		outDir = cfg.Output.Directory
	}

	exporter := newExporter(cfg)
	results, err := exporter.ExportAll(context.Background(), data, formats, services.ExportRequest{
		Language:          renderLanguage,
		Template:          renderTemplate,
		IncludeStatistics: renderStats || cfg.Export.IncludeStatistics,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownFormat) {
			return fmt.Errorf("%w (available: %v)", err, exporter.Registry().Formats())
		}
		return fmt.Errorf("render failed: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ok := color.New(color.FgGreen).SprintFunc()
	for _, res := range results {
		path := filepath.Join(outDir, res.FileName)
		if err := os.WriteFile(path, res.FileData, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		cmd.Printf("%s %-6s %s (%s)\n", ok("✓"), res.Format, path, humanize.Bytes(uint64(res.FileSizeBytes)))
	}

	if renderStats && len(results) > 0 && results[0].Statistics != nil {
		printStatistics(cmd, results[0].Statistics)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		warn := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s config %s: %v (defaults apply)\n", warn("!"), configPath, err)
	}
	return cfg, nil
}

func newExporter(cfg *config.Config) *services.Exporter {
	return services.NewExporter(nil, cfg.ExportOptions())
}

func readModel(path string) (*services.ExportData, error) {
	if path == "-" {
		return services.ReadExportData(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()
	return services.ReadExportData(f)
}

func printStatistics(cmd *cobra.Command, st *services.ExportStatistics) {
	cmd.Println()
	cmd.Println("Statistics:")
	cmd.Printf("  Sections:        %d\n", st.SectionCount)
	cmd.Printf("  Visual elements: %d (tables %d, charts %d, metrics %d, infographics %d, unknown %d)\n",
		st.VisualElementCount, st.TableCount, st.ChartCount, st.MetricCount, st.InfographicCount, st.UnknownCount)
	cmd.Printf("  Words:           %s\n", humanize.Comma(int64(st.WordCount)))
	cmd.Printf("  Estimated pages: %d\n", st.EstimatedPageCount)
	cmd.Printf("  Processing time: %s\n", st.ProcessingTime)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "planexport",
	Short: "Export business plans to PDF, Word, Excel and HTML",
	Long: `planexport renders a business plan document model (JSON) into
downloadable documents. Use "render" for files on disk or "serve" to run
the HTTP export service.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "planexport.yaml", "path to the configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"planexport/config"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available export formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		exporter := newExporter(cfg)
		for _, f := range exporter.Registry().Formats() {
			g, _ := exporter.Registry().Lookup(f)
			cmd.Printf("%-6s %-5s %s\n", f, g.FileExtension(), g.ContentType())
		}
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.InitConfig(configPath); err != nil {
			return err
		}
		cmd.Printf("%s configuration at %s\n", color.New(color.FgGreen).Sprint("✓"), configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(initConfigCmd)
}

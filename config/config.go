// Package config handles export engine configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"planexport/services"
)

// Config is the root configuration structure.
type Config struct {
	Export ExportConfig `yaml:"export"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
}

// ExportConfig holds rendering defaults.
type ExportConfig struct {
	DefaultLanguage   string `yaml:"default_language"`
	Template          string `yaml:"template"`
	BrandColor        string `yaml:"brand_color"`
	PageSize          string `yaml:"page_size"` // A4 or Letter
	PageNumberPattern string `yaml:"page_number_pattern"`
	MaxMetricCards    int    `yaml:"max_metric_cards"`
	MaxChartSeries    int    `yaml:"max_chart_series"`
	IncludeStatistics bool   `yaml:"include_statistics"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
}

// OutputConfig holds where the CLI writes files and which formats it writes
// by default.
type OutputConfig struct {
	Directory string   `yaml:"directory"`
	Formats   []string `yaml:"formats"`
}

// ServerConfig holds the settings of the HTTP export service.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	MaxBodyBytes      int64   `yaml:"max_body_bytes"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			DefaultLanguage:   "fr",
			Template:          "default",
			BrandColor:        services.DefaultBrandColor,
			PageSize:          "A4",
			PageNumberPattern: "{current} / {total}",
			MaxMetricCards:    4,
			MaxChartSeries:    3,
			IncludeStatistics: true,
			TimeoutSeconds:    60,
		},
		Output: OutputConfig{
			Directory: "./exports",
			Formats:   []string{services.FormatPDF, services.FormatWord, services.FormatExcel},
		},
		Server: ServerConfig{
			Addr:              ":8090",
			RequestsPerSecond: 2,
			Burst:             4,
			MaxBodyBytes:      10 << 20,
		},
	}
}

// Validate reports values that will be replaced by defaults when the
// configuration is turned into export options.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.RequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.Server.Burst, validation.Min(0)),
		validation.Field(&c.Server.MaxBodyBytes, validation.Min(int64(0))),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Export,
		validation.Field(&c.Export.PageSize, validation.By(func(v any) error {
			s, _ := v.(string)
			switch strings.ToUpper(s) {
			case "", "A4", "LETTER":
				return nil
			}
			return fmt.Errorf("must be A4 or Letter")
		})),
		validation.Field(&c.Export.BrandColor, validation.By(func(v any) error {
			s, _ := v.(string)
			if s == "" {
				return nil
			}
			_, err := services.ParseHexColor(s)
			return err
		})),
		validation.Field(&c.Export.MaxMetricCards, validation.Min(0)),
		validation.Field(&c.Export.MaxChartSeries, validation.Min(0)),
		validation.Field(&c.Export.TimeoutSeconds, validation.Min(0)),
	)
}

// ExportOptions maps the configuration onto engine options.
func (c *Config) ExportOptions() services.Options {
	return services.Options{
		BrandColor:        c.Export.BrandColor,
		PageSize:          c.Export.PageSize,
		PageNumberPattern: c.Export.PageNumberPattern,
		MaxMetricCards:    c.Export.MaxMetricCards,
		MaxChartSeries:    c.Export.MaxChartSeries,
		DefaultLanguage:   c.Export.DefaultLanguage,
		Template:          c.Export.Template,
		Timeout:           time.Duration(c.Export.TimeoutSeconds) * time.Second,
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}

	return Default().Save(path)
}

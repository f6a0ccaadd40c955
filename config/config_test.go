package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "fr", cfg.Export.DefaultLanguage)
	assert.Equal(t, "#2563EB", cfg.Export.BrandColor)
	assert.Equal(t, 4, cfg.Export.MaxMetricCards)
	assert.Equal(t, 3, cfg.Export.MaxChartSeries)
	assert.Equal(t, []string{"pdf", "word", "excel"}, cfg.Output.Formats)
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlText := `export:
  brand_color: "#112233"
  page_size: Letter
  timeout_seconds: 5
output:
  formats: [html]
`
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#112233", cfg.Export.BrandColor)
	assert.Equal(t, "Letter", cfg.Export.PageSize)
	assert.Equal(t, []string{"html"}, cfg.Output.Formats)
	// Untouched keys keep their defaults.
	assert.Equal(t, "fr", cfg.Export.DefaultLanguage)
	assert.Equal(t, 4, cfg.Export.MaxMetricCards)

	opts := cfg.ExportOptions()
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, "#112233", opts.BrandColor)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export: [unclosed"), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, InitConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// InitConfig leaves an existing file alone.
	cfg.Export.Template = "investor"
	require.NoError(t, cfg.Save(path))
	require.NoError(t, InitConfig(path))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "investor", cfg.Export.Template)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"letter lower case", func(c *Config) { c.Export.PageSize = "letter" }, false},
		{"unknown page size", func(c *Config) { c.Export.PageSize = "A3" }, true},
		{"bad brand color", func(c *Config) { c.Export.BrandColor = "not-a-hex-color" }, true},
		{"negative cards", func(c *Config) { c.Export.MaxMetricCards = -1 }, true},
		{"negative burst", func(c *Config) { c.Server.Burst = -2 }, true},
		{"unlimited rate", func(c *Config) { c.Server.RequestsPerSecond = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planexport/testhelpers"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeModel(t *testing.T, dir string) string {
	t.Helper()
	b, err := json.Marshal(testhelpers.SampleDocument(t))
	require.NoError(t, err)
	path := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

func TestRenderCmd_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	model := writeModel(t, dir)
	out := filepath.Join(dir, "out")

	output, err := execute(t, "render", model,
		"--config", filepath.Join(dir, "missing.yaml"),
		"--format", "pdf,xlsx",
		"--out", out,
		"--lang", "en",
		"--stats")
	require.NoError(t, err, output)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Contains(t, output, "Estimated pages: 4")
	assert.Contains(t, output, "Words:           17")
	for _, e := range entries {
		assert.Regexp(t, `^BusinessPlan_Coffee_Roastery_Expansion_\d{8}\.(pdf|xlsx)$`, e.Name())
	}
}

func TestRenderCmd_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	model := writeModel(t, dir)

	_, err := execute(t, "render", model,
		"--config", filepath.Join(dir, "missing.yaml"),
		"--format", "odt",
		"--out", dir,
		"--stats=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: [excel html pdf word]")
}

func TestRenderCmd_MissingModel(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to open model")
}

func TestInitConfigAndFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "planexport.yaml")

	output, err := execute(t, "init-config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, output, path)
	assert.FileExists(t, path)

	output, err = execute(t, "formats", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, output, "pdf")
	assert.Contains(t, output, ".docx")
	assert.Contains(t, output, "text/html; charset=utf-8")
}

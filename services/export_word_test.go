package services_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planexport/services"
	"planexport/testhelpers"
)

// readDocx returns the parts of a .docx package by name, in zip order.
func readDocx(t *testing.T, b []byte) ([]string, map[string]string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	var names []string
	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		names = append(names, f.Name)
		parts[f.Name] = string(data)
	}
	return names, parts
}

func TestWordGenerator_Package(t *testing.T) {
	g := services.NewWordGenerator(services.DefaultOptions())
	assert.Equal(t, "word", g.Format())
	assert.Equal(t, ".docx", g.FileExtension())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", g.ContentType())

	out, err := g.Generate(context.Background(), testhelpers.SampleDocument(t), "fr")
	require.NoError(t, err)

	names, parts := readDocx(t, out)
	assert.Equal(t, "[Content_Types].xml", names[0])
	for _, name := range []string{"_rels/.rels", "word/document.xml", "word/_rels/document.xml.rels", "word/styles.xml", "word/footer1.xml", "docProps/core.xml"} {
		assert.Contains(t, names, name)
	}

	// Every XML part is well formed.
	for name, body := range parts {
		if !strings.HasSuffix(name, ".xml") && !strings.HasSuffix(name, ".rels") {
			continue
		}
		dec := xml.NewDecoder(strings.NewReader(body))
		for {
			_, err := dec.Token()
			if err == io.EOF {
				break
			}
			require.NoError(t, err, "part %s", name)
		}
	}

	assert.Contains(t, parts["word/footer1.xml"], `w:instr="PAGE"`)
	assert.Contains(t, parts["word/footer1.xml"], `w:instr="NUMPAGES"`)
	assert.Contains(t, parts["docProps/core.xml"], "<dc:title>Coffee Roastery Expansion</dc:title>")
	assert.Contains(t, parts["docProps/core.xml"], "2025-01-15T09:30:00Z")
	assert.Contains(t, parts["word/styles.xml"], `w:val="8B4513"`)
}

func TestWordGenerator_Content(t *testing.T) {
	out, err := services.NewWordGenerator(services.DefaultOptions()).
		Generate(context.Background(), testhelpers.SampleDocument(t), "fr")
	require.NoError(t, err)
	_, parts := readDocx(t, out)
	doc := parts["word/document.xml"]

	// One bookmark per visual element, placeholders included.
	assert.Equal(t, 6, strings.Count(doc, `w:name="_Visual_`))

	for _, want := range []string{
		"Brûlerie du Port",
		"Table of Contents",
		"1. Executive Summary",
		"2. Financial Projections",
		"Income Statement",
		"[BAR Chart - 2 data series]",
		"[Chart rendering error]",
		"[Unsupported visual element: gauge]",
		"15.6%",
		"$2,500",
		"2,501",
		"Next-day delivery",
		`w:gridSpan w:val="3"`,
		`w:fill="FFF3CD"`,
	} {
		assert.Contains(t, doc, want)
	}
	assert.NotContains(t, doc, "3. Operations")

	// Sections appear in Order.
	exec := strings.Index(doc, ">Executive Summary<")
	ops := strings.Index(doc, ">Operations<")
	fin := strings.Index(doc, ">Financial Projections<")
	assert.True(t, exec < ops && ops < fin, "sections out of order")

	// Markup is stripped from prose.
	assert.Contains(t, doc, "Revenue grows steadily over three years.")
	assert.NotContains(t, doc, "&lt;strong&gt;")
}

func TestWordGenerator_PlainHeader(t *testing.T) {
	data := testhelpers.LegacyDocument(t)
	data.IncludeTableOfContents = testhelpers.BoolPtr(false)

	out, err := services.NewWordGenerator(services.DefaultOptions()).Generate(context.Background(), data, "en")
	require.NoError(t, err)
	_, parts := readDocx(t, out)
	doc := parts["word/document.xml"]

	assert.Contains(t, doc, "Business Plan: Legacy Plan")
	assert.Contains(t, doc, "Version 1 | Draft")
	assert.NotContains(t, doc, "Table of Contents")
	assert.Contains(t, doc, ">Management Team<")
	assert.Contains(t, parts["docProps/core.xml"], "<dc:language>en</dc:language>")
}

func TestWordGenerator_ReorderedInputIsByteIdentical(t *testing.T) {
	a := testhelpers.SampleDocument(t)
	b := testhelpers.SampleDocument(t)
	slices.Reverse(b.SectionsWithVisuals)

	g := services.NewWordGenerator(services.DefaultOptions())
	outA, err := g.Generate(context.Background(), a, "fr")
	require.NoError(t, err)
	outB, err := g.Generate(context.Background(), b, "fr")
	require.NoError(t, err)
	assert.True(t, bytes.Equal(outA, outB))
}

func TestWordGenerator_PageSize(t *testing.T) {
	opts := services.DefaultOptions()
	opts.PageSize = "Letter"
	out, err := services.NewWordGenerator(opts).Generate(context.Background(), testhelpers.LegacyDocument(t), "fr")
	require.NoError(t, err)
	_, parts := readDocx(t, out)
	assert.Contains(t, parts["word/document.xml"], `w:w="12240" w:h="15840"`)
}

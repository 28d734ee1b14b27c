package textextract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_PlainText(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "notes.md", []byte("# Week 1\r\n\r\nArrays   and\tlists\n"))

	res := NewExtractor(0).Extract(p)
	assert.Empty(t, res.Error)
	assert.Equal(t, "# Week 1\n\nArrays and lists", res.Text)
}

func TestExtract_DOCX(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Linked </w:t></w:r><w:r><w:t>Lists</w:t></w:r></w:p>
<w:p><w:r><w:t>Stack operations</w:t></w:r></w:p>
</w:body>
</w:document>`
	dir := t.TempDir()
	p := writeFile(t, dir, "lecture.docx", buildZip(t, map[string]string{"word/document.xml": doc}))

	res := NewExtractor(0).Extract(p)
	require.Empty(t, res.Error)
	assert.Equal(t, "Linked Lists\nStack operations", res.Text)
}

func TestExtract_PPTX(t *testing.T) {
	slide := func(text string) string {
		return `<p:sld xmlns:p="p" xmlns:a="a"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
	}
	dir := t.TempDir()
	p := writeFile(t, dir, "deck.pptx", buildZip(t, map[string]string{
		"ppt/slides/slide10.xml":           slide("Ten"),
		"ppt/slides/slide2.xml":            slide("Two"),
		"ppt/slides/slide1.xml":            slide("One"),
		"ppt/slides/_rels/slide1.xml.rels": "<Relationships/>",
		"ppt/presentation.xml":             "<p:presentation/>",
	}))

	res := NewExtractor(0).Extract(p)
	require.Empty(t, res.Error)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, "One\n\nTwo\n\nTen", res.Text)
}

func TestExtract_Failures(t *testing.T) {
	dir := t.TempDir()
	ex := NewExtractor(0)

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{name: "fake pdf", file: "a.pdf", data: []byte("not a pdf at all")},
		{name: "corrupt pdf", file: "b.pdf", data: []byte("%PDF-1.4 garbage")},
		{name: "fake docx", file: "c.docx", data: []byte("plain text")},
		{name: "docx without body", file: "d.docx", data: buildZip(t, map[string]string{"other.xml": "<x/>"})},
		{name: "empty", file: "e.txt", data: []byte{}},
		{name: "unsupported", file: "f.png", data: []byte{0x89, 'P', 'N', 'G'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.file, tt.data)
			var res Extraction
			assert.NotPanics(t, func() { res = ex.Extract(p) })
			assert.NotEmpty(t, res.Error)
			assert.Empty(t, res.Text)
		})
	}

	res := ex.Extract(filepath.Join(dir, "missing.txt"))
	assert.NotEmpty(t, res.Error)
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(".PDF"))
	assert.True(t, Allowed(".md"))
	assert.False(t, Allowed(".png"))
	assert.False(t, Allowed(""))
}

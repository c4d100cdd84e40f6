package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearpoint/internal/domain"
)

var emailPattern = regexp.MustCompile(`(?i)[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

func buildArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			content, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(content)
		}
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func minimalDoc(body string) map[string]string {
	return map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		"word/document.xml":   `<?xml version="1.0"?><w:document><w:body>` + body + `</w:body></w:document>`,
		"docProps/core.xml": `<?xml version="1.0"?><cp:coreProperties>` +
			`<dc:title>Offer Letter</dc:title><dc:creator>Jordan HR</dc:creator>` +
			`<cp:lastModifiedBy>Jordan HR</cp:lastModifiedBy></cp:coreProperties>`,
	}
}

func TestRedactPatternsMasksRunText(t *testing.T) {
	doc := buildArchive(t, minimalDoc(`<w:p><w:r><w:t>Send to alice@example.com today</w:t></w:r></w:p>`))
	out, err := RedactPatterns(doc, []*regexp.Regexp{emailPattern})
	require.NoError(t, err)

	body := readEntry(t, out, "word/document.xml")
	assert.NotContains(t, body, "alice@example.com")
	assert.Contains(t, body, "█████")
	assert.Contains(t, body, "Send to")
}

func TestRedactPatternsMasksHeadersAndFooters(t *testing.T) {
	entries := minimalDoc(`<w:p><w:r><w:t>body</w:t></w:r></w:p>`)
	entries["word/header1.xml"] = `<w:hdr><w:p><w:r><w:t>call 555-123-4567</w:t></w:r></w:p></w:hdr>`
	doc := buildArchive(t, entries)

	phone := regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	out, err := RedactPatterns(doc, []*regexp.Regexp{phone})
	require.NoError(t, err)

	header := readEntry(t, out, "word/header1.xml")
	assert.NotContains(t, header, "555-123-4567")
	assert.Contains(t, header, "█████")
}

func TestRedactPatternsPreservesUnmatchedRuns(t *testing.T) {
	doc := buildArchive(t, minimalDoc(`<w:p><w:r><w:t xml:space="preserve">Smith &amp; Jones</w:t></w:r></w:p>`))
	out, err := RedactPatterns(doc, []*regexp.Regexp{emailPattern})
	require.NoError(t, err)

	body := readEntry(t, out, "word/document.xml")
	assert.Contains(t, body, `<w:t xml:space="preserve">Smith &amp; Jones</w:t>`)
}

func TestRedactPatternsEscapesMaskedRuns(t *testing.T) {
	doc := buildArchive(t, minimalDoc(`<w:p><w:r><w:t>alice@example.com &amp; co</w:t></w:r></w:p>`))
	out, err := RedactPatterns(doc, []*regexp.Regexp{emailPattern})
	require.NoError(t, err)

	body := readEntry(t, out, "word/document.xml")
	assert.Contains(t, body, "█████ &amp; co")
}

func TestRedactPatternsBlanksCoreProperties(t *testing.T) {
	doc := buildArchive(t, minimalDoc(`<w:p><w:r><w:t>hello</w:t></w:r></w:p>`))
	out, err := RedactPatterns(doc, nil)
	require.NoError(t, err)

	core := readEntry(t, out, "docProps/core.xml")
	assert.Contains(t, core, "<dc:title></dc:title>")
	assert.Contains(t, core, "<dc:creator></dc:creator>")
	assert.NotContains(t, core, "Offer Letter")
	assert.NotContains(t, core, "Jordan HR")
}

func TestRedactPatternsCopiesOtherEntriesVerbatim(t *testing.T) {
	entries := minimalDoc(`<w:p><w:r><w:t>hello</w:t></w:r></w:p>`)
	entries["word/media/image1.bin"] = "\x00\x01binary payload\x02"
	doc := buildArchive(t, entries)

	out, err := RedactPatterns(doc, []*regexp.Regexp{emailPattern})
	require.NoError(t, err)
	assert.Equal(t, "\x00\x01binary payload\x02", readEntry(t, out, "word/media/image1.bin"))
}

func TestRedactPatternsRejectsNonArchive(t *testing.T) {
	_, err := RedactPatterns([]byte("plain text, not a zip"), nil)
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
}

func TestRedactPatternsRejectsArchiveWithoutDocument(t *testing.T) {
	doc := buildArchive(t, map[string]string{"readme.txt": "nope"})
	_, err := RedactPatterns(doc, nil)
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
}

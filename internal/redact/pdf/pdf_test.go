package pdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearpoint/internal/domain"
)

var emailPattern = regexp.MustCompile(`(?i)[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// buildFixture assembles a one-page letter-size PDF around the given content
// stream. Cross-reference offsets are deliberately left stale; the loader
// scans for objects instead of trusting them.
func buildFixture(content string, compress bool) []byte {
	payload := []byte(content)
	filter := ""
	if compress {
		var zbuf bytes.Buffer
		zw := zlib.NewWriter(&zbuf)
		zw.Write(payload)
		zw.Close()
		payload = zbuf.Bytes()
		filter = " /Filter /FlateDecode"
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>\nendobj\n")
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /Contents 4 0 R /Resources << /Font << /F1 6 0 R >> >> >>\nendobj\n")
	fmt.Fprintf(&buf, "4 0 obj\n<< /Length %d%s >>\nstream\n", len(payload), filter)
	buf.Write(payload)
	buf.WriteString("\nendstream\nendobj\n")
	buf.WriteString("5 0 obj\n<< /Title (Confidential Plan) /Author (Casey Author) /Producer (clearpoint-test) /Creator (clearpoint-test) >>\nendobj\n")
	buf.WriteString("6 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")
	buf.WriteString("trailer\n<< /Size 7 /Root 1 0 R /Info 5 0 R >>\nstartxref\n0\n%%EOF\n")
	return buf.Bytes()
}

func TestLoadRejectsNonPDF(t *testing.T) {
	_, err := RedactPatterns([]byte("just some text"), nil)
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)

	_, err = ExtractText([]byte("%PDF-1.4\ngarbage with no objects"))
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
}

func TestExtractText(t *testing.T) {
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (Quarterly review) Tj ET", false)
	text, err := ExtractText(doc)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly review", strings.TrimSpace(text))
}

func TestRedactPatternsMasksMatches(t *testing.T) {
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (Contact alice@example.com today) Tj ET", true)
	out, err := RedactPatterns(doc, []*regexp.Regexp{emailPattern})
	require.NoError(t, err)

	text, err := ExtractText(out)
	require.NoError(t, err)
	assert.NotContains(t, text, "alice@example.com")
	assert.Contains(t, text, "█████")
	assert.Contains(t, text, "Contact")
	assert.Contains(t, text, "today")
}

func TestRedactPatternsMatchesAcrossKernedSegments(t *testing.T) {
	doc := buildFixture("BT /F1 12 Tf 72 720 Td [(al) -20 (ice@example.com rest)] TJ ET", false)
	out, err := RedactPatterns(doc, []*regexp.Regexp{emailPattern})
	require.NoError(t, err)

	text, err := ExtractText(out)
	require.NoError(t, err)
	assert.NotContains(t, text, "ice@example.com")
	assert.Contains(t, text, "█████")
	assert.Contains(t, text, "rest")
}

func TestRedactPatternsStripsInfoMetadata(t *testing.T) {
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (hello) Tj ET", false)
	out, err := RedactPatterns(doc, nil)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "Confidential Plan")
	assert.NotContains(t, string(out), "Casey Author")
	assert.NotContains(t, string(out), "clearpoint-test")
}

func TestRedactRegionsFullPageRemovesAllText(t *testing.T) {
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (top secret) Tj 0 -620 Td (more secrets) Tj ET", true)
	out, err := RedactRegions(doc, []Rect{{Page: 0, X: 0, Y: 0, W: 612, H: 792}}, 1)
	require.NoError(t, err)

	text, err := ExtractText(out)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(text))
}

func TestRedactRegionsKeepsTextOutsideRegion(t *testing.T) {
	// Region covers the top 200 preview pixels at 1:1 scale, so text at
	// y=720 (within 592..792 in page space) goes and text at y=100 stays.
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (secret header) Tj 0 -620 Td (keep this) Tj ET", false)
	out, err := RedactRegions(doc, []Rect{{Page: 0, X: 0, Y: 0, W: 612, H: 200}}, 1)
	require.NoError(t, err)

	text, err := ExtractText(out)
	require.NoError(t, err)
	assert.NotContains(t, text, "secret header")
	assert.Contains(t, text, "keep this")
}

func TestRedactRegionsScalesPreviewCoordinates(t *testing.T) {
	// Preview rendered at 144 DPI halves to page space: a 400px-tall
	// region from the top covers 200pt, page y 592..792.
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (secret header) Tj 0 -620 Td (keep this) Tj ET", false)
	out, err := RedactRegions(doc, []Rect{{Page: 0, X: 0, Y: 0, W: 1224, H: 400}}, 0.5)
	require.NoError(t, err)

	text, err := ExtractText(out)
	require.NoError(t, err)
	assert.NotContains(t, text, "secret header")
	assert.Contains(t, text, "keep this")
}

func TestRedactRegionsAppendsOpaqueFill(t *testing.T) {
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (covered) Tj ET", false)
	out, err := RedactRegions(doc, []Rect{{Page: 0, X: 10, Y: 10, W: 100, H: 50}}, 1)
	require.NoError(t, err)

	d, err := load(out)
	require.NoError(t, err)
	require.NotEmpty(t, d.pages)
	require.NotEmpty(t, d.pages[0].contents)
	decoded, err := d.decodeStream(d.objects[d.pages[0].contents[0]])
	require.NoError(t, err)
	content := string(decoded)
	assert.Contains(t, content, "0 0 0 rg")
	assert.Contains(t, content, "re")
	assert.Contains(t, content, "f")
}

func TestRedactRegionsRejectsMissingPage(t *testing.T) {
	doc := buildFixture("BT (x) Tj ET", false)
	_, err := RedactRegions(doc, []Rect{{Page: 2, X: 0, Y: 0, W: 10, H: 10}}, 1)
	assert.ErrorIs(t, err, domain.ErrRegionOutOfBounds)
}

func TestRedactRegionsDropsOverlappingXObjects(t *testing.T) {
	content := "q 200 0 0 100 50 600 cm /Im1 Do Q BT /F1 12 Tf 72 100 Td (caption) Tj ET"
	doc := buildFixture(content, false)
	out, err := RedactRegions(doc, []Rect{{Page: 0, X: 0, Y: 0, W: 612, H: 200}}, 1)
	require.NoError(t, err)

	d, err := load(out)
	require.NoError(t, err)
	decoded, err := d.decodeStream(d.objects[d.pages[0].contents[0]])
	require.NoError(t, err)
	assert.NotContains(t, string(decoded), "Do")

	text, err := ExtractText(out)
	require.NoError(t, err)
	assert.Contains(t, text, "caption")
}

func TestRewrittenFileReloads(t *testing.T) {
	doc := buildFixture("BT /F1 12 Tf 72 720 Td (stable output) Tj ET", true)
	out, err := RedactPatterns(doc, nil)
	require.NoError(t, err)

	again, err := RedactPatterns(out, nil)
	require.NoError(t, err)
	text, err := ExtractText(again)
	require.NoError(t, err)
	assert.Contains(t, text, "stable output")
}

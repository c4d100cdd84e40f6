// Package docx redacts Word documents by rewriting the text runs inside the
// OOXML archive in place. The archive is copied entry by entry; only the
// paragraph-bearing parts and the core properties are touched, so styles,
// media, and relationships survive byte for byte.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"clearpoint/internal/domain"
)

const mask = "█████"

var (
	runTextRe   = regexp.MustCompile(`(?s)(<w:t(?:\s[^>]*)?>)(.*?)(</w:t>)`)
	textPartRe  = regexp.MustCompile(`^word/(document|header\d*|footer\d*)\.xml$`)
	corePartsRe = []*regexp.Regexp{
		regexp.MustCompile(`(?s)(<dc:title(?:\s[^>]*)?>).*?(</dc:title>)`),
		regexp.MustCompile(`(?s)(<dc:creator(?:\s[^>]*)?>).*?(</dc:creator>)`),
		regexp.MustCompile(`(?s)(<cp:lastModifiedBy(?:\s[^>]*)?>).*?(</cp:lastModifiedBy>)`),
	}
)

// RedactPatterns masks every pattern match in the document body, headers,
// and footers, and blanks the identifying core properties. Entries other
// than the rewritten parts are copied through unmodified.
func RedactPatterns(data []byte, patterns []*regexp.Regexp) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	sawDocument := false
	for _, f := range zr.File {
		switch {
		case textPartRe.MatchString(f.Name):
			if f.Name == "word/document.xml" {
				sawDocument = true
			}
			if err := rewriteEntry(zw, f, func(xml []byte) []byte {
				return maskRunText(xml, patterns)
			}); err != nil {
				return nil, err
			}
		case f.Name == "docProps/core.xml":
			if err := rewriteEntry(zw, f, blankCoreProperties); err != nil {
				return nil, err
			}
		default:
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
		}
	}
	if !sawDocument {
		return nil, fmt.Errorf("%w: archive has no word/document.xml", domain.ErrDocumentLoad)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return out.Bytes(), nil
}

func rewriteEntry(zw *zip.Writer, f *zip.File, transform func([]byte) []byte) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrDocumentLoad, f.Name, err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrDocumentLoad, f.Name, err)
	}
	w, err := zw.Create(f.Name)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}
	if _, err := w.Write(transform(content)); err != nil {
		return fmt.Errorf("write %s: %w", f.Name, err)
	}
	return nil
}

// maskRunText applies the patterns to the text of every w:t run. Runs whose
// text does not match are emitted verbatim, preserving their original
// entity encoding.
func maskRunText(xml []byte, patterns []*regexp.Regexp) []byte {
	if len(patterns) == 0 {
		return xml
	}
	return runTextRe.ReplaceAllFunc(xml, func(run []byte) []byte {
		m := runTextRe.FindSubmatch(run)
		text := unescapeXML(string(m[2]))
		masked := text
		for _, p := range patterns {
			masked = p.ReplaceAllString(masked, mask)
		}
		if masked == text {
			return run
		}
		var buf bytes.Buffer
		buf.Write(m[1])
		buf.WriteString(escapeXML(masked))
		buf.Write(m[3])
		return buf.Bytes()
	})
}

func blankCoreProperties(xml []byte) []byte {
	for _, re := range corePartsRe {
		xml = re.ReplaceAll(xml, []byte("$1$2"))
	}
	return xml
}

var (
	xmlEscaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	xmlUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
)

func escapeXML(s string) string   { return xmlEscaper.Replace(s) }
func unescapeXML(s string) string { return xmlUnescaper.Replace(s) }

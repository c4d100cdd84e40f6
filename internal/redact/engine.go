package redact

import (
	"fmt"
	"path/filepath"
	"strings"

	"clearpoint/internal/domain"
	"clearpoint/internal/redact/docx"
	"clearpoint/internal/redact/img"
	"clearpoint/internal/redact/pdf"
)

// Input is one redaction request: the uploaded document plus the selected
// detectors and any explicit regions.
type Input struct {
	Filename string
	Data     []byte
	Patterns PatternOptions
	Regions  []Region
}

// Output is the redacted document ready for download.
type Output struct {
	Data        []byte
	Filename    string
	ContentType string
	Kind        domain.FileKind
	// NonTargeted is set when the engine had to fall back to a
	// whole-document transform (blurring a raster image for pattern
	// requests) instead of removing only the matched content.
	NonTargeted bool
}

// Engine dispatches redaction requests by file type. Regions take precedence
// over patterns for paged documents; structured documents without page
// geometry (DOCX) only support pattern redaction, and requests pairing them
// with regions are rejected.
type Engine struct {
	previewDPI float64
}

func NewEngine(previewDPI float64) *Engine {
	if previewDPI <= 0 {
		previewDPI = 150
	}
	return &Engine{previewDPI: previewDPI}
}

// Redact validates and processes one request. The file type is determined by
// the filename extension alone; unsupported extensions are rejected before any
// content is read. A request with no detectors and no regions returns the
// input unchanged, in its original format.
func (e *Engine) Redact(in Input) (*Output, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(in.Filename), "."))
	kind, ok := domain.RedactableExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}
	if err := ValidateRegions(in.Regions); err != nil {
		return nil, err
	}

	if in.Patterns.Empty() && len(in.Regions) == 0 {
		return &Output{
			Data:        in.Data,
			Filename:    redactedName(in.Filename, ext),
			ContentType: passthroughContentType(kind, ext),
			Kind:        kind,
		}, nil
	}

	out := &Output{
		Filename:    redactedName(in.Filename, ext),
		ContentType: domain.RedactionContentTypes[kind],
		Kind:        kind,
	}

	var err error
	switch kind {
	case domain.FileKindPDF:
		if len(in.Regions) > 0 {
			out.Data, err = pdf.RedactRegions(in.Data, pdfRects(in.Regions), previewScale(e.previewDPI))
		} else {
			out.Data, err = pdf.RedactPatterns(in.Data, in.Patterns.Compile())
		}
	case domain.FileKindDOCX:
		if len(in.Regions) > 0 {
			return nil, fmt.Errorf("%w: docx documents have no page geometry", domain.ErrRegionOutOfBounds)
		}
		out.Data, err = docx.RedactPatterns(in.Data, in.Patterns.Compile())
	case domain.FileKindJPG, domain.FileKindPNG:
		if len(in.Regions) > 0 {
			for _, r := range in.Regions {
				if r.Page != 0 {
					return nil, fmt.Errorf("%w: page index %d on a single-page image", domain.ErrRegionOutOfBounds, r.Page)
				}
			}
			out.Data, err = img.FillRegions(in.Data, imgRects(in.Regions))
		} else {
			out.Data, err = img.Blur(in.Data)
			out.NonTargeted = true
		}
	default:
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func pdfRects(regions []Region) []pdf.Rect {
	rects := make([]pdf.Rect, len(regions))
	for i, r := range regions {
		rects[i] = pdf.Rect{Page: r.Page, X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	return rects
}

func imgRects(regions []Region) []img.Rect {
	rects := make([]img.Rect, len(regions))
	for i, r := range regions {
		rects[i] = img.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	return rects
}

// redactedName prefixes the original base name and normalizes the extension
// for formats the engine transcodes (JPEG uploads come back as PNG).
func redactedName(filename, ext string) string {
	base := filepath.Base(filename)
	if ext == "jpg" || ext == "jpeg" {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	}
	return "redacted_" + base
}

func passthroughContentType(kind domain.FileKind, ext string) string {
	if ext == "jpg" || ext == "jpeg" {
		return "image/jpeg"
	}
	return domain.RedactionContentTypes[kind]
}

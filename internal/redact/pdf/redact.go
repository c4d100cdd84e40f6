package pdf

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"clearpoint/internal/domain"
)

// Rect is a redaction rectangle in preview coordinates (top-left origin,
// y growing down) with a zero-based page index.
type Rect struct {
	Page       int
	X, Y, W, H float64
}

// pageRect is a rectangle in PDF user space (bottom-left origin).
type pageRect struct {
	x0, y0, x1, y1 float64
}

func (r pageRect) containsPoint(x, y float64) bool {
	return x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

func (r pageRect) intersects(x0, y0, x1, y1 float64) bool {
	return x0 < r.x1 && x1 > r.x0 && y0 < r.y1 && y1 > r.y0
}

// RedactPatterns rewrites every text-showing operand across all pages,
// masking pattern matches, and strips the identifying document information
// fields. The output is a full rewrite of the file.
func RedactPatterns(data []byte, patterns []*regexp.Regexp) ([]byte, error) {
	d, err := load(data)
	if err != nil {
		return nil, err
	}
	for _, page := range d.pages {
		for _, num := range page.contents {
			obj := d.objects[num]
			if obj == nil || obj.kind != kindStream {
				continue
			}
			decoded, err := d.decodeStream(obj)
			if err != nil {
				return nil, fmt.Errorf("%w: content stream %d: %v", domain.ErrDocumentLoad, num, err)
			}
			ops, err := parseContent(decoded)
			if err != nil {
				return nil, fmt.Errorf("%w: content stream %d: %v", domain.ErrDocumentLoad, num, err)
			}
			changed := false
			for i := range ops {
				if maskShowOp(&ops[i], patterns) {
					changed = true
				}
			}
			if changed {
				obj.setContent(serializeContent(ops))
			}
		}
	}
	d.stripInfo()
	return d.write()
}

// maskShowOp applies the patterns to the text operand of one text-showing
// operation. A TJ array is matched against its concatenated text so matches
// spanning kerned segments are still caught; a masked TJ collapses to a
// single segment.
func maskShowOp(op *contentOp, patterns []*regexp.Regexp) bool {
	switch op.op {
	case "Tj", "'":
		return maskStringOperand(op, len(op.operands)-1, patterns)
	case "\"":
		return maskStringOperand(op, 2, patterns)
	case "TJ":
		if len(op.operands) != 1 || op.operands[0].kind != kindArray {
			return false
		}
		var sb strings.Builder
		for _, el := range op.operands[0].arr {
			if el.kind == kindString {
				sb.WriteString(decodeText(el.str))
			}
		}
		text := sb.String()
		masked := text
		for _, p := range patterns {
			masked = p.ReplaceAllString(masked, maskGlyphs)
		}
		if masked == text {
			return false
		}
		op.operands[0].arr = []*object{newString([]byte(masked))}
		return true
	}
	return false
}

func maskStringOperand(op *contentOp, idx int, patterns []*regexp.Regexp) bool {
	if idx < 0 || idx >= len(op.operands) || op.operands[idx].kind != kindString {
		return false
	}
	text := decodeText(op.operands[idx].str)
	masked := text
	for _, p := range patterns {
		masked = p.ReplaceAllString(masked, maskGlyphs)
	}
	if masked == text {
		return false
	}
	op.operands[idx] = newString([]byte(masked))
	return true
}

const maskGlyphs = "█████"

// decodeText interprets a show-operand byte string as text. Strings our own
// writer produced are UTF-8; anything else is treated as a single-byte
// encoding. Composite-font code spaces are not mapped, so matches inside CID
// text are not detected.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// stripInfo removes the identifying entries from the document information
// dictionary. Non-identifying entries such as dates are left alone.
func (d *document) stripInfo() {
	info := d.resolve(d.trailer["Info"])
	if info == nil || info.dict == nil {
		return
	}
	for _, key := range []string{"Title", "Author", "Producer", "Creator"} {
		delete(info.dict, key)
	}
}

// RedactRegions destructively removes page content inside the given
// rectangles and paints opaque fills over them. Text is dropped when its
// pen origin lands inside a region; images and form XObjects are dropped
// when their painted bounds overlap one. scale converts preview pixels to
// PDF points. Any region addressing a page the document does not have
// rejects the whole request.
func RedactRegions(data []byte, rects []Rect, scale float64) ([]byte, error) {
	d, err := load(data)
	if err != nil {
		return nil, err
	}
	byPage := make(map[int][]pageRect)
	for i, r := range rects {
		if r.Page >= len(d.pages) {
			return nil, fmt.Errorf("%w: region %d addresses page %d of a %d-page document",
				domain.ErrRegionOutOfBounds, i, r.Page, len(d.pages))
		}
		mb := d.pages[r.Page].mediaBox
		pr := pageRect{
			x0: mb[0] + r.X*scale,
			x1: mb[0] + (r.X+r.W)*scale,
			y0: mb[3] - (r.Y+r.H)*scale,
			y1: mb[3] - r.Y*scale,
		}
		byPage[r.Page] = append(byPage[r.Page], pr)
	}

	for pageIdx, regions := range byPage {
		if err := d.redactPageRegions(d.pages[pageIdx], regions); err != nil {
			return nil, err
		}
	}
	return d.write()
}

// redactPageRegions rewrites one page's content. The page's streams form a
// single instruction sequence, so they are decoded together and the result
// is written back into the first stream, leaving the rest empty.
func (d *document) redactPageRegions(page *pageInfo, regions []pageRect) error {
	if len(page.contents) == 0 {
		return nil
	}
	var combined []byte
	for _, num := range page.contents {
		obj := d.objects[num]
		if obj == nil || obj.kind != kindStream {
			continue
		}
		decoded, err := d.decodeStream(obj)
		if err != nil {
			return fmt.Errorf("%w: content stream %d: %v", domain.ErrDocumentLoad, num, err)
		}
		combined = append(combined, decoded...)
		combined = append(combined, '\n')
	}
	ops, err := parseContent(combined)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}

	walker := newTextWalker()
	kept := []contentOp{{op: "q"}}
	for _, op := range ops {
		x, y, paints := walker.advance(op)
		if paints && dropPainted(walker, op, x, y, regions) {
			continue
		}
		kept = append(kept, op)
	}
	kept = append(kept, contentOp{op: "Q"}, contentOp{op: "q"})
	kept = append(kept, contentOp{operands: []*object{newNumber(0), newNumber(0), newNumber(0)}, op: "rg"})
	for _, r := range regions {
		kept = append(kept, contentOp{
			operands: []*object{newNumber(r.x0), newNumber(r.y0), newNumber(r.x1 - r.x0), newNumber(r.y1 - r.y0)},
			op:       "re",
		})
	}
	kept = append(kept, contentOp{op: "f"}, contentOp{op: "Q"})

	first := d.objects[page.contents[0]]
	first.setContent(serializeContent(kept))
	for _, num := range page.contents[1:] {
		if obj := d.objects[num]; obj != nil && obj.kind == kindStream {
			obj.setContent(nil)
		}
	}
	return nil
}

func dropPainted(walker *textWalker, op contentOp, x, y float64, regions []pageRect) bool {
	if op.op == "Do" {
		bx0, by0, bx1, by1 := walker.xobjectBounds()
		for _, r := range regions {
			if r.intersects(bx0, by0, bx1, by1) {
				return true
			}
		}
		return false
	}
	for _, r := range regions {
		if r.containsPoint(x, y) {
			return true
		}
	}
	return false
}

// ExtractText returns the text shown by every page's content streams, one
// line per text-showing operation. It exists for verifying redaction output
// and intentionally ignores font encodings beyond the byte level.
func ExtractText(data []byte) (string, error) {
	d, err := load(data)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, page := range d.pages {
		for _, num := range page.contents {
			obj := d.objects[num]
			if obj == nil || obj.kind != kindStream {
				continue
			}
			decoded, err := d.decodeStream(obj)
			if err != nil {
				return "", fmt.Errorf("%w: content stream %d: %v", domain.ErrDocumentLoad, num, err)
			}
			ops, err := parseContent(decoded)
			if err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
			}
			for _, op := range ops {
				if text, ok := showOpText(op); ok && text != "" {
					sb.WriteString(text)
					sb.WriteByte('\n')
				}
			}
		}
	}
	return sb.String(), nil
}

func showOpText(op contentOp) (string, bool) {
	switch op.op {
	case "Tj", "'":
		if n := len(op.operands); n > 0 && op.operands[n-1].kind == kindString {
			return decodeText(op.operands[n-1].str), true
		}
	case "\"":
		if len(op.operands) == 3 && op.operands[2].kind == kindString {
			return decodeText(op.operands[2].str), true
		}
	case "TJ":
		if len(op.operands) == 1 && op.operands[0].kind == kindArray {
			var sb strings.Builder
			for _, el := range op.operands[0].arr {
				if el.kind == kindString {
					sb.WriteString(decodeText(el.str))
				}
			}
			return sb.String(), true
		}
	}
	return "", false
}

package pdf

import (
	"bytes"
	"fmt"
	"strings"
)

// contentOp is one content-stream instruction: its operand list and operator.
// Inline images (BI..EI) are carried verbatim in raw and never rewritten.
type contentOp struct {
	operands []*object
	op       string
	raw      []byte
}

// parseContent tokenizes a decoded content stream into operations.
func parseContent(data []byte) ([]contentOp, error) {
	lx := &lexer{data: data}
	var ops []contentOp
	var operands []*object
	for {
		lx.skipWS()
		c, ok := lx.peek()
		if !ok {
			return ops, nil
		}
		if c == '(' || c == '<' || c == '/' || c == '[' || c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
			val, err := lx.parseValue(nil)
			if err != nil {
				return nil, fmt.Errorf("content stream operand: %w", err)
			}
			operands = append(operands, val)
			continue
		}
		word := lx.readBareWord()
		if word == "" {
			return nil, fmt.Errorf("stray byte %q in content stream", c)
		}
		switch word {
		case "true":
			operands = append(operands, &object{kind: kindBool, boolV: true})
		case "false":
			operands = append(operands, &object{kind: kindBool})
		case "null":
			operands = append(operands, &object{kind: kindNull})
		case "BI":
			raw, err := readInlineImage(lx)
			if err != nil {
				return nil, err
			}
			ops = append(ops, contentOp{op: "BI", raw: raw})
			operands = nil
		default:
			ops = append(ops, contentOp{operands: operands, op: word})
			operands = nil
		}
	}
}

// readInlineImage captures the full BI..EI block, including the binary
// payload between ID and EI.
func readInlineImage(lx *lexer) ([]byte, error) {
	start := lx.pos - len("BI")
	idx := bytes.Index(lx.data[lx.pos:], []byte("ID"))
	if idx < 0 {
		return nil, fmt.Errorf("inline image without ID marker")
	}
	scan := lx.pos + idx + len("ID")
	for {
		rel := bytes.Index(lx.data[scan:], []byte("EI"))
		if rel < 0 {
			return nil, fmt.Errorf("unterminated inline image")
		}
		end := scan + rel
		after := end + len("EI")
		if isWhitespace(lx.data[end-1]) && (after >= len(lx.data) || isWhitespace(lx.data[after]) || isDelimiter(lx.data[after])) {
			lx.pos = after
			return lx.data[start:after], nil
		}
		scan = end + len("EI")
	}
}

// serializeContent re-emits operations as content-stream text.
func serializeContent(ops []contentOp) []byte {
	var sb strings.Builder
	for _, op := range ops {
		if op.raw != nil {
			sb.Write(op.raw)
			sb.WriteByte('\n')
			continue
		}
		for _, operand := range op.operands {
			writeValue(&sb, operand)
			sb.WriteByte(' ')
		}
		sb.WriteString(op.op)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

func identityMatrix() matrix { return matrix{1, 0, 0, 1, 0, 0} }

// mul returns m concatenated with n (m applied first).
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translation(tx, ty float64) matrix { return matrix{1, 0, 0, 1, tx, ty} }

func matrixFromOperands(operands []*object) (matrix, bool) {
	if len(operands) != 6 {
		return identityMatrix(), false
	}
	var m matrix
	for i, o := range operands {
		if o.kind != kindNumber {
			return identityMatrix(), false
		}
		m[i] = o.num
	}
	return m, true
}

// textWalker tracks the graphics and text state across a page's content
// stream, reporting the device-space origin of every text-showing and
// XObject-painting operation.
type textWalker struct {
	ctm      matrix
	ctmStack []matrix
	tm       matrix // text matrix
	tlm      matrix // text line matrix
	leading  float64
	inText   bool
}

func newTextWalker() *textWalker {
	return &textWalker{ctm: identityMatrix(), tm: identityMatrix(), tlm: identityMatrix()}
}

// advance updates the tracked state for one operation. It returns the device
// position at which the operation paints, and whether the operation paints
// text or an XObject at all.
func (w *textWalker) advance(op contentOp) (x, y float64, paints bool) {
	switch op.op {
	case "q":
		w.ctmStack = append(w.ctmStack, w.ctm)
	case "Q":
		if n := len(w.ctmStack); n > 0 {
			w.ctm = w.ctmStack[n-1]
			w.ctmStack = w.ctmStack[:n-1]
		}
	case "cm":
		if m, ok := matrixFromOperands(op.operands); ok {
			w.ctm = m.mul(w.ctm)
		}
	case "BT":
		w.inText = true
		w.tm = identityMatrix()
		w.tlm = identityMatrix()
	case "ET":
		w.inText = false
	case "TL":
		if len(op.operands) == 1 && op.operands[0].kind == kindNumber {
			w.leading = op.operands[0].num
		}
	case "Td":
		w.translateLine(op.operands)
	case "TD":
		if len(op.operands) == 2 && op.operands[1].kind == kindNumber {
			w.leading = -op.operands[1].num
		}
		w.translateLine(op.operands)
	case "Tm":
		if m, ok := matrixFromOperands(op.operands); ok {
			w.tm = m
			w.tlm = m
		}
	case "T*":
		w.nextLine()
	case "Tj", "TJ":
		x, y = w.tm.mul(w.ctm).apply(0, 0)
		return x, y, true
	case "'", "\"":
		w.nextLine()
		x, y = w.tm.mul(w.ctm).apply(0, 0)
		return x, y, true
	case "Do":
		x, y = w.ctm.apply(0, 0)
		return x, y, true
	}
	return 0, 0, false
}

func (w *textWalker) translateLine(operands []*object) {
	if len(operands) != 2 || operands[0].kind != kindNumber || operands[1].kind != kindNumber {
		return
	}
	w.tlm = translation(operands[0].num, operands[1].num).mul(w.tlm)
	w.tm = w.tlm
}

func (w *textWalker) nextLine() {
	w.tlm = translation(0, -w.leading).mul(w.tlm)
	w.tm = w.tlm
}

// xobjectBounds maps the XObject unit square through the current CTM and
// returns its axis-aligned device bounds.
func (w *textWalker) xobjectBounds() (x0, y0, x1, y1 float64) {
	corners := [4][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, c := range corners {
		px, py := w.ctm.apply(c[0], c[1])
		if i == 0 {
			x0, y0, x1, y1 = px, py, px, py
			continue
		}
		if px < x0 {
			x0 = px
		}
		if px > x1 {
			x1 = px
		}
		if py < y0 {
			y0 = py
		}
		if py > y1 {
			y1 = py
		}
	}
	return x0, y0, x1, y1
}

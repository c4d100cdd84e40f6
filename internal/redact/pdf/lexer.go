package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var errEOF = errors.New("unexpected end of input")

// lexer reads PDF object syntax from a byte slice. The same machinery parses
// file-body objects, object-stream payloads, and content streams; only the
// caller decides which token kinds are legal.
type lexer struct {
	data []byte
	pos  int
}

func isWhitespace(c byte) bool {
	return c == 0 || c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == ' '
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (lx *lexer) skipWS() {
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if isWhitespace(c) {
			lx.pos++
			continue
		}
		if c == '%' {
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' && lx.data[lx.pos] != '\r' {
				lx.pos++
			}
			continue
		}
		break
	}
}

func (lx *lexer) peek() (byte, bool) {
	if lx.pos >= len(lx.data) {
		return 0, false
	}
	return lx.data[lx.pos], true
}

// parseIndirectBody parses the value after an "N G obj" header, plus the
// stream payload when one follows the dictionary.
func (lx *lexer) parseIndirectBody(d *document) (*object, error) {
	obj, err := lx.parseValue(d)
	if err != nil {
		return nil, err
	}
	if obj.kind != kindDict {
		return obj, nil
	}
	save := lx.pos
	lx.skipWS()
	if !bytes.HasPrefix(lx.data[lx.pos:], []byte("stream")) {
		lx.pos = save
		return obj, nil
	}
	lx.pos += len("stream")
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
		lx.pos++
	}
	obj.kind = kindStream
	obj.stream, err = lx.readStreamData(d, obj.dict)
	return obj, err
}

// readStreamData consumes the raw stream payload. The declared Length is
// trusted only when "endstream" actually follows it; otherwise the payload
// boundary is recovered by scanning.
func (lx *lexer) readStreamData(d *document, dict map[string]*object) ([]byte, error) {
	start := lx.pos
	if ln := d.resolve(dict["Length"]); ln != nil && ln.kind == kindNumber {
		end := start + int(ln.num)
		if end <= len(lx.data) {
			tail := lx.data[end:]
			trimmed := bytes.TrimLeft(tail, "\r\n \t")
			if bytes.HasPrefix(trimmed, []byte("endstream")) {
				lx.pos = end
				return lx.data[start:end], nil
			}
		}
	}
	idx := bytes.Index(lx.data[start:], []byte("endstream"))
	if idx < 0 {
		return nil, errors.New("unterminated stream")
	}
	end := start + idx
	for end > start && (lx.data[end-1] == '\n' || lx.data[end-1] == '\r') {
		end--
	}
	lx.pos = start + idx
	return lx.data[start:end], nil
}

func (lx *lexer) parseValue(d *document) (*object, error) {
	lx.skipWS()
	c, ok := lx.peek()
	if !ok {
		return nil, errEOF
	}
	switch {
	case c == '<':
		if lx.pos+1 < len(lx.data) && lx.data[lx.pos+1] == '<' {
			return lx.parseDict(d)
		}
		return lx.parseHexString()
	case c == '(':
		return lx.parseLiteralString()
	case c == '/':
		return lx.parseName()
	case c == '[':
		return lx.parseArray(d)
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return lx.parseNumberOrRef()
	default:
		word := lx.readBareWord()
		switch word {
		case "true":
			return &object{kind: kindBool, boolV: true}, nil
		case "false":
			return &object{kind: kindBool}, nil
		case "null":
			return &object{kind: kindNull}, nil
		}
		return nil, fmt.Errorf("unexpected token %q", word)
	}
}

func (lx *lexer) parseDict(d *document) (*object, error) {
	lx.pos += 2 // <<
	dict := make(map[string]*object)
	for {
		lx.skipWS()
		c, ok := lx.peek()
		if !ok {
			return nil, errEOF
		}
		if c == '>' {
			if lx.pos+1 < len(lx.data) && lx.data[lx.pos+1] == '>' {
				lx.pos += 2
				return &object{kind: kindDict, dict: dict}, nil
			}
			return nil, errors.New("malformed dictionary close")
		}
		key, err := lx.parseName()
		if err != nil {
			return nil, err
		}
		val, err := lx.parseValue(d)
		if err != nil {
			return nil, err
		}
		dict[key.name] = val
	}
}

func (lx *lexer) parseArray(d *document) (*object, error) {
	lx.pos++ // [
	var arr []*object
	for {
		lx.skipWS()
		c, ok := lx.peek()
		if !ok {
			return nil, errEOF
		}
		if c == ']' {
			lx.pos++
			return &object{kind: kindArray, arr: arr}, nil
		}
		el, err := lx.parseValue(d)
		if err != nil {
			return nil, err
		}
		arr = append(arr, el)
	}
}

func (lx *lexer) parseName() (*object, error) {
	if c, ok := lx.peek(); !ok || c != '/' {
		return nil, errors.New("expected name")
	}
	lx.pos++
	var buf []byte
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && lx.pos+2 < len(lx.data) {
			if v, err := strconv.ParseUint(string(lx.data[lx.pos+1:lx.pos+3]), 16, 8); err == nil {
				buf = append(buf, byte(v))
				lx.pos += 3
				continue
			}
		}
		buf = append(buf, c)
		lx.pos++
	}
	return newName(string(buf)), nil
}

// parseNumberOrRef parses a number and, for non-negative integers, looks
// ahead for the "G R" suffix that makes it an indirect reference.
func (lx *lexer) parseNumberOrRef() (*object, error) {
	start := lx.pos
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
			lx.pos++
			continue
		}
		break
	}
	num, err := strconv.ParseFloat(string(lx.data[start:lx.pos]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad number at %d: %v", start, err)
	}
	if num >= 0 && num == float64(int(num)) {
		save := lx.pos
		lx.skipWS()
		genStart := lx.pos
		for lx.pos < len(lx.data) && lx.data[lx.pos] >= '0' && lx.data[lx.pos] <= '9' {
			lx.pos++
		}
		if lx.pos > genStart {
			lx.skipWS()
			if c, ok := lx.peek(); ok && c == 'R' {
				next := lx.pos + 1
				if next >= len(lx.data) || isWhitespace(lx.data[next]) || isDelimiter(lx.data[next]) {
					lx.pos = next
					return newRef(int(num)), nil
				}
			}
		}
		lx.pos = save
	}
	return newNumber(num), nil
}

func (lx *lexer) parseLiteralString() (*object, error) {
	lx.pos++ // (
	var buf []byte
	depth := 1
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		switch c {
		case '\\':
			if lx.pos >= len(lx.data) {
				return nil, errEOF
			}
			e := lx.data[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '\n':
			case '\r':
				if lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
					lx.pos++
				}
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for i := 0; i < 2 && lx.pos < len(lx.data); i++ {
					c2 := lx.data[lx.pos]
					if c2 < '0' || c2 > '7' {
						break
					}
					v = v*8 + int(c2-'0')
					lx.pos++
				}
				buf = append(buf, byte(v))
			default:
				buf = append(buf, e)
			}
		case '(':
			depth++
			buf = append(buf, c)
		case ')':
			depth--
			if depth == 0 {
				return newString(buf), nil
			}
			buf = append(buf, c)
		default:
			buf = append(buf, c)
		}
	}
	return nil, errEOF
}

func (lx *lexer) parseHexString() (*object, error) {
	lx.pos++ // <
	var buf []byte
	var hi byte
	haveHi := false
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		if c == '>' {
			if haveHi {
				buf = append(buf, hi<<4)
			}
			return newString(buf), nil
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if haveHi {
			buf = append(buf, hi<<4|v)
			haveHi = false
		} else {
			hi = v
			haveHi = true
		}
	}
	return nil, errEOF
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (lx *lexer) readBareWord() string {
	lx.skipWS()
	start := lx.pos
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		lx.pos++
	}
	return string(lx.data[start:lx.pos])
}

func (lx *lexer) parseInt() (int, error) {
	word := lx.readBareWord()
	return strconv.Atoi(word)
}

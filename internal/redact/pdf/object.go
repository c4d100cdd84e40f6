// Package pdf implements a small self-contained PDF codec: enough parsing to
// locate pages and their content streams, a content-stream tokenizer with
// graphics-state tracking, and a writer that serializes a fresh file with a
// rebuilt cross-reference table. It exists to support destructive redaction,
// which needs write access to content streams that no read-only extraction
// library provides.
package pdf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type objKind int

const (
	kindNull objKind = iota
	kindBool
	kindNumber
	kindString
	kindName
	kindArray
	kindDict
	kindStream
	kindRef
	kindOperator // content-stream operators only, never serialized into objects
)

// object is a single PDF value. Streams carry their dictionary in dict and
// their raw (still encoded) bytes in stream; decoded replaces the raw bytes
// and clears the Filter entry before writing.
type object struct {
	kind   objKind
	boolV  bool
	num    float64
	str    []byte
	name   string
	arr    []*object
	dict   map[string]*object
	stream []byte
	ref    int
}

func newName(n string) *object   { return &object{kind: kindName, name: n} }
func newNumber(f float64) *object { return &object{kind: kindNumber, num: f} }
func newString(b []byte) *object  { return &object{kind: kindString, str: b} }
func newRef(n int) *object        { return &object{kind: kindRef, ref: n} }

func (o *object) isName(n string) bool {
	return o != nil && o.kind == kindName && o.name == n
}

func (o *object) intVal() int {
	if o == nil || o.kind != kindNumber {
		return 0
	}
	return int(o.num)
}

// get resolves a dictionary entry, following one level of indirection through
// the document's object table.
func (d *document) get(dict map[string]*object, key string) *object {
	return d.resolve(dict[key])
}

func (d *document) resolve(o *object) *object {
	for o != nil && o.kind == kindRef {
		o = d.objects[o.ref]
	}
	return o
}

// writeValue serializes one object value in PDF syntax.
func writeValue(sb *strings.Builder, o *object) {
	if o == nil {
		sb.WriteString("null")
		return
	}
	switch o.kind {
	case kindNull:
		sb.WriteString("null")
	case kindBool:
		if o.boolV {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case kindNumber:
		sb.WriteString(formatNumber(o.num))
	case kindString:
		writeLiteralString(sb, o.str)
	case kindName:
		sb.WriteByte('/')
		sb.WriteString(o.name)
	case kindRef:
		sb.WriteString(strconv.Itoa(o.ref))
		sb.WriteString(" 0 R")
	case kindArray:
		sb.WriteByte('[')
		for i, el := range o.arr {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, el)
		}
		sb.WriteByte(']')
	case kindDict, kindStream:
		writeDict(sb, o.dict)
	}
}

func writeDict(sb *strings.Builder, dict map[string]*object) {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb.WriteString("<<")
	for _, k := range keys {
		sb.WriteString(" /")
		sb.WriteString(k)
		sb.WriteByte(' ')
		writeValue(sb, dict[k])
	}
	sb.WriteString(" >>")
}

// writeLiteralString emits a literal string with backslash escapes for the
// delimiters and octal escapes for bytes outside the printable ASCII range,
// keeping the output binary-safe.
func writeLiteralString(sb *strings.Builder, b []byte) {
	sb.WriteByte('(')
	for _, c := range b {
		switch {
		case c == '(' || c == ')' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c >= 32 && c < 127:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(sb, "\\%03o", c)
		}
	}
	sb.WriteByte(')')
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

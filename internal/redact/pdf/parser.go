package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"clearpoint/internal/domain"
)

// document is a fully loaded PDF: every indirect object keyed by number, the
// trailer dictionary, and the flattened page list in tree order.
type document struct {
	objects map[int]*object
	trailer map[string]*object
	pages   []*pageInfo
}

type pageInfo struct {
	dict     map[string]*object
	mediaBox [4]float64
	contents []int // object numbers of the page's content streams
}

var objHeaderRe = regexp.MustCompile(`(?m)(?:^|\s)(\d+)\s+(\d+)\s+obj\b`)

// load parses a whole file by scanning for "N G obj" markers rather than
// walking the cross-reference chain, which also copes with files whose xref
// offsets are stale. Objects packed into object streams are expanded
// afterwards. Generation numbers are discarded; the writer re-emits
// everything at generation zero.
func load(data []byte) (*document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrDocumentLoad)
	}
	d := &document{objects: make(map[int]*object)}

	for _, m := range objHeaderRe.FindAllSubmatchIndex(data, -1) {
		num, err := strconv.Atoi(string(data[m[2]:m[3]]))
		if err != nil {
			continue
		}
		lx := &lexer{data: data, pos: m[1]}
		obj, err := lx.parseIndirectBody(d)
		if err != nil {
			continue // tolerate individually corrupt objects
		}
		d.objects[num] = obj
	}
	if len(d.objects) == 0 {
		return nil, fmt.Errorf("%w: no objects found", domain.ErrDocumentLoad)
	}

	if err := d.expandObjectStreams(); err != nil {
		return nil, err
	}
	if err := d.findTrailer(data); err != nil {
		return nil, err
	}
	if err := d.collectPages(); err != nil {
		return nil, err
	}
	return d, nil
}

// expandObjectStreams parses the objects packed inside every /ObjStm stream.
// A packed object never overrides one parsed from the file body.
func (d *document) expandObjectStreams() error {
	for _, obj := range d.objects {
		if obj.kind != kindStream || !d.get(obj.dict, "Type").isName("ObjStm") {
			continue
		}
		data, err := d.decodeStream(obj)
		if err != nil {
			return fmt.Errorf("%w: object stream: %v", domain.ErrDocumentLoad, err)
		}
		n := d.get(obj.dict, "N").intVal()
		first := d.get(obj.dict, "First").intVal()
		hdr := &lexer{data: data, pos: 0}
		for i := 0; i < n; i++ {
			num, err1 := hdr.parseInt()
			off, err2 := hdr.parseInt()
			if err1 != nil || err2 != nil || first+off > len(data) {
				return fmt.Errorf("%w: malformed object stream header", domain.ErrDocumentLoad)
			}
			if _, exists := d.objects[num]; exists {
				continue
			}
			lx := &lexer{data: data, pos: first + off}
			inner, err := lx.parseValue(d)
			if err != nil {
				return fmt.Errorf("%w: object stream entry %d: %v", domain.ErrDocumentLoad, num, err)
			}
			d.objects[num] = inner
		}
	}
	return nil
}

// findTrailer locates the trailer dictionary: the classic "trailer" keyword
// when present, otherwise the dictionary of the cross-reference stream.
func (d *document) findTrailer(data []byte) error {
	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		lx := &lexer{data: data, pos: idx + len("trailer")}
		t, err := lx.parseValue(d)
		if err == nil && t.kind == kindDict {
			d.trailer = t.dict
			return nil
		}
	}
	for _, obj := range d.objects {
		if obj.kind == kindStream && d.get(obj.dict, "Type").isName("XRef") {
			d.trailer = obj.dict
			return nil
		}
	}
	return fmt.Errorf("%w: trailer not found", domain.ErrDocumentLoad)
}

// collectPages walks the page tree depth-first, inheriting MediaBox from
// ancestor nodes where a page leaves it unset.
func (d *document) collectPages() error {
	root := d.resolve(d.trailer["Root"])
	if root == nil || root.dict == nil {
		return fmt.Errorf("%w: missing document catalog", domain.ErrDocumentLoad)
	}
	pagesRoot := d.get(root.dict, "Pages")
	if pagesRoot == nil || pagesRoot.dict == nil {
		return fmt.Errorf("%w: missing page tree", domain.ErrDocumentLoad)
	}
	letterBox := [4]float64{0, 0, 612, 792}
	if err := d.walkPageTree(pagesRoot, letterBox, 0); err != nil {
		return err
	}
	if len(d.pages) == 0 {
		return fmt.Errorf("%w: document has no pages", domain.ErrDocumentLoad)
	}
	return nil
}

func (d *document) walkPageTree(node *object, inheritedBox [4]float64, depth int) error {
	if depth > 64 {
		return fmt.Errorf("%w: page tree too deep", domain.ErrDocumentLoad)
	}
	if box, ok := d.rectValue(d.get(node.dict, "MediaBox")); ok {
		inheritedBox = box
	}
	if d.get(node.dict, "Type").isName("Page") {
		p := &pageInfo{dict: node.dict, mediaBox: inheritedBox}
		switch contents := d.get(node.dict, "Contents"); {
		case contents == nil:
		case contents.kind == kindArray:
			for _, el := range contents.arr {
				if el.kind == kindRef {
					p.contents = append(p.contents, el.ref)
				}
			}
		default:
			if raw := node.dict["Contents"]; raw != nil && raw.kind == kindRef {
				p.contents = append(p.contents, raw.ref)
			}
		}
		d.pages = append(d.pages, p)
		return nil
	}
	kids := d.get(node.dict, "Kids")
	if kids == nil || kids.kind != kindArray {
		return nil
	}
	for _, kid := range kids.arr {
		child := d.resolve(kid)
		if child == nil || child.dict == nil {
			continue
		}
		if err := d.walkPageTree(child, inheritedBox, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) rectValue(o *object) ([4]float64, bool) {
	var box [4]float64
	if o == nil || o.kind != kindArray || len(o.arr) != 4 {
		return box, false
	}
	for i, el := range o.arr {
		el = d.resolve(el)
		if el == nil || el.kind != kindNumber {
			return box, false
		}
		box[i] = el.num
	}
	return box, true
}

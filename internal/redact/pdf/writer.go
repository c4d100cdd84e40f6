package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// write serializes the document as a fresh file: every object at generation
// zero, a rebuilt classic cross-reference table, and a minimal trailer.
// Object and cross-reference streams from the source are dropped; their
// contents were expanded into plain objects at load time.
func (d *document) write() ([]byte, error) {
	nums := make([]int, 0, len(d.objects))
	for num, obj := range d.objects {
		if obj.kind == kindStream {
			if t := d.get(obj.dict, "Type"); t.isName("ObjStm") || t.isName("XRef") {
				continue
			}
		}
		nums = append(nums, num)
	}
	sort.Ints(nums)
	if len(nums) == 0 {
		return nil, fmt.Errorf("document has no objects to write")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%")
	buf.Write([]byte{0xE2, 0xE3, 0xCF, 0xD3})
	buf.WriteByte('\n')

	maxNum := nums[len(nums)-1]
	offsets := make(map[int]int, len(nums))
	for _, num := range nums {
		offsets[num] = buf.Len()
		obj := d.objects[num]
		fmt.Fprintf(&buf, "%d 0 obj\n", num)
		var sb strings.Builder
		writeValue(&sb, obj)
		buf.WriteString(sb.String())
		if obj.kind == kindStream {
			buf.WriteString("\nstream\n")
			buf.Write(obj.stream)
			buf.WriteString("\nendstream")
		}
		buf.WriteString("\nendobj\n")
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= maxNum; num++ {
		if off, ok := offsets[num]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	trailer := map[string]*object{
		"Size": newNumber(float64(maxNum + 1)),
	}
	if root := d.trailer["Root"]; root != nil {
		trailer["Root"] = root
	}
	if info := d.trailer["Info"]; info != nil && info.kind == kindRef {
		if _, ok := offsets[info.ref]; ok {
			trailer["Info"] = info
		}
	}
	var sb strings.Builder
	writeDict(&sb, trailer)
	buf.WriteString("trailer\n")
	buf.WriteString(sb.String())
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefStart)
	return buf.Bytes(), nil
}

package pdf

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
	"io"
)

// decodeStream applies the stream's filter chain and returns the decoded
// payload. Only the filters that occur in practice on content and object
// streams are supported; predictors and image codecs are not, since streams
// the redactor never rewrites are copied through still encoded.
func (d *document) decodeStream(obj *object) ([]byte, error) {
	data := obj.stream
	filter := d.resolve(obj.dict["Filter"])
	if filter == nil {
		return data, nil
	}
	if parms := d.resolve(obj.dict["DecodeParms"]); parms != nil && parms.kind != kindNull {
		if pd, ok := d.predictorOf(parms); ok && pd > 1 {
			return nil, fmt.Errorf("unsupported stream predictor %d", pd)
		}
	}

	var chain []*object
	if filter.kind == kindArray {
		chain = filter.arr
	} else {
		chain = []*object{filter}
	}
	for _, f := range chain {
		f = d.resolve(f)
		if f == nil || f.kind != kindName {
			return nil, fmt.Errorf("malformed stream filter")
		}
		var err error
		switch f.name {
		case "FlateDecode", "Fl":
			data, err = flateDecode(data)
		case "ASCIIHexDecode", "AHx":
			data, err = asciiHexDecode(data)
		case "ASCII85Decode", "A85":
			data, err = ascii85Decode(data)
		default:
			return nil, fmt.Errorf("unsupported stream filter %s", f.name)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return data, nil
}

func (d *document) predictorOf(parms *object) (int, bool) {
	if parms.kind == kindArray {
		for _, el := range parms.arr {
			el = d.resolve(el)
			if el != nil && el.kind == kindDict {
				if p := d.get(el.dict, "Predictor"); p != nil {
					return p.intVal(), true
				}
			}
		}
		return 0, false
	}
	if parms.kind != kindDict {
		return 0, false
	}
	p := d.get(parms.dict, "Predictor")
	if p == nil {
		return 0, false
	}
	return p.intVal(), true
}

func flateDecode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return out, nil
}

func asciiHexDecode(data []byte) ([]byte, error) {
	if idx := bytes.IndexByte(data, '>'); idx >= 0 {
		data = data[:idx]
	}
	var clean []byte
	for _, c := range data {
		if !isWhitespace(c) {
			clean = append(clean, c)
		}
	}
	if len(clean)%2 == 1 {
		clean = append(clean, '0')
	}
	out := make([]byte, hex.DecodedLen(len(clean)))
	n, err := hex.Decode(out, clean)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

func ascii85Decode(data []byte) ([]byte, error) {
	data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("~>"))
	out := make([]byte, len(data)*4/5+4)
	n, _, err := ascii85.Decode(out, data, true)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// encodeContent compresses a rewritten content stream and updates the
// stream's dictionary to match.
func (obj *object) setContent(data []byte) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	obj.stream = buf.Bytes()
	obj.dict["Filter"] = newName("FlateDecode")
	delete(obj.dict, "DecodeParms")
	obj.dict["Length"] = newNumber(float64(len(obj.stream)))
}

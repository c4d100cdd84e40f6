// Package img redacts raster images: opaque fills for explicit regions and a
// whole-image blur fallback for pattern requests, where matched text cannot
// be located without OCR. Output is always PNG.
package img

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"clearpoint/internal/domain"
)

// blurSigma is strong enough to make typical document text unreadable at
// screen resolution.
const blurSigma = 12.0

// Rect is a redaction rectangle in image pixel coordinates, top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// FillRegions paints opaque black rectangles over the given regions.
// Regions are clamped to the image bounds; a region entirely outside the
// image rejects the request.
func FillRegions(data []byte, rects []Rect) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	dst := imaging.Clone(src)
	bounds := dst.Bounds()
	for i, r := range rects {
		box := image.Rect(int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H))
		clipped := box.Intersect(bounds)
		if clipped.Empty() {
			return nil, fmt.Errorf("%w: region %d lies outside the %dx%d image",
				domain.ErrRegionOutOfBounds, i, bounds.Dx(), bounds.Dy())
		}
		draw.Draw(dst, clipped, image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return encodePNG(dst)
}

// Blur returns the whole image blurred beyond legibility. Callers flag the
// result as non-targeted, since content outside any match is affected too.
func Blur(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	return encodePNG(imaging.Blur(src, blurSigma))
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

package redact

import (
	"fmt"

	"clearpoint/internal/domain"
)

// pdfPointsPerInch is the native resolution of PDF user space.
const pdfPointsPerInch = 72.0

// Region is a client-supplied rectangle in preview coordinates: the origin is
// the top-left corner of the page (or image), with x growing right and y
// growing down. Page indices are zero-based; for images the page must be 0.
type Region struct {
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// ValidateRegions rejects the whole request on the first malformed region.
// Page bounds are checked later against the parsed document, since the page
// count is not known until the input has been loaded.
func ValidateRegions(regions []Region) error {
	for i, r := range regions {
		if r.Page < 0 {
			return fmt.Errorf("%w: region %d has negative page index %d", domain.ErrRegionOutOfBounds, i, r.Page)
		}
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("%w: region %d has non-positive size %gx%g", domain.ErrRegionOutOfBounds, i, r.W, r.H)
		}
	}
	return nil
}

// previewScale converts preview pixels to PDF points. Previews are rendered
// at a fixed DPI, so the factor is uniform across pages.
func previewScale(previewDPI float64) float64 {
	if previewDPI <= 0 {
		return 1
	}
	return pdfPointsPerInch / previewDPI
}

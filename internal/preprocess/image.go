package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// NormalizedImage is one preprocessed page: grayscale (or binarized) pixels
// plus the page index and the skew correction that was applied.
type NormalizedImage struct {
	Gray *image.Gray
	Page int     // zero-based page index within the source document
	Skew float64 // degrees of correction applied; 0 when deskew was off or no skew found
}

// PNG encodes the pixel buffer for downstream consumers (OCR, model upload).
func (n NormalizedImage) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, n.Gray); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", n.Page, err)
	}
	return buf.Bytes(), nil
}

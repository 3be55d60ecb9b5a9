// Package encode provides the JPEG tile encoder used by the DZI pyramid
// tiler. Tiles in this pipeline are always baseline JPEG (spec.md §6), so
// unlike the teacher's multi-format encoder this package carries only that
// one concern.
package encode

import (
	"bytes"
	"image"
	"image/jpeg"
)

// DefaultQuality matches the DZI tile quality mandated by spec.md §4.3/§6.
const DefaultQuality = 90

// JPEGEncoder encodes a tile raster as baseline JPEG at a fixed quality.
type JPEGEncoder struct {
	Quality int // 1-100; 0 means DefaultQuality
}

// Encode renders img to JPEG bytes.
func (e JPEGEncoder) Encode(img image.Image) ([]byte, error) {
	quality := e.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

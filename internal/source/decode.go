// Package source decodes panorama input files and validates their
// dimensions before they reach internal/convert. Grounded in the original
// dzp command's decode-then-validate flow (bin/dzp.rs in original_source/),
// translated into the teacher's boundary-validation style: decode with the
// standard library, surface a typed error at the edge rather than deep in
// the pipeline.
package source

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/pspoerri/pano2dzp/internal/convert"
)

// DecodeFile opens path, decodes it as JPEG, and validates that its
// dimensions are consistent with an equirectangular panorama (width
// exactly twice height). Any other image format is rejected: the pipeline
// only ever ingests JPEG panoramas, per the container's tile format.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: decoding %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if h == 0 || w != 2*h {
		return nil, &convert.InvalidPanoramaDimensionsError{Width: w, Height: h}
	}
	return img, nil
}

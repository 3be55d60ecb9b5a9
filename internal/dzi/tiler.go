// Package dzi implements the Deep-Zoom-Image pyramid tiler: it downscales a
// face image to a sequence of levels and slices each into overlapping JPEG
// tiles plus a descriptor, the direct generalization of the teacher's
// tile.Generate pyramid pass (internal/tile/generator.go) from web-map tiles
// to DZI levels.
package dzi

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/pspoerri/pano2dzp/internal/encode"
)

// DefaultTileSize and DefaultOverlap match spec.md §6's pipeline defaults.
const (
	DefaultTileSize = 512
	DefaultOverlap  = 0
)

// Options configures one call to CreateTiles. A zero Levels means "compute
// the generic DZI default" (spec.md §4.3); callers that want the pipeline's
// truncated default (spec.md §6) must compute it themselves and set Levels
// explicitly — Converter does this.
type Options struct {
	TileSize int
	Overlap  int
	Levels   int
}

// normalize fills in zero fields with spec.md §6 defaults and derives the
// generic DZI level count when Levels is unset.
func (o Options) normalize(faceWidth, faceHeight int) Options {
	if o.TileSize <= 0 {
		o.TileSize = DefaultTileSize
	}
	if o.Levels <= 0 {
		maxDim := faceWidth
		if faceHeight > maxDim {
			maxDim = faceHeight
		}
		o.Levels = int(math.Ceil(math.Log2(float64(maxDim)))) + 1
	}
	return o
}

// CreateTiles produces a descriptor and the JPEG tiles for every level of
// the pyramid built from faceImage, keyed by output path. Within a face,
// levels are generated 0..Levels-1; within a level, outer column, inner row.
// The result is a map, so this generation order is not visible to callers;
// the key-addressable container does not need it.
func CreateTiles(faceImage image.Image, name string, opts Options) (map[string][]byte, error) {
	bounds := faceImage.Bounds()
	fw, fh := bounds.Dx(), bounds.Dy()
	opts = opts.normalize(fw, fh)

	blobs := make(map[string][]byte)
	enc := encode.JPEGEncoder{Quality: encode.DefaultQuality}

	for level := 0; level < opts.Levels; level++ {
		levelImg, lw, lh, err := levelImage(faceImage, fw, fh, level, opts.Levels)
		if err != nil {
			return nil, err
		}

		cols := ceilDiv(lw, opts.TileSize)
		rows := ceilDiv(lh, opts.TileSize)

		for col := 0; col < cols; col++ {
			for row := 0; row < rows; row++ {
				rect := tileBounds(level, col, row, lw, lh, opts.TileSize, opts.Overlap)
				tile := cropRGBA(levelImg, rect)

				data, err := enc.Encode(tile)
				if err != nil {
					return nil, &EncodingError{Level: level, Col: col, Row: row, Err: err}
				}
				blobs[tilePath(name, level, col, row)] = data
			}
		}
	}

	blobs[name+".dzi"] = []byte(descriptorXML(opts.TileSize, opts.Overlap, fw, fh))
	return blobs, nil
}

// scale returns s(l) = 2^(l - (levels-1)); level levels-1 is 1.0.
func scale(level, levels int) float64 {
	return math.Pow(2, float64(level-(levels-1)))
}

// dimensions returns (ceil(Fw*s), ceil(Fh*s)) for the given level.
func dimensions(faceW, faceH, level, levels int) (int, int) {
	s := scale(level, levels)
	w := int(math.Ceil(float64(faceW) * s))
	h := int(math.Ceil(float64(faceH) * s))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// levelImage downscales the original face image (never a previous level, to
// avoid accumulated blur) to the dimensions for level, using Lanczos-3
// resampling.
func levelImage(face image.Image, faceW, faceH, level, levels int) (image.Image, int, int, error) {
	if level < 0 || level >= levels {
		return nil, 0, 0, &LevelError{Level: level, Levels: levels}
	}
	w, h := dimensions(faceW, faceH, level, levels)
	if w == faceW && h == faceH {
		return face, w, h, nil
	}
	return resize.Resize(uint(w), uint(h), face, resize.Lanczos3), w, h, nil
}

// tileBounds computes the destination rectangle for (level, col, row) per
// spec.md §3's tile-bounds invariant.
func tileBounds(level, col, row, levelW, levelH, tileSize, overlap int) image.Rectangle {
	ox, oy := 0, 0
	if col != 0 {
		ox = overlap
	}
	if row != 0 {
		oy = overlap
	}
	x := col*tileSize - ox
	y := row*tileSize - oy

	w0 := tileSize + overlapFactor(col)*overlap
	h0 := tileSize + overlapFactor(row)*overlap

	w := min(w0, levelW-x)
	h := min(h0, levelH-y)

	return image.Rect(x, y, x+w, y+h)
}

func overlapFactor(index int) int {
	if index == 0 {
		return 1
	}
	return 2
}

// cropRGBA extracts rect from src into a fresh *image.RGBA, regardless of
// src's concrete type (resize.Resize may hand back *image.NRGBA or similar).
func cropRGBA(src image.Image, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst
}

func tilePath(name string, level, col, row int) string {
	return fmt.Sprintf("%s_files/%d/%d_%d.jpg", name, level, col, row)
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}

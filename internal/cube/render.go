package cube

import (
	"image"
	"image/color"
)

// RenderFace produces an RGB raster of side min(faceSize, panorama width/4)
// by bilinearly interpolating the panorama at each table entry's source
// coordinate. The table is iterated sequentially in the order it was
// generated (column-major); no parallelism happens inside a single face —
// fan-out happens across the six faces, one level up.
func RenderFace(panorama image.Image, faceSize int, table SamplingTable) *image.RGBA {
	bounds := panorama.Bounds()
	side := faceSize
	if maxSide := bounds.Dx() / 4; maxSide < side {
		side = maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))

	src := asRGBA(panorama)
	w, h := bounds.Dx(), bounds.Dy()

	for _, m := range table {
		if int(m.DestX) >= side || int(m.DestY) >= side {
			continue
		}
		c := bilinearSample(src, w, h, float64(m.SourceX), float64(m.SourceY))
		dst.SetRGBA(int(m.DestX), int(m.DestY), c)
	}
	return dst
}

// asRGBA returns img as *image.RGBA, converting only if necessary.
func asRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, img.At(x, y))
		}
	}
	return dst
}

// bilinearSample interpolates a 4-tap neighborhood around (fx, fy), clamping
// to the panorama's interior in both axes. Horizontal wrap at the x≈0 seam
// is not performed here: the sampling table's mod-2π guard on longitude
// already keeps src_x within [-0.5, W-0.5], so only the sub-pixel clamp
// matters at the boundary.
func bilinearSample(src *image.RGBA, w, h int, fx, fy float64) color.RGBA {
	x0 := int(floor(fx))
	y0 := int(floor(fy))
	x1 := x0 + 1
	y1 := y0 + 1

	x0 = clampInt(x0, 0, w-1)
	x1 = clampInt(x1, 0, w-1)
	y0 = clampInt(y0, 0, h-1)
	y1 = clampInt(y1, 0, h-1)

	dx := fx - floor(fx)
	dy := fy - floor(fy)

	p00 := src.RGBAAt(x0, y0)
	p10 := src.RGBAAt(x1, y0)
	p01 := src.RGBAAt(x0, y1)
	p11 := src.RGBAAt(x1, y1)

	lerp := func(a, b float64, t float64) float64 { return a*(1-t) + b*t }
	mix := func(v00, v10, v01, v11 uint8) uint8 {
		top := lerp(float64(v00), float64(v10), dx)
		bot := lerp(float64(v01), float64(v11), dx)
		v := lerp(top, bot, dy)
		return clampByte(v)
	}

	return color.RGBA{
		R: mix(p00.R, p10.R, p01.R, p11.R),
		G: mix(p00.G, p10.G, p01.G, p11.G),
		B: mix(p00.B, p10.B, p01.B, p11.B),
		A: 255,
	}
}

func floor(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

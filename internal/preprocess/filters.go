package preprocess

import (
	"image"
	"image/color"
	"image/draw"
)

func grayVal(v uint32) color.Gray { return color.Gray{Y: uint8(v)} }

// Grayscale collapses any input image to 8-bit luminance.
func Grayscale(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// gaussian5 is the separable 5-tap binomial kernel, the fixed 5x5 blur the
// pipeline uses for denoising.
var gaussian5 = [5]uint32{1, 4, 6, 4, 1}

const gaussian5Sum = 16

// GaussianBlur smooths a grayscale image with a 5x5 binomial kernel,
// replicating edge pixels at the borders.
func GaussianBlur(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return src
	}

	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	// horizontal pass
	tmp := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc uint32
			for k := -2; k <= 2; k++ {
				xx := clamp(x+k, 0, w-1)
				acc += gaussian5[k+2] * uint32(src.GrayAt(b.Min.X+xx, b.Min.Y+y).Y)
			}
			tmp.SetGray(x, y, grayVal(acc/gaussian5Sum))
		}
	}

	// vertical pass
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc uint32
			for k := -2; k <= 2; k++ {
				yy := clamp(y+k, 0, h-1)
				acc += gaussian5[k+2] * uint32(tmp.GrayAt(x, yy).Y)
			}
			dst.SetGray(x, y, grayVal(acc/gaussian5Sum))
		}
	}
	return dst
}

// AdaptiveThreshold binarizes with a local mean threshold so that uneven
// lighting does not wash out whole regions. A pixel stays white when it is
// brighter than the mean of its block minus the constant c.
func AdaptiveThreshold(src *image.Gray, block, c int) *image.Gray {
	if block < 3 {
		block = 11
	}
	if block%2 == 0 {
		block++
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	// summed-area table, (w+1)x(h+1)
	integral := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}

	r := block / 2
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-r), min(h-1, y+r)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w-1, x+r)
			area := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*(w+1)+(x1+1)] -
				integral[y0*(w+1)+(x1+1)] -
				integral[(y1+1)*(w+1)+x0] +
				integral[y0*(w+1)+x0]
			mean := float64(sum) / float64(area)
			if float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y) > mean-float64(c) {
				dst.SetGray(x, y, grayVal(255))
			} else {
				dst.SetGray(x, y, grayVal(0))
			}
		}
	}
	return dst
}

package preprocess

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// DeskewBound caps the correction angle in degrees. Estimates outside the
// bound are treated as "no skew detected" so a noisy page is never
// over-rotated.
const DeskewBound = 15.0

// minSkew below which rotation is skipped entirely.
const minSkew = 0.1

// DetectSkewAngle estimates the dominant text-line angle in degrees using a
// projection-profile search: the rotation that concentrates dark pixels into
// the fewest rows maximizes the profile's squared sum.
func DetectSkewAngle(src *image.Gray) float64 {
	pts := darkPixels(src, 64)
	if len(pts) < 32 {
		return 0
	}

	best := 0.0
	bestScore := profileScore(pts, 0)
	for angle := -DeskewBound; angle <= DeskewBound; angle += 0.5 {
		if s := profileScore(pts, angle); s > bestScore {
			bestScore, best = s, angle
		}
	}
	// refine around the coarse winner
	for angle := best - 0.4; angle <= best+0.4; angle += 0.1 {
		if angle < -DeskewBound || angle > DeskewBound {
			continue
		}
		if s := profileScore(pts, angle); s > bestScore {
			bestScore, best = s, angle
		}
	}
	if math.Abs(best) > DeskewBound {
		return 0
	}
	return best
}

// darkPixels samples up to ~maxSide² dark pixels, downsampling large pages so
// the angle search stays cheap.
func darkPixels(src *image.Gray, threshold uint8) []image.Point {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := 1
	const maxSide = 600
	if w > maxSide || h > maxSide {
		stride = (max(w, h) + maxSide - 1) / maxSide
	}
	var pts []image.Point
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			if src.GrayAt(b.Min.X+x, b.Min.Y+y).Y < threshold {
				pts = append(pts, image.Point{X: x / stride, Y: y / stride})
			}
		}
	}
	return pts
}

func profileScore(pts []image.Point, angleDeg float64) float64 {
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	bins := map[int]int{}
	for _, p := range pts {
		row := int(math.Round(float64(p.Y)*cos - float64(p.X)*sin))
		bins[row]++
	}
	var score float64
	for _, n := range bins {
		score += float64(n) * float64(n)
	}
	return score
}

// Rotate turns a grayscale image by angleDeg around its center using a
// bilinear affine transform, filling uncovered corners with white.
func Rotate(src *image.Gray, angleDeg float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	// white background so rotated-in corners read as paper, not ink
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}

	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	cx, cy := float64(w)/2, float64(h)/2
	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(dst, m, src, b, xdraw.Over, nil)
	return dst
}

// Deskew detects and corrects the page skew, returning the corrected image
// and the rotation that was applied (degrees, 0 when nothing was done).
func Deskew(src *image.Gray) (*image.Gray, float64) {
	angle := DetectSkewAngle(src)
	if math.Abs(angle) < minSkew {
		return src, 0
	}
	return Rotate(src, -angle), -angle
}

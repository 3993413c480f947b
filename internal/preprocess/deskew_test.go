package preprocess

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// textPage draws horizontal "text lines" rotated by angleDeg on a white page.
func textPage(w, h int, angleDeg float64) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 0xff
	}
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	cx, cy := float64(w)/2, float64(h)/2
	for line := -4; line <= 4; line++ {
		baseY := cy + float64(line*24)
		for fx := -cx + 20; fx < cx-20; fx++ {
			// rotate (fx, baseY-cy) around center
			x := cx + fx*cos - (baseY-cy)*sin
			y := cy + fx*sin + (baseY-cy)*cos
			for t := 0; t < 3; t++ {
				xi, yi := int(x), int(y)+t
				if xi >= 0 && xi < w && yi >= 0 && yi < h {
					g.SetGray(xi, yi, color.Gray{Y: 0})
				}
			}
		}
	}
	return g
}

func TestDetectSkewAngleRecoversKnownSkew(t *testing.T) {
	for _, want := range []float64{-6, -2.5, 0, 3, 8} {
		got := DetectSkewAngle(textPage(400, 300, want))
		if math.Abs(got-want) > 1.0 {
			t.Errorf("skew %v: detected %v", want, got)
		}
	}
}

func TestDeskewNeverExceedsBound(t *testing.T) {
	// heavily rotated page: the detector can only see within +/-DeskewBound
	_, applied := Deskew(textPage(400, 300, 12))
	if math.Abs(applied) > DeskewBound {
		t.Errorf("correction %v exceeds bound %v", applied, DeskewBound)
	}
}

func TestDeskewIdempotentOnUprightPage(t *testing.T) {
	page := textPage(400, 300, 0)
	once, a1 := Deskew(page)
	_, a2 := Deskew(once)
	if math.Abs(a1) > 1.0 {
		t.Errorf("upright page rotated by %v", a1)
	}
	if math.Abs(a2) > 1.0 {
		t.Errorf("second deskew rotated by %v", a2)
	}
}

func TestRotatePreservesDimensions(t *testing.T) {
	g := textPage(200, 100, 0)
	r := Rotate(g, 5)
	if r.Bounds().Dx() != 200 || r.Bounds().Dy() != 100 {
		t.Fatalf("unexpected bounds after rotation: %v", r.Bounds())
	}
	// rotated-in corners must be paper white, not black
	if r.GrayAt(0, 0).Y != 0xff {
		t.Errorf("corner filled with %d, want white", r.GrayAt(0, 0).Y)
	}
}

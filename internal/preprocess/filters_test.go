package preprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscalePreservesDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	g := Grayscale(src)
	if g.Bounds().Dx() != 40 || g.Bounds().Dy() != 30 {
		t.Fatalf("unexpected bounds: %v", g.Bounds())
	}
}

func TestGaussianBlurSmoothsImpulse(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 11, 11))
	g.SetGray(5, 5, color.Gray{Y: 255})

	out := GaussianBlur(g)
	center := out.GrayAt(5, 5).Y
	neighbor := out.GrayAt(5, 4).Y
	if center == 255 {
		t.Error("impulse not attenuated")
	}
	if neighbor == 0 {
		t.Error("impulse energy not spread to neighbors")
	}
	if neighbor > center {
		t.Errorf("kernel not centered: neighbor %d > center %d", neighbor, center)
	}
}

func TestAdaptiveThresholdToleratesUnevenLighting(t *testing.T) {
	// left half lit, right half dim; one dark glyph in each half
	g := image.NewGray(image.Rect(0, 0, 60, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			bg := uint8(220)
			if x >= 30 {
				bg = 100
			}
			g.SetGray(x, y, color.Gray{Y: bg})
		}
	}
	for y := 8; y < 12; y++ {
		for x := 10; x < 14; x++ {
			g.SetGray(x, y, color.Gray{Y: 150}) // dark vs 220
		}
		for x := 40; x < 44; x++ {
			g.SetGray(x, y, color.Gray{Y: 30}) // dark vs 100
		}
	}

	bin := AdaptiveThreshold(g, 11, 4)
	if bin.GrayAt(11, 10).Y != 0 {
		t.Error("glyph in lit half not binarized to black")
	}
	if bin.GrayAt(41, 10).Y != 0 {
		t.Error("glyph in dim half not binarized to black")
	}
	// a global threshold would turn the whole dim half black; adaptive must not
	if bin.GrayAt(55, 2).Y != 255 {
		t.Error("dim background misclassified as ink")
	}
}

func TestAdaptiveThresholdOutputIsBinary(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range g.Pix {
		g.Pix[i] = uint8(i * 7 % 251)
	}
	bin := AdaptiveThreshold(g, 11, 4)
	for i, v := range bin.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d has non-binary value %d", i, v)
		}
	}
}

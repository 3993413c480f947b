package preprocess

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"docscan/internal/common"
)

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNormalizeSingleImageYieldsOnePage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "scan.png")

	n := NewNormalizer(Options{DPI: 200, Denoise: true, Deskew: true}, nil)
	pages, err := n.Normalize(context.Background(), path)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Page != 0 {
		t.Errorf("page index = %d, want 0", pages[0].Page)
	}
	if pages[0].Gray == nil {
		t.Fatal("missing pixel buffer")
	}
	if _, err := pages[0].PNG(); err != nil {
		t.Errorf("PNG encode failed: %v", err)
	}
}

func TestNormalizeUnsupportedExtension(t *testing.T) {
	n := NewNormalizer(Options{}, nil)
	_, err := n.Normalize(context.Background(), "notes.txt")
	var ce *common.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
}

func TestNormalizeCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := NewNormalizer(Options{}, nil)
	_, err := n.Normalize(context.Background(), path)
	var ce *common.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConversionError for corrupt pdf, got %v", err)
	}
	if ce.Path != path {
		t.Errorf("error path = %q, want %q", ce.Path, path)
	}
}

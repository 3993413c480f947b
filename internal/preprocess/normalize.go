package preprocess

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"docscan/constants"
	"docscan/internal/common"
)

// Options are the preprocessing knobs. Each stage is independently toggleable;
// the chain order is fixed: grayscale, denoise, binarize, deskew.
type Options struct {
	DPI      int  // rasterization DPI for PDFs, default 200
	Denoise  bool // 5x5 Gaussian blur
	Deskew   bool // bounded rotation correction
	Pdftoppm string
}

// Normalizer converts a PDF or raster image file into canonical grayscale
// page buffers ready for OCR and model upload. The input file is never
// modified.
type Normalizer struct {
	opts   Options
	runner Runner
	logger *slog.Logger
}

func NewNormalizer(opts Options, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DPI <= 0 {
		opts.DPI = 200
	}
	if opts.Pdftoppm == "" {
		opts.Pdftoppm = "pdftoppm"
	}
	return &Normalizer{opts: opts, runner: execRunner{}, logger: logger}
}

// Normalize produces one NormalizedImage per page: PDFs may yield several,
// raster images exactly one.
func (n *Normalizer) Normalize(ctx context.Context, path string) ([]NormalizedImage, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))

	var (
		pages []image.Image
		err   error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		pages, err = n.renderPDF(ctx, path)
	case constants.IMAGE:
		var img image.Image
		img, err = loadImage(path)
		if err == nil {
			pages = []image.Image{img}
		}
	default:
		err = &common.ConversionError{Path: path, Cause: fmt.Errorf("unsupported extension: %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	out := make([]NormalizedImage, 0, len(pages))
	for i, page := range pages {
		out = append(out, n.processPage(page, i))
	}

	n.logger.Debug("normalize.ok",
		"path", path,
		"pages", len(out),
		"dpi", n.opts.DPI,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// processPage runs the fixed preprocessing chain on one page.
func (n *Normalizer) processPage(src image.Image, page int) NormalizedImage {
	g := Grayscale(src)
	if n.opts.Denoise {
		g = GaussianBlur(g)
	}
	g = AdaptiveThreshold(g, 11, 4)

	var skew float64
	if n.opts.Deskew {
		g, skew = Deskew(g)
		if skew != 0 {
			n.logger.Debug("deskew applied", "page", page, "angle", skew)
		}
	}
	return NormalizedImage{Gray: g, Page: page, Skew: skew}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &common.ConversionError{Path: path, Cause: err}
	}
	defer f.Close()

	var img image.Image
	switch constants.NormalizeExt(filepath.Ext(path)) {
	case "png":
		img, err = png.Decode(f)
	case "jpg", "jpeg":
		img, err = jpeg.Decode(f)
	default:
		err = fmt.Errorf("unsupported image type")
	}
	if err != nil {
		return nil, &common.ConversionError{Path: path, Cause: err}
	}
	return img, nil
}

package preprocess

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"docscan/internal/common"
)

// renderPDF rasterizes every page of a PDF to an in-memory image at the
// configured DPI. A pdfcpu preflight catches corrupt or encrypted files before
// shelling out, so the failure stays attributable to this one document.
func (n *Normalizer) renderPDF(ctx context.Context, path string) ([]image.Image, error) {
	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, &common.ConversionError{Path: path, Cause: fmt.Errorf("pdf preflight: %w", err)}
	}
	if pages == 0 {
		return nil, &common.ConversionError{Path: path, Cause: fmt.Errorf("pdf has no pages")}
	}

	tmpDir, err := os.MkdirTemp("", "docscan-pp-*")
	if err != nil {
		return nil, &common.ConversionError{Path: path, Cause: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			n.logger.Warn("temp dir cleanup failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := n.runner.Run(ctx, n.opts.Pdftoppm, "-r", fmt.Sprintf("%d", n.opts.DPI), "-png", path, prefix)
	if err != nil {
		return nil, &common.ConversionError{Path: path, Cause: fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))}
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, &common.ConversionError{Path: path, Cause: fmt.Errorf("pdftoppm produced no images")}
	}

	imgs := make([]image.Image, 0, len(matches))
	for _, m := range matches {
		f, err := os.Open(m)
		if err != nil {
			return nil, &common.ConversionError{Path: path, Cause: err}
		}
		img, err := png.Decode(f)
		closeErr := f.Close()
		if err != nil {
			return nil, &common.ConversionError{Path: path, Cause: fmt.Errorf("decode %s: %w", filepath.Base(m), err)}
		}
		if closeErr != nil {
			n.logger.Warn("close rendered page", "file", m, "error", closeErr)
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

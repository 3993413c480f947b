package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"docscan/internal/common"
)

// TesseractEngine implements Engine using the gosseract client.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{clientFactory: gosseract.NewClient}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize performs OCR on a single normalized page.
func (e *TesseractEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return Result{}, &common.OCRError{Cause: fmt.Errorf("set image: %w", err)}
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return Result{}, &common.OCRError{Cause: fmt.Errorf("set languages: %w", err)}
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return Result{}, &common.OCRError{Cause: fmt.Errorf("set dpi: %w", err)}
		}
	}

	text, err := c.Text()
	if err != nil {
		return Result{}, &common.OCRError{Cause: fmt.Errorf("recognize text: %w", err)}
	}
	plain := strings.TrimSpace(text)

	conf := meanWordConfidence(c)
	if conf == 0 {
		// engine reported no word boxes; fall back to a text heuristic
		conf = heuristicConfidence(plain)
	}

	return Result{
		InputID:    in.ID,
		Text:       plain,
		Confidence: conf,
	}, nil
}

// meanWordConfidence averages per-word confidences into 0..1, or 0 when the
// engine provides none.
func meanWordConfidence(c *gosseract.Client) float32 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return float32(sum / float64(len(boxes)))
}

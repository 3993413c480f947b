package ocr

import "context"

// Input encapsulates a single normalized page submitted for OCR.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the Result.
	ID string
	// Image is the PNG-encoded page.
	Image []byte
	// PageIndex links the input back to the zero-based page where it originated.
	PageIndex int
	// DPI carries the effective dots-per-inch; zero means unknown.
	DPI int
	// Languages is a list of trained-data hints (e.g. "eng").
	Languages []string
}

// Result captures OCR output for a single input image. Empty Text is a valid,
// non-error result.
type Result struct {
	InputID    string
	Text       string
	Confidence float32 // 0..1, 0 when the engine reports none
}

// Engine is the OCR provider contract: one image in, one result out. There is
// no retry discipline here; OCR failures are local and cheap to surface.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

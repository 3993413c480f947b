package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docscan/constants"
	"docscan/internal/common"
	"docscan/internal/llm"
	"docscan/internal/ocr"
	"docscan/internal/preprocess"
)

// pageSeparator joins OCR text from consecutive pages of one document.
const pageSeparator = "\n\f\n"

// Normalizer is the slice of the preprocessing layer the pipeline needs.
type Normalizer interface {
	Normalize(ctx context.Context, path string) ([]preprocess.NormalizedImage, error)
}

// Processor runs documents through normalize, OCR and extraction, one at a
// time, and never lets one document's failure abort the batch.
type Processor struct {
	normalizer  Normalizer
	engine      ocr.Engine // nil disables OCR; extraction runs on images alone
	extractor   llm.Extractor
	gate        Gate
	logger      *slog.Logger
	model       string
	maxAttempts int
	backoffBase time.Duration
	ocrLangs    []string
	dpi         int
}

// ProcessorConfig wires a Processor. Engine may be nil. Gate defaults to an
// open gate, MaxAttempts to 1 (no retries).
type ProcessorConfig struct {
	Normalizer  Normalizer
	Engine      ocr.Engine
	Extractor   llm.Extractor
	Gate        Gate
	Logger      *slog.Logger
	Model       string
	MaxAttempts int
	BackoffBase time.Duration
	OCRLangs    []string
	DPI         int
}

func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.Gate == nil {
		cfg.Gate = nopGate{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	return &Processor{
		normalizer:  cfg.Normalizer,
		engine:      cfg.Engine,
		extractor:   cfg.Extractor,
		gate:        cfg.Gate,
		logger:      cfg.Logger,
		model:       cfg.Model,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		ocrLangs:    cfg.OCRLangs,
		dpi:         cfg.DPI,
	}
}

// ProcessBatch runs every path through the pipeline in order. Results come
// back in input order, one per path, regardless of individual failures. The
// returned error is non-nil only when the context was cancelled; the partial
// ResultSet is still valid in that case.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string, mode llm.Mode) (*ResultSet, error) {
	set := &ResultSet{
		Mode:    mode,
		Model:   p.model,
		Started: time.Now().UTC(),
		Results: make([]Result, 0, len(paths)),
	}
	p.logger.Info("batch.start", "mode", mode, "model", p.model, "documents", len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("batch.cancelled", "processed", i, "remaining", len(paths)-i)
			return set, err
		}
		res := p.processOne(ctx, path, mode)
		set.Results = append(set.Results, res)
		if res.Status == constants.DocStatusSucceeded {
			p.logger.Info("doc.ok", "path", path,
				"attempts", res.Attempts,
				"tokens", res.Usage.TotalTokens,
				"elapsed_ms", res.Elapsed.Milliseconds())
		} else {
			p.logger.Error("doc.failed", "path", path,
				"stage", res.Error.Stage,
				"kind", res.Error.Kind,
				"error", res.Error.Message)
		}
	}

	s := set.Summarize()
	p.logger.Info("batch.done",
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"total_tokens", s.TotalUsage.TotalTokens)
	return set, nil
}

func (p *Processor) processOne(ctx context.Context, path string, mode llm.Mode) Result {
	start := time.Now()
	res := Result{FilePath: path, Status: constants.DocStatusNormalizing}

	pages, err := p.normalizer.Normalize(ctx, path)
	if err != nil {
		return p.fail(res, "normalize", err, start)
	}
	res.Pages = len(pages)

	images := make([][]byte, 0, len(pages))
	for _, pg := range pages {
		buf, err := pg.PNG()
		if err != nil {
			return p.fail(res, "normalize", &common.ConversionError{Path: path, Cause: err}, start)
		}
		images = append(images, buf)
	}
	if len(images) == 0 {
		return p.fail(res, "normalize",
			&common.ConversionError{Path: path, Cause: fmt.Errorf("document produced no pages")}, start)
	}

	var ocrText string
	if p.engine != nil {
		res.Status = constants.DocStatusOCRExtracting
		text, err := p.recognizePages(ctx, path, images)
		if err != nil {
			// OCR is supplementary context; the model still sees the images.
			res.Warnings = append(res.Warnings, fmt.Sprintf("ocr skipped: %v", err))
			p.logger.Warn("doc.ocr_failed", "path", path, "error", err)
		}
		ocrText = text
	}

	res.Status = constants.DocStatusExtracting
	ext, attempts, err := p.extract(ctx, llm.ExtractRequest{
		Images:  images,
		OCRText: ocrText,
		Mode:    mode,
		Model:   p.model,
	})
	res.Attempts = attempts
	if ext != nil {
		res.Usage.Add(ext.Usage)
		res.Warnings = append(res.Warnings, ext.Warnings...)
	}
	if err != nil {
		return p.fail(res, "extract", err, start)
	}

	res.Resume = ext.Resume
	res.Receipt = ext.Receipt
	res.Status = constants.DocStatusSucceeded
	res.Elapsed = time.Since(start)
	return res
}

// recognizePages runs OCR over every page and joins the texts with a form
// feed, keeping page boundaries visible to the model.
func (p *Processor) recognizePages(ctx context.Context, path string, images [][]byte) (string, error) {
	texts := make([]string, 0, len(images))
	for i, img := range images {
		out, err := p.engine.Recognize(ctx, ocr.Input{
			ID:        fmt.Sprintf("%s#%d", path, i),
			Image:     img,
			PageIndex: i,
			DPI:       p.dpi,
			Languages: p.ocrLangs,
		})
		if err != nil {
			return "", err
		}
		texts = append(texts, out.Text)
	}
	return strings.Join(texts, pageSeparator), nil
}

// extract calls the service with retry on retryable failures. Usage from every
// attempt is accumulated into the returned Extraction, since the service bills
// failed attempts too.
func (p *Processor) extract(ctx context.Context, req llm.ExtractRequest) (*llm.Extraction, int, error) {
	var total llm.Usage
	attempts := 0
	for {
		attempts++
		if err := p.gate.Wait(ctx); err != nil {
			return &llm.Extraction{Usage: total}, attempts, err
		}
		ext, err := p.extractor.Extract(ctx, req)
		if ext != nil {
			total.Add(ext.Usage)
		}
		if err == nil {
			ext.Usage = total
			return ext, attempts, nil
		}
		if !common.IsRetryable(err) || attempts >= p.maxAttempts {
			return &llm.Extraction{Usage: total}, attempts, err
		}
		delay := p.backoffBase << (attempts - 1)
		p.logger.Warn("extract.retry", "attempt", attempts, "delay_ms", delay.Milliseconds(), "error", err)
		if err := sleep(ctx, delay); err != nil {
			return &llm.Extraction{Usage: total}, attempts, err
		}
	}
}

func (p *Processor) fail(res Result, stage string, err error, start time.Time) Result {
	res.Status = constants.DocStatusFailed
	res.Error = &ErrorInfo{
		Kind:    common.ErrorKind(err),
		Stage:   stage,
		Message: err.Error(),
	}
	res.Elapsed = time.Since(start)
	return res
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

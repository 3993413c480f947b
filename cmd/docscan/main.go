package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"

	"docscan/internal/common"
	"docscan/internal/export"
	"docscan/internal/ingest"
	"docscan/internal/llm"
	"docscan/internal/llm/gemini"
	"docscan/internal/ocr"
	"docscan/internal/pipeline"
	"docscan/internal/preprocess"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		mode      = flag.String("mode", "", "document type: resume or receipt (required)")
		dir       = flag.String("dir", "", "directory (or single file) to process (required)")
		out       = flag.String("out", "", "output file path (defaults next to the input directory)")
		formatStr = flag.String("format", "json", "output format: json, csv or xlsx")
		model     = flag.String("model", "", "model identifier (overrides GEMINI_MODEL)")
		delayStr  = flag.String("delay", "", "delay between documents, e.g. 5s (overrides the per-mode default)")
		dpi       = flag.Int("dpi", 0, "render DPI for PDF pages (overrides PREPROCESS_DPI)")
		noDenoise = flag.Bool("no-denoise", false, "skip the denoise filter")
		noDeskew  = flag.Bool("no-deskew", false, "skip skew correction")
		noOCR     = flag.Bool("no-ocr", false, "skip local OCR, send images only")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	docMode := llm.Mode(*mode)
	if docMode != llm.ModeResume && docMode != llm.ModeReceipt {
		printError("Error: --mode must be resume or receipt\n")
		os.Exit(1)
	}

	format, err := export.ParseFormat(*formatStr)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		name := fmt.Sprintf("%ss.%s", docMode, format)
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), name)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *model != "" {
		cfg.LLM.Model = *model
	}
	if *dpi > 0 {
		cfg.Preprocess.DPI = *dpi
	}
	if *noDenoise {
		cfg.Preprocess.Denoise = false
	}
	if *noDeskew {
		cfg.Preprocess.Deskew = false
	}
	if *noOCR {
		cfg.OCR.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	delay := cfg.Batch.ReceiptDelay
	if docMode == llm.ModeResume {
		delay = cfg.Batch.ResumeDelay
	}
	if *delayStr != "" {
		d, err := time.ParseDuration(*delayStr)
		if err != nil {
			printError("Error: invalid --delay: %v\n", err)
			os.Exit(1)
		}
		delay = d
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, stats, err := ingest.Discover(*dir, ingest.DiscoverOptions{}, logger)
	if err != nil {
		logger.Error("discovery failed", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Warn("no documents found", "dir", *dir, "scanned", stats.Scanned)
		return
	}

	normalizer := preprocess.NewNormalizer(preprocess.Options{
		DPI:      cfg.Preprocess.DPI,
		Denoise:  cfg.Preprocess.Denoise,
		Deskew:   cfg.Preprocess.Deskew,
		Pdftoppm: cfg.Preprocess.Pdftoppm,
	}, logger)

	var engine ocr.Engine
	if cfg.OCR.Enabled {
		engine = ocr.NewTesseractEngine()
	}

	extractor := gemini.NewClient(gemini.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)

	processor := pipeline.NewProcessor(pipeline.ProcessorConfig{
		Normalizer:  normalizer,
		Engine:      engine,
		Extractor:   extractor,
		Gate:        pipeline.NewDelayGate(delay),
		Logger:      logger,
		Model:       cfg.LLM.Model,
		MaxAttempts: cfg.Batch.MaxAttempts,
		OCRLangs:    []string{cfg.OCR.Language},
		DPI:         cfg.Preprocess.DPI,
	})

	logger.Info("starting batch",
		"mode", docMode,
		"model", cfg.LLM.Model,
		"documents", len(paths),
		"delay", delay.String(),
		"ocr", cfg.OCR.Enabled)

	set, err := processor.ProcessBatch(ctx, paths, docMode)
	if err != nil {
		logger.Warn("batch interrupted", "error", err, "completed", len(set.Results))
	}

	if err := export.NewExporter(logger).Write(set, *out, format); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	printSummary(set, *out)
}

// printSummary renders the per-document table and batch totals to stdout,
// after the structured log stream.
func printSummary(set *pipeline.ResultSet, out string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"File", "Status", "Attempts", "Tokens", "Detail"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, r := range set.Results {
		detail := ""
		switch {
		case r.Error != nil:
			detail = r.Error.Kind + ": " + r.Error.Message
		case r.Receipt != nil:
			detail = r.Receipt.MerchantName
		case r.Resume != nil:
			detail = r.Resume.Name
		}
		table.Append([]string{
			filepath.Base(r.FilePath),
			string(r.Status),
			strconv.Itoa(r.Attempts),
			strconv.Itoa(r.Usage.TotalTokens),
			truncate(detail, 60),
		})
	}
	table.Render()

	s := set.Summarize()
	fmt.Printf("\nProcessed %d document(s): %d succeeded, %d failed\n", s.Total, s.Succeeded, s.Failed)
	fmt.Printf("Token usage: prompt=%d thoughts=%d completion=%d total=%d\n",
		s.TotalUsage.PromptTokens, s.TotalUsage.ThoughtsTokens,
		s.TotalUsage.CompletionTokens, s.TotalUsage.TotalTokens)
	fmt.Printf("Output: %s\n", out)
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

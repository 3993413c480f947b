package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"docscan/internal/llm"
)

var _ llm.Extractor = (*Client)(nil)

// Client implements llm.Extractor against the Gemini API.
type Client struct {
	cfg *Config
	log *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger, options ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &Client{cfg: &cfg, log: logger}
}

// Extract sends the page images plus instructions to Gemini and parses the
// answer into the requested schema variant. Token usage is taken from the
// response metadata and reported even when parsing fails, since quota is
// billed either way.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (*llm.Extraction, error) {
	rid := uuid.New().String()
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	c.log.Info("extract.start",
		"req_id", rid,
		"model", model,
		"mode", string(req.Mode),
		"images", len(req.Images),
		"ocr_bytes", len(req.OCRText),
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	client, err := c.cfg.newClient(ctx)
	if err != nil {
		return nil, classify(err)
	}

	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: "image/png",
				Data:     img,
			},
		})
	}
	parts = append(parts, genai.NewPartFromText(llm.BuildUserPrompt(req)))

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.BuildSystemPrompt(req.Mode), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		c.log.Error("extract.service_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, classify(err)
	}

	usage := toUsage(resp.UsageMetadata)

	text := resp.Text()
	if text == "" {
		c.log.Error("extract.empty_response",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return &llm.Extraction{Usage: usage}, fmt.Errorf("empty response from model: %w", errEmptyResponse)
	}

	ext, err := llm.ParseResponse(text, req.Mode)
	if err != nil {
		c.log.Error("extract.schema_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		// usage is billed even when the answer does not parse
		return &llm.Extraction{Usage: usage}, err
	}
	ext.Usage = usage

	c.log.Info("extract.ok",
		"req_id", rid,
		"mode", string(req.Mode),
		"warnings", len(ext.Warnings),
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"total_tokens", usage.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return ext, nil
}

func toUsage(md *genai.GenerateContentResponseUsageMetadata) llm.Usage {
	if md == nil {
		return llm.Usage{}
	}
	return llm.Usage{
		PromptTokens:     int(md.PromptTokenCount),
		ThoughtsTokens:   int(md.ThoughtsTokenCount),
		CompletionTokens: int(md.CandidatesTokenCount),
		TotalTokens:      int(md.TotalTokenCount),
	}
}

package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"docscan/internal/pipeline"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a user-supplied format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv or xlsx)", s)
}

// Exporter writes a finished batch to disk in one of the supported formats.
// Results carry no credentials, so the payload is safe to share as-is.
type Exporter struct {
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// Write encodes the set and writes it to path. The extension is not trusted;
// format decides the encoding.
func (e *Exporter) Write(set *pipeline.ResultSet, path string, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = MarshalJSON(set)
	case FormatCSV:
		data, err = MarshalCSV(set)
	case FormatXLSX:
		data, err = MarshalXLSX(set)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	e.logger.Info("export.ok",
		"format", string(format),
		"path", path,
		"documents", len(set.Results),
		"bytes", len(data))
	return nil
}

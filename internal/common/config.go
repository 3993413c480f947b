package common

import (
	"os"
	"strconv"
	"time"

	"docscan/constants"
)

// Config holds all application configuration
type Config struct {
	LLM        LLMConfig
	Preprocess PreprocessConfig
	OCR        OCRConfig
	Batch      BatchConfig
}

// LLMConfig holds extraction-service configuration
type LLMConfig struct {
	Model   string
	APIKey  string
	Timeout time.Duration
}

// PreprocessConfig holds image-normalization configuration
type PreprocessConfig struct {
	DPI      int
	Denoise  bool
	Deskew   bool
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
}

// OCRConfig holds Tesseract configuration
type OCRConfig struct {
	Enabled  bool
	Language string
}

// BatchConfig holds orchestration configuration
type BatchConfig struct {
	ResumeDelay  time.Duration
	ReceiptDelay time.Duration
	MaxAttempts  int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:   getEnv("GEMINI_MODEL", constants.DefaultModel),
			APIKey:  getEnv("GOOGLE_API_KEY", ""),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 90*time.Second),
		},
		Preprocess: PreprocessConfig{
			DPI:      getEnvAsInt("PREPROCESS_DPI", 200),
			Denoise:  getEnvAsBool("PREPROCESS_DENOISE", true),
			Deskew:   getEnvAsBool("PREPROCESS_DESKEW", true),
			Pdftoppm: getEnv("PDFTOPPM_BIN", "pdftoppm"),
		},
		OCR: OCRConfig{
			Enabled:  getEnvAsBool("OCR_ENABLED", true),
			Language: getEnv("TESSERACT_LANG", "eng"),
		},
		Batch: BatchConfig{
			ResumeDelay:  getEnvAsDuration("RESUME_DELAY", 60*time.Second),
			ReceiptDelay: getEnvAsDuration("RECEIPT_DELAY", 2*time.Second),
			MaxAttempts:  getEnvAsInt("MAX_ATTEMPTS", 3),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate reports configuration errors that must stop a batch before the
// first document is attempted.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GOOGLE_API_KEY is required", ErrInvalidInput)
	}
	if !constants.IsKnownModel(c.LLM.Model) {
		return NewAppError("CONFIG_ERROR", "unknown model identifier: "+c.LLM.Model, ErrInvalidInput)
	}
	if c.Preprocess.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "DPI must be positive", ErrInvalidInput)
	}
	if c.Batch.MaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "MAX_ATTEMPTS must be at least 1", ErrInvalidInput)
	}
	return nil
}

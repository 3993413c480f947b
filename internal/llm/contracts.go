package llm

import "context"

// Mode selects the extraction schema variant.
type Mode string

const (
	ModeResume  Mode = "resume"
	ModeReceipt Mode = "receipt"
)

// ExperienceEntry is one position on a resume, in document order.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is one qualification on a resume.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ResumeFields is the normalized shape we want from the model for resumes.
type ResumeFields struct {
	Name             string            `json:"name"`
	Email            string            `json:"email,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	Category         string            `json:"category"`
	ExperienceYears  string            `json:"experience_years,omitempty"`
	HighestEducation string            `json:"highest_education,omitempty"`
	Skills           []string          `json:"skills,omitempty"`
	Experience       []ExperienceEntry `json:"experience,omitempty"`
	Education        []EducationEntry  `json:"education,omitempty"`
}

// LineItem is one purchased item on a receipt, in printed order.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

// ReceiptFields is the normalized shape we want from the model for receipts.
type ReceiptFields struct {
	MerchantName  string     `json:"merchant_name"`
	Date          string     `json:"date"` // YYYY-MM-DD
	Time          string     `json:"time,omitempty"`
	Total         float64    `json:"total"`
	Subtotal      float64    `json:"subtotal,omitempty"`
	Tax           float64    `json:"tax,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Items         []LineItem `json:"items,omitempty"`
	Category      string     `json:"category,omitempty"` // one of constants.AsStringSlice
	Address       string     `json:"address,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	ReceiptNumber string     `json:"receipt_number,omitempty"`
}

// Usage mirrors the billing metadata reported by the service. It is never
// computed locally.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	ThoughtsTokens   int `json:"thoughts_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates usage across attempts; quota is billed even on failures.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.ThoughtsTokens += other.ThoughtsTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ExtractRequest carries everything one model call needs: the normalized page
// images, optional OCR text as supplementary context, and the schema variant.
type ExtractRequest struct {
	Images  [][]byte // PNG-encoded pages, in page order
	OCRText string
	Mode    Mode
	Model   string
}

// Extraction is the outcome of one model call. Exactly one of Resume/Receipt
// is set on success; Usage is populated whenever the service returned
// metadata, including when parsing failed.
type Extraction struct {
	Resume   *ResumeFields
	Receipt  *ReceiptFields
	Raw      []byte // JSON as returned by the model, after locating
	Usage    Usage
	Warnings []string
}

// Extractor is the narrow interface the pipeline depends on, so alternative
// providers can be substituted without touching the orchestrator.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (*Extraction, error)
}

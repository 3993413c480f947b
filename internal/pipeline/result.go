package pipeline

import (
	"time"

	"docscan/constants"
	"docscan/internal/llm"
)

// ErrorInfo is the exportable description of a per-document failure.
type ErrorInfo struct {
	Kind    string `json:"kind"` // conversion | ocr | schema | service | internal
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Result is the outcome for one input document. Exactly one of Resume/Receipt
// is set when Status is SUCCEEDED. Usage is accumulated across all attempts,
// including failed ones.
type Result struct {
	FilePath string              `json:"file_path"`
	Status   constants.DocStatus `json:"status"`
	Resume   *llm.ResumeFields   `json:"resume,omitempty"`
	Receipt  *llm.ReceiptFields  `json:"receipt,omitempty"`
	Usage    llm.Usage           `json:"usage"`
	Warnings []string            `json:"warnings,omitempty"`
	Error    *ErrorInfo          `json:"error,omitempty"`
	Pages    int                 `json:"pages,omitempty"`
	Attempts int                 `json:"attempts"`
	Elapsed  time.Duration       `json:"-"`
}

// ResultSet holds batch results in input order.
type ResultSet struct {
	Mode    llm.Mode  `json:"mode"`
	Model   string    `json:"model"`
	Started time.Time `json:"started"`
	Results []Result  `json:"results"`
}

// Summary aggregates a ResultSet for display and the final log line.
type Summary struct {
	Total      int
	Succeeded  int
	Failed     int
	TotalUsage llm.Usage
	Failures   []Result
}

// Summarize walks the set once and returns batch totals. Usage is included
// for failed documents too, since the service bills those attempts.
func (rs *ResultSet) Summarize() Summary {
	s := Summary{Total: len(rs.Results)}
	for _, r := range rs.Results {
		s.TotalUsage.Add(r.Usage)
		if r.Status == constants.DocStatusSucceeded {
			s.Succeeded++
			continue
		}
		s.Failed++
		s.Failures = append(s.Failures, r)
	}
	return s
}

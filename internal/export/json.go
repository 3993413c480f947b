package export

import (
	"encoding/json"
	"time"

	"docscan/internal/llm"
	"docscan/internal/pipeline"
)

// Payload is the JSON export envelope. Field names are part of the output
// contract; downstream tooling parses them.
type Payload struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Mode        llm.Mode          `json:"mode"`
	Model       string            `json:"model"`
	Documents   int               `json:"documents"`
	Succeeded   int               `json:"succeeded"`
	Failed      int               `json:"failed"`
	TotalUsage  llm.Usage         `json:"total_usage"`
	Results     []pipeline.Result `json:"results"`
}

// MarshalJSON renders the full batch, failures included, as indented JSON.
func MarshalJSON(set *pipeline.ResultSet) ([]byte, error) {
	s := set.Summarize()
	p := Payload{
		GeneratedAt: time.Now().UTC(),
		Mode:        set.Mode,
		Model:       set.Model,
		Documents:   s.Total,
		Succeeded:   s.Succeeded,
		Failed:      s.Failed,
		TotalUsage:  s.TotalUsage,
		Results:     set.Results,
	}
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

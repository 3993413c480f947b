package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// receiptMoneyKeys are the numeric receipt fields the model sometimes returns
// as strings ("12.45", "$12.45"). We coerce; we never invent values.
var receiptMoneyKeys = []string{"total", "subtotal", "tax"}

// totalsTolerance is the slack allowed before total vs subtotal+tax is
// flagged. Values are only ever flagged, never silently corrected.
const totalsTolerance = 0.01

// SanitizeFields normalizes a located JSON object so it can validate against
// the strict schema: numeric coercion for money and quantity fields, null and
// empty-string optionals dropped. Returns the cleaned document and the list
// of keys that were touched.
func SanitizeFields(doc []byte, mode Mode) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var touched []string

	// drop nulls everywhere; the schema never allows them
	for k, v := range m {
		if v == nil {
			delete(m, k)
			touched = append(touched, k)
		}
	}

	switch mode {
	case ModeReceipt:
		for _, k := range receiptMoneyKeys {
			if changed := coerceNumber(m, k); changed {
				touched = append(touched, k)
			}
		}
		if items, ok := m["items"].([]any); ok {
			for _, it := range items {
				entry, ok := it.(map[string]any)
				if !ok {
					continue
				}
				for k, v := range entry {
					if v == nil {
						delete(entry, k)
					}
				}
				if coerceNumber(entry, "quantity") || coerceNumber(entry, "price") {
					touched = append(touched, "items")
				}
			}
		}
	case ModeResume:
		// models answer "3" or 3 interchangeably for years of experience
		if v, ok := m["experience_years"]; ok {
			if f, isNum := v.(float64); isNum {
				m["experience_years"] = strconv.FormatFloat(f, 'f', -1, 64)
				touched = append(touched, "experience_years")
			}
		}
	}

	// drop empty-string optionals so minLength constraints cannot trip
	for k, v := range m {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			delete(m, k)
			touched = append(touched, k)
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, touched, nil
}

// coerceNumber turns a string-typed numeric field into a float64, stripping
// common currency noise. Unparseable values are dropped rather than guessed.
func coerceNumber(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case float64:
		return false
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimLeft(s, "$£€ ")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") {
			delete(m, key)
			return true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			delete(m, key)
			return true
		}
		m[key] = f
		return true
	default:
		delete(m, key)
		return true
	}
}

// DecodeReceiptFields unmarshals a sanitized, validated document.
func DecodeReceiptFields(raw []byte) (ReceiptFields, error) {
	var out ReceiptFields
	if err := json.Unmarshal(raw, &out); err != nil {
		return ReceiptFields{}, fmt.Errorf("unmarshal receipt fields: %w", err)
	}
	return out, nil
}

// DecodeResumeFields unmarshals a sanitized, validated document.
func DecodeResumeFields(raw []byte) (ResumeFields, error) {
	var out ResumeFields
	if err := json.Unmarshal(raw, &out); err != nil {
		return ResumeFields{}, fmt.Errorf("unmarshal resume fields: %w", err)
	}
	return out, nil
}

// TotalsWarnings flags an arithmetic mismatch between total and subtotal+tax.
// The extracted values are left untouched; accuracy is the model's problem,
// silently "fixing" totals is worse than reporting them.
func TotalsWarnings(f ReceiptFields) []string {
	if f.Subtotal == 0 {
		return nil
	}
	expected := f.Subtotal + f.Tax
	if math.Abs(f.Total-expected) > totalsTolerance {
		return []string{fmt.Sprintf(
			"total %.2f does not equal subtotal %.2f + tax %.2f",
			f.Total, f.Subtotal, f.Tax,
		)}
	}
	return nil
}

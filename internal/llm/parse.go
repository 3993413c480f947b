package llm

import (
	"docscan/constants"
	"docscan/internal/common"
)

// ParseResponse runs the full boundary discipline on a model response: locate
// the JSON object, sanitize it, validate it against the variant schema, and
// decode it into the typed record. Every failure surfaces as a SchemaError so
// the orchestrator can tell "bad answer" from "bad service".
func ParseResponse(text string, mode Mode) (*Extraction, error) {
	located, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	cleaned, _, err := SanitizeFields(located, mode)
	if err != nil {
		return nil, &common.SchemaError{Detail: "response is not a JSON object", Cause: err}
	}

	// category is left unconstrained in the schema; Canonicalize absorbs
	// label drift below instead of failing the whole document
	schema := BuildJSONSchema(mode, nil)
	if err := ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		return nil, &common.SchemaError{Detail: "response does not match extraction schema", Cause: err}
	}

	ext := &Extraction{Raw: cleaned}
	switch mode {
	case ModeReceipt:
		fields, err := DecodeReceiptFields(cleaned)
		if err != nil {
			return nil, &common.SchemaError{Detail: "decode receipt fields", Cause: err}
		}
		if canon, ok := constants.Canonicalize(fields.Category); ok {
			fields.Category = string(canon)
		} else if fields.Category != "" {
			ext.Warnings = append(ext.Warnings, "unknown category label: "+fields.Category)
			fields.Category = string(constants.Other)
		}
		ext.Warnings = append(ext.Warnings, TotalsWarnings(fields)...)
		ext.Receipt = &fields
	case ModeResume:
		fields, err := DecodeResumeFields(cleaned)
		if err != nil {
			return nil, &common.SchemaError{Detail: "decode resume fields", Cause: err}
		}
		ext.Resume = &fields
	default:
		return nil, &common.SchemaError{Detail: "unknown extraction mode: " + string(mode)}
	}
	return ext, nil
}

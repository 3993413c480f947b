package llm

// BuildJSONSchema returns the JSON-Schema (draft 2020-12 subset) for a mode,
// as a generic map suitable for compilation and for prompt embedding.
func BuildJSONSchema(mode Mode, allowedCategories []string) map[string]any {
	switch mode {
	case ModeResume:
		return buildResumeJSONSchema()
	case ModeReceipt:
		return buildReceiptJSONSchema(allowedCategories)
	}
	return nil
}

func buildResumeJSONSchema() map[string]any {
	entry := func(props map[string]any, required []string) map[string]any {
		return map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           props,
			"required":             required,
		}
	}

	props := map[string]any{
		"name":              map[string]any{"type": "string", "minLength": 1},
		"email":             map[string]any{"type": "string"},
		"phone":             map[string]any{"type": "string"},
		"category":          map[string]any{"type": "string", "minLength": 1},
		"experience_years":  map[string]any{"type": "string"},
		"highest_education": map[string]any{"type": "string"},
		"skills": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"experience": map[string]any{
			"type": "array",
			"items": entry(map[string]any{
				"title":       map[string]any{"type": "string"},
				"company":     map[string]any{"type": "string"},
				"duration":    map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
			}, []string{"title"}),
		},
		"education": map[string]any{
			"type": "array",
			"items": entry(map[string]any{
				"degree":      map[string]any{"type": "string"},
				"institution": map[string]any{"type": "string"},
				"year":        map[string]any{"type": "string"},
			}, []string{"degree"}),
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"name", "category"},
	}
}

func buildReceiptJSONSchema(allowedCategories []string) map[string]any {
	props := map[string]any{
		"merchant_name":  map[string]any{"type": "string", "minLength": 1},
		"date":           map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"time":           map[string]any{"type": "string"},
		"total":          numberProp(),
		"subtotal":       numberProp(),
		"tax":            numberProp(),
		"payment_method": map[string]any{"type": "string"},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"name":     map[string]any{"type": "string", "minLength": 1},
					"quantity": numberProp(),
					"price":    numberProp(),
				},
				"required": []string{"name"},
			},
		},
		"category":       map[string]any{"type": "string"},
		"address":        map[string]any{"type": "string"},
		"phone":          map[string]any{"type": "string"},
		"receipt_number": map[string]any{"type": "string"},
	}

	// Constrain category when a taxonomy is provided.
	if len(allowedCategories) > 0 {
		props["category"] = map[string]any{
			"type": "string",
			"enum": allowedCategories,
		}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"merchant_name", "total"},
	}
}

func numberProp() map[string]any {
	return map[string]any{"type": "number"}
}

package llm

import (
	"strings"

	"docscan/internal/common"
)

// ExtractJSONObject locates the JSON object inside a model response that may
// be wrapped in explanatory prose or code-fence markup. It strips markdown
// fences, then scans for the first balanced top-level object, honoring string
// literals and escapes so braces inside values cannot unbalance the scan.
func ExtractJSONObject(s string) ([]byte, error) {
	s = stripFences(s)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, &common.SchemaError{Detail: "no JSON object found in response"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(s[start : i+1]), nil
			}
		}
	}
	return nil, &common.SchemaError{Detail: "unbalanced JSON object in response"}
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

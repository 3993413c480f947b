package constants

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "gemini-2.0-flash-exp"

// KnownModels is the enumerated set of supported Gemini model identifiers.
var KnownModels = []string{
	"gemini-2.0-flash-exp",
	"gemini-2.5-flash-lite",
	"gemini-2.5-flash",
	"gemini-2.5-pro",
}

func IsKnownModel(name string) bool {
	for _, m := range KnownModels {
		if m == name {
			return true
		}
	}
	return false
}

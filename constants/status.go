package constants

// DocStatus tracks a document through the extraction pipeline.
type DocStatus string

// Stable values (exported in results, keep these exact strings).
const (
	DocStatusPending       DocStatus = "PENDING"
	DocStatusNormalizing   DocStatus = "NORMALIZING"    // rasterize + preprocess
	DocStatusOCRExtracting DocStatus = "OCR_EXTRACTING" // local OCR before the model call
	DocStatusExtracting    DocStatus = "EXTRACTING"     // model call in flight
	DocStatusSucceeded     DocStatus = "SUCCEEDED"      // terminal success
	DocStatusFailed        DocStatus = "FAILED"         // terminal failure
)

package llm

import (
	"strings"

	"docscan/constants"
)

// BuildSystemPrompt composes the instruction preamble for a schema variant.
// The prompt names every field and the allowed category enum so that the
// model's JSON can be validated strictly at the boundary.
func BuildSystemPrompt(mode Mode) string {
	switch mode {
	case ModeResume:
		return strings.Join([]string{
			"You are a resume parser. You will receive the pages of one resume as images, in reading order.",
			"The images have been converted to grayscale, noise reduced, binarized, and deskewed.",
			"Return ONLY a JSON object with these fields:",
			"name, email, phone, category, experience_years, highest_education,",
			"skills (array of strings),",
			"experience (array of {title, company, duration, description} in document order),",
			"education (array of {degree, institution, year}).",
			"Use the supplied OCR text as support; if the OCR looks wrong somewhere, trust the image and correct it.",
			"Never output null. If a field is not present, omit it.",
		}, " ")
	case ModeReceipt:
		return strings.Join([]string{
			"You are a receipts parser. You will receive one receipt as one or more images.",
			"Return ONLY a JSON object with these fields:",
			"merchant_name, date (YYYY-MM-DD), time, total, subtotal, tax, payment_method,",
			"items (array of {name, quantity, price} in printed order),",
			"category, address, phone, receipt_number.",
			"Amounts are plain numbers without currency symbols.",
			"category MUST be exactly one of: " + strings.Join(constants.AsStringSlice(), ", ") + ". If uncertain, choose 'Other'.",
			"Never output null. If a field is not present, omit it.",
		}, " ")
	}
	return ""
}

// BuildUserPrompt packages the per-document context that accompanies the
// images. OCR text is truncated so a noisy scan cannot blow up the request.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	b.WriteString("Extract the information from the attached image(s).")

	if ocr := strings.TrimSpace(req.OCRText); ocr != "" {
		b.WriteString("\n\nText extracted from the images with Tesseract, as support (first ~6k chars):\n")
		if len(ocr) > 6000 {
			b.WriteString(ocr[:6000])
			b.WriteString("\n…(truncated)")
		} else {
			b.WriteString(ocr)
		}
	}

	b.WriteString("\n\nRespond with the extracted information only, as a single JSON object.")
	return b.String()
}

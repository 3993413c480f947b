package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"docscan/constants"
	"docscan/internal/llm"
	"docscan/internal/pipeline"
)

// MarshalCSV flattens the batch into rows. Receipt batches emit one row per
// line item (plus one summary row per receipt); resume batches emit one row
// per document. Failed documents get a row with the error in the last column
// so nothing silently disappears from the sheet.
func MarshalCSV(set *pipeline.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var err error
	if set.Mode == llm.ModeResume {
		err = writeResumeRows(w, set)
	} else {
		err = writeReceiptRows(w, set)
	}
	if err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeReceiptRows(w *csv.Writer, set *pipeline.ResultSet) error {
	header := []string{
		"file", "status", "merchant", "date", "time", "category",
		"item", "quantity", "price",
		"subtotal", "tax", "total", "payment_method", "receipt_number", "error",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, res := range set.Results {
		if res.Status != constants.DocStatusSucceeded {
			if err := w.Write(failedRow(len(header), res)); err != nil {
				return err
			}
			continue
		}
		r := res.Receipt
		base := []string{res.FilePath, string(res.Status), r.MerchantName, r.Date, r.Time, r.Category}
		// summary row first, then one row per item
		summary := append(append([]string{}, base...),
			"", "", "",
			money(r.Subtotal), money(r.Tax), money(r.Total),
			r.PaymentMethod, r.ReceiptNumber, "")
		if err := w.Write(summary); err != nil {
			return err
		}
		for _, it := range r.Items {
			row := append(append([]string{}, base...),
				it.Name, number(it.Quantity), money(it.Price),
				"", "", "", "", "", "")
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeResumeRows(w *csv.Writer, set *pipeline.ResultSet) error {
	header := []string{
		"file", "status", "name", "email", "phone", "category",
		"experience_years", "highest_education", "skills", "positions", "error",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, res := range set.Results {
		if res.Status != constants.DocStatusSucceeded {
			if err := w.Write(failedRow(len(header), res)); err != nil {
				return err
			}
			continue
		}
		r := res.Resume
		row := []string{
			res.FilePath, string(res.Status),
			r.Name, r.Email, r.Phone, r.Category,
			r.ExperienceYears, r.HighestEducation,
			strings.Join(r.Skills, "; "),
			strconv.Itoa(len(r.Experience)),
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// failedRow pads a failure into the current header shape, with the error
// message in the final column.
func failedRow(width int, res pipeline.Result) []string {
	row := make([]string, width)
	row[0] = res.FilePath
	row[1] = string(res.Status)
	if res.Error != nil {
		row[width-1] = res.Error.Kind + ": " + res.Error.Message
	}
	return row
}

func money(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func number(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

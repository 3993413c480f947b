package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"docscan/constants"
	"docscan/internal/llm"
	"docscan/internal/pipeline"
)

// MarshalXLSX renders the batch as a single-sheet workbook. Receipts and
// resumes get the same columns as their CSV counterparts; numeric cells stay
// numeric so spreadsheet formulas work on them.
func MarshalXLSX(set *pipeline.ResultSet) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Receipts"
	if set.Mode == llm.ModeResume {
		sheet = "Resumes"
	}
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook has exactly one
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	var err error
	if set.Mode == llm.ModeResume {
		err = fillResumeSheet(f, sheet, set)
	} else {
		err = fillReceiptSheet(f, sheet, set)
	}
	if err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func fillReceiptSheet(f *excelize.File, sheet string, set *pipeline.ResultSet) error {
	headers := []any{
		"File", "Status", "Merchant", "Date", "Category",
		"Subtotal", "Tax", "Total", "Payment Method", "Tokens", "Error",
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	row := 2
	for _, res := range set.Results {
		values := []any{res.FilePath, string(res.Status)}
		if res.Status == constants.DocStatusSucceeded {
			r := res.Receipt
			values = append(values,
				r.MerchantName, r.Date, r.Category,
				r.Subtotal, r.Tax, r.Total, r.PaymentMethod,
				res.Usage.TotalTokens, "")
		} else {
			msg := ""
			if res.Error != nil {
				msg = res.Error.Kind + ": " + res.Error.Message
			}
			values = append(values, "", "", "", "", "", "", "", res.Usage.TotalTokens, msg)
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 40) // file path
	_ = f.SetColWidth(sheet, "C", "C", 28) // merchant
	_ = f.SetColWidth(sheet, "D", "E", 22) // date, category
	_ = f.SetColWidth(sheet, "F", "H", 12) // amounts
	_ = f.SetColWidth(sheet, "K", "K", 48) // error
	return nil
}

func fillResumeSheet(f *excelize.File, sheet string, set *pipeline.ResultSet) error {
	headers := []any{
		"File", "Status", "Name", "Email", "Phone", "Category",
		"Experience (yrs)", "Highest Education", "Skills", "Tokens", "Error",
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	row := 2
	for _, res := range set.Results {
		values := []any{res.FilePath, string(res.Status)}
		if res.Status == constants.DocStatusSucceeded {
			r := res.Resume
			values = append(values,
				r.Name, r.Email, r.Phone, r.Category,
				r.ExperienceYears, r.HighestEducation,
				joinLimited(r.Skills, 140),
				res.Usage.TotalTokens, "")
		} else {
			msg := ""
			if res.Error != nil {
				msg = res.Error.Kind + ": " + res.Error.Message
			}
			values = append(values, "", "", "", "", "", "", "", res.Usage.TotalTokens, msg)
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "C", "C", 24)
	_ = f.SetColWidth(sheet, "D", "D", 28)
	_ = f.SetColWidth(sheet, "I", "I", 48)
	_ = f.SetColWidth(sheet, "K", "K", 48)
	return nil
}

func joinLimited(parts []string, n int) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "; "
		}
		s += p
	}
	if n > 1 && len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docscan/constants"
	"docscan/internal/llm"
	"docscan/internal/pipeline"
)

func receiptSet() *pipeline.ResultSet {
	return &pipeline.ResultSet{
		Mode:    llm.ModeReceipt,
		Model:   "test-model",
		Started: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		Results: []pipeline.Result{
			{
				FilePath: "receipts/coffee.png",
				Status:   constants.DocStatusSucceeded,
				Receipt: &llm.ReceiptFields{
					MerchantName: "Blue Bottle",
					Date:         "2024-03-15",
					Total:        12.45,
					Subtotal:     11.50,
					Tax:          0.95,
					Category:     "Meals & Entertainment",
					Items: []llm.LineItem{
						{Name: "latte", Quantity: 1, Price: 5.50},
						{Name: "croissant", Quantity: 2, Price: 3.00},
					},
				},
				Usage:    llm.Usage{PromptTokens: 900, CompletionTokens: 100, TotalTokens: 1000},
				Attempts: 1,
			},
			{
				FilePath: "receipts/broken.pdf",
				Status:   constants.DocStatusFailed,
				Error:    &pipeline.ErrorInfo{Kind: "conversion", Stage: "normalize", Message: "corrupt header"},
				Attempts: 1,
			},
		},
	}
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	out, err := MarshalJSON(receiptSet())
	require.NoError(t, err)

	var p Payload
	require.NoError(t, json.Unmarshal(out, &p))

	assert.Equal(t, llm.ModeReceipt, p.Mode)
	assert.Equal(t, "test-model", p.Model)
	assert.Equal(t, 2, p.Documents)
	assert.Equal(t, 1, p.Succeeded)
	assert.Equal(t, 1, p.Failed)
	assert.Equal(t, 1000, p.TotalUsage.TotalTokens)

	require.Len(t, p.Results, 2)
	r := p.Results[0].Receipt
	require.NotNil(t, r)
	assert.InDelta(t, 12.45, r.Total, 1e-6)
	assert.InDelta(t, 11.50, r.Subtotal, 1e-6)
	assert.InDelta(t, 0.95, r.Tax, 1e-6)
	require.NotNil(t, p.Results[1].Error)
	assert.Equal(t, "conversion", p.Results[1].Error.Kind)
}

func TestMarshalJSONNeverContainsCredentials(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "super-secret-key")
	out, err := MarshalJSON(receiptSet())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "super-secret-key")
	assert.NotContains(t, string(out), "api_key")
}

func TestMarshalCSVReceiptRows(t *testing.T) {
	out, err := MarshalCSV(receiptSet())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	// header + summary + 2 items + 1 failure
	require.Len(t, rows, 5)

	assert.Equal(t, "file", rows[0][0])
	assert.Equal(t, "receipts/coffee.png", rows[1][0])
	assert.Equal(t, "12.45", rows[1][11])
	assert.Equal(t, "latte", rows[2][6])
	assert.Equal(t, "croissant", rows[3][6])

	failed := rows[4]
	assert.Equal(t, "receipts/broken.pdf", failed[0])
	assert.Equal(t, "FAILED", failed[1])
	assert.Contains(t, failed[len(failed)-1], "corrupt header")
}

func TestMarshalCSVResumeRows(t *testing.T) {
	set := &pipeline.ResultSet{
		Mode:  llm.ModeResume,
		Model: "test-model",
		Results: []pipeline.Result{{
			FilePath: "cv/dana.pdf",
			Status:   constants.DocStatusSucceeded,
			Resume: &llm.ResumeFields{
				Name:     "Dana Feld",
				Category: "Software Engineering",
				Skills:   []string{"Go", "SQL"},
				Experience: []llm.ExperienceEntry{
					{Title: "Engineer", Company: "Initech"},
				},
			},
		}},
	}
	out, err := MarshalCSV(set)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Dana Feld", rows[1][2])
	assert.Equal(t, "Go; SQL", rows[1][8])
	assert.Equal(t, "1", rows[1][9])
}

func TestMarshalXLSXReceipt(t *testing.T) {
	out, err := MarshalXLSX(receiptSet())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Receipts")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Merchant", rows[0][2])
	assert.Equal(t, "Blue Bottle", rows[1][2])

	total, err := f.GetCellValue("Receipts", "H2")
	require.NoError(t, err)
	assert.Equal(t, "12.45", total)
}

func TestExporterWriteDispatch(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(nil)
	set := receiptSet()

	for _, format := range []Format{FormatJSON, FormatCSV, FormatXLSX} {
		path := filepath.Join(dir, "out."+string(format))
		require.NoError(t, e.Write(set, path, format))
		assert.FileExists(t, path)
	}

	err := e.Write(set, filepath.Join(dir, "out.bin"), Format("yaml"))
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON, "CSV": FormatCSV, " xlsx ": FormatXLSX,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	require.Error(t, err)
}

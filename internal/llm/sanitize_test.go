package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFieldsCoercesMoneyStrings(t *testing.T) {
	in := []byte(`{"merchant_name":"ACME","total":"$12.45","subtotal":"11.50","tax":0.95,"time":null}`)
	out, touched, err := SanitizeFields(in, ModeReceipt)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, 12.45, m["total"])
	assert.Equal(t, 11.50, m["subtotal"])
	assert.Equal(t, 0.95, m["tax"])
	assert.NotContains(t, m, "time")
	assert.Contains(t, touched, "total")
	assert.Contains(t, touched, "time")
}

func TestSanitizeFieldsDropsUnparseable(t *testing.T) {
	in := []byte(`{"merchant_name":"ACME","total":12.45,"tax":"N/A","subtotal":"eleven"}`)
	out, _, err := SanitizeFields(in, ModeReceipt)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.NotContains(t, m, "tax", "unparseable values must be dropped, never guessed")
	assert.NotContains(t, m, "subtotal")
	assert.Equal(t, 12.45, m["total"])
}

func TestSanitizeFieldsItemNumbers(t *testing.T) {
	in := []byte(`{"merchant_name":"ACME","total":5,"items":[{"name":"coffee","quantity":"2","price":"2.50"}]}`)
	out, _, err := SanitizeFields(in, ModeReceipt)
	require.NoError(t, err)

	fields, err := DecodeReceiptFields(out)
	require.NoError(t, err)
	require.Len(t, fields.Items, 1)
	assert.Equal(t, 2.0, fields.Items[0].Quantity)
	assert.Equal(t, 2.50, fields.Items[0].Price)
}

func TestSanitizeFieldsResumeYears(t *testing.T) {
	in := []byte(`{"name":"Dana","category":"Engineering","experience_years":7}`)
	out, _, err := SanitizeFields(in, ModeResume)
	require.NoError(t, err)

	fields, err := DecodeResumeFields(out)
	require.NoError(t, err)
	assert.Equal(t, "7", fields.ExperienceYears)
}

func TestTotalsWarnings(t *testing.T) {
	consistent := ReceiptFields{Total: 12.45, Subtotal: 11.50, Tax: 0.95}
	assert.Empty(t, TotalsWarnings(consistent))

	off := ReceiptFields{Total: 20.00, Subtotal: 11.50, Tax: 0.95}
	warns := TotalsWarnings(off)
	require.Len(t, warns, 1)

	// warning only; the values themselves are untouched
	assert.Equal(t, 20.00, off.Total)

	// no subtotal reported -> nothing to check
	assert.Empty(t, TotalsWarnings(ReceiptFields{Total: 9.99}))
}

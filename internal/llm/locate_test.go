package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docscan/internal/common"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"total": 5.0}`,
			want: `{"total": 5.0}`,
		},
		{
			name: "surrounded by prose",
			in:   "Here is the data:\n{\"total\": 5.0}\nHope that helps!",
			want: `{"total": 5.0}`,
		},
		{
			name: "code fence",
			in:   "```json\n{\"merchant_name\": \"ACME\"}\n```",
			want: `{"merchant_name": "ACME"}`,
		},
		{
			name: "braces inside string values",
			in:   `prefix {"note": "use {curly} braces", "n": 1} suffix`,
			want: `{"note": "use {curly} braces", "n": 1}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"name": "say \"hi\" {now}"}`,
			want: `{"name": "say \"hi\" {now}"}`,
		},
		{
			name: "nested object",
			in:   `answer: {"a": {"b": 2}} done`,
			want: `{"a": {"b": 2}}`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ExtractJSONObject(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, string(got))
		})
	}
}

func TestExtractJSONObjectFailures(t *testing.T) {
	for _, in := range []string{
		"no json here at all",
		"",
		`{"unterminated": true`,
	} {
		_, err := ExtractJSONObject(in)
		require.Error(t, err, "input %q", in)
		var se *common.SchemaError
		assert.True(t, errors.As(err, &se), "want SchemaError for %q, got %v", in, err)
	}
}

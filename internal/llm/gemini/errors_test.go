package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"docscan/internal/common"
)

func TestClassifyAPIErrors(t *testing.T) {
	cases := []struct {
		name      string
		code      int
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"overloaded", http.StatusServiceUnavailable, true},
		{"bad request", http.StatusBadRequest, false},
		{"bad key", http.StatusUnauthorized, false},
		{"forbidden", http.StatusForbidden, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify(genai.APIError{Code: tc.code, Message: tc.name})
			se, ok := common.AsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, se.StatusCode)
			assert.Equal(t, tc.retryable, se.Retryable)
			assert.Equal(t, tc.retryable, common.IsRetryable(err))
		})
	}
}

func TestClassifyTimeout(t *testing.T) {
	err := classify(context.DeadlineExceeded)
	require.True(t, common.IsRetryable(err))
}

func TestClassifyUnknownErrorIsTerminal(t *testing.T) {
	err := classify(errors.New("tls handshake mangled"))
	se, ok := common.AsServiceError(err)
	require.True(t, ok)
	assert.False(t, se.Retryable)
}

package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/genai"

	"docscan/internal/common"
)

var errEmptyResponse = errors.New("no candidates")

// classify maps transport and API failures onto ServiceError so the
// orchestrator can decide whether a retry is worth anything. Rate limits and
// server-side failures are transient; auth and request shape are not.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		retryable := apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
		return &common.ServiceError{
			StatusCode: apiErr.Code,
			Retryable:  retryable,
			Cause:      err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &common.ServiceError{Retryable: true, Cause: err}
	}

	return &common.ServiceError{Retryable: false, Cause: err}
}

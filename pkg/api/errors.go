package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoCredentials   = errors.New("no Google Ads credentials configured")
	ErrInvalidRequest  = errors.New("invalid keyword ideas request")
	ErrMissingDevToken = errors.New("developer token is required")
)

// APIError is a failed Google Ads call, decoded from the error envelope the
// REST interface returns with non-2xx responses.
type APIError struct {
	StatusCode int
	Status     string // RPC status, e.g. INVALID_ARGUMENT
	Message    string
	RequestID  string
	Failures   []Failure
}

// Failure is one entry of a GoogleAdsFailure.
type Failure struct {
	Code    string // e.g. authorizationError=USER_PERMISSION_DENIED
	Message string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "google ads API error (HTTP %d", e.StatusCode)
	if e.Status != "" {
		b.WriteString(" " + e.Status)
	}
	b.WriteString(")")
	if e.RequestID != "" {
		b.WriteString(" request_id=" + e.RequestID)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; %s: %s", f.Code, f.Message)
	}
	return b.String()
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type   string `json:"@type"`
			Errors []struct {
				ErrorCode map[string]string `json:"errorCode"`
				Message   string            `json:"message"`
			} `json:"errors"`
			RequestID string `json:"requestId"`
		} `json:"details"`
	} `json:"error"`
}

// parseAPIError builds an APIError from a non-2xx response body. Bodies that
// are not an error envelope are kept, truncated, as the message.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || (envelope.Error.Message == "" && envelope.Error.Status == "") {
		apiErr.Message = strings.TrimSpace(string(body[:min(len(body), 200)]))
		return apiErr
	}

	apiErr.Status = envelope.Error.Status
	apiErr.Message = envelope.Error.Message
	for _, detail := range envelope.Error.Details {
		if detail.RequestID != "" {
			apiErr.RequestID = detail.RequestID
		}
		for _, e := range detail.Errors {
			apiErr.Failures = append(apiErr.Failures, Failure{
				Code:    formatErrorCode(e.ErrorCode),
				Message: e.Message,
			})
		}
	}
	return apiErr
}

func formatErrorCode(code map[string]string) string {
	parts := make([]string, 0, len(code))
	for k, v := range code {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

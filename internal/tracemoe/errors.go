package tracemoe

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"animeid/internal/services"
)

// UpstreamError is returned when trace.moe answers with an error status or
// an error payload. Message holds the upstream text when one was provided.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("trace.moe responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("trace.moe responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *UpstreamError) Unwrap() error {
	return services.ErrUpstream
}

// upstreamMessage pulls the error text out of an error body. trace.moe uses
// "error"; some proxies use "message".
func upstreamMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Message)
}

package genai

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the generative API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: status %d", e.StatusCode)
	}
	if e.Type != "" {
		return fmt.Sprintf("API error: status %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
}

// newAPIError builds an APIError from an error response body, pulling
// out the server's message when the body carries the standard error
// envelope.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" && len(body) > 0 {
		apiErr.Message = string(body)
	}

	return apiErr
}

// readBody drains a response body, capped to guard against unbounded
// responses.
func readBody(resp *http.Response) ([]byte, error) {
	const maxBody = 64 << 20 // 64 MB, generous for a 1024x1024 image
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

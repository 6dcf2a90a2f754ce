package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// EditRequest asks the text-editing API to rewrite Input according to
// Instruction.
type EditRequest struct {
	Input       string
	Instruction string
	Temperature float64
}

// EditText submits the deck text and instruction to the text-editing
// endpoint and returns the replacement blob. The blob is expected, but
// not guaranteed, to be newline-delimited with one line per input run.
func (c *Client) EditText(ctx context.Context, req EditRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":       c.textModel,
		"input":       req.Input,
		"instruction": req.Instruction,
		"temperature": req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, "/edits", body)
	if err != nil {
		return "", err
	}

	var editResp struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &editResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(editResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return editResp.Choices[0].Text, nil
}

// post sends a JSON request to the given endpoint and returns the raw
// body of a successful response.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

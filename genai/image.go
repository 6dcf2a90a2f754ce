package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Output sizes accepted by the image-generation API.
const (
	Size256  = "256x256"
	Size512  = "512x512"
	Size1024 = "1024x1024"
)

// ImageRequest asks the image-generation API for a single image.
type ImageRequest struct {
	Prompt string // Truncated to MaxPromptChars before sending
	Size   string // One of Size256, Size512, Size1024
}

// GenerateImage requests one generated image and returns its download
// URL.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"prompt": truncateRunes(req.Prompt, MaxPromptChars),
		"n":      1,
		"size":   req.Size,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, "/images/generations", body)
	if err != nil {
		return "", err
	}

	var imgResp struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &imgResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(imgResp.Data) == 0 || imgResp.Data[0].URL == "" {
		return "", fmt.Errorf("no image URL in response")
	}

	return imgResp.Data[0].URL, nil
}

// Download fetches a generated image from the URL returned by
// GenerateImage.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("downloading image: status %d", resp.StatusCode)
	}

	return body, nil
}

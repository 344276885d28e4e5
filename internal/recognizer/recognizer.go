// Package recognizer is the client for the external OCR server.
package recognizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultServerURL is where the local OCR server listens.
const DefaultServerURL = "http://localhost:8765"

// Result is the OCR server's response to a recognition request.
type Result struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error"`
}

// Client talks to the OCR server. The server is an opaque collaborator; the
// practice engine never depends on it.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for the given server URL. An empty URL uses
// the default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return &Client{
		baseURL: baseURL,
		// Recognition on CPU can be slow.
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Healthy reports whether the server is up and answering.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false
	}
	return status.Status == "ok"
}

// Recognize sends a PNG image to the server and returns the candidate
// string.
func (c *Client) Recognize(ctx context.Context, png []byte) (string, error) {
	payload := struct {
		Image string `json:"image"`
	}{
		Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cannot reach OCR server at %s: %w", c.baseURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR server returned %d %s", resp.StatusCode, resp.Status)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("recognition failed: %s", result.Error)
	}
	return result.Text, nil
}

package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"poscan/internal/config"
	"poscan/internal/extract"
)

const (
	providerName   = "mistral"
	defaultBaseURL = "https://api.mistral.ai/v1"
)

// Client talks to the Mistral OCR and chat-completion endpoints. It
// implements port.DocumentAnnotator (gateway A) and port.TextCompleter
// (gateway B) over the same credential.
type Client struct {
	apiKey    string
	baseURL   string
	ocrModel  string
	chatModel string
	client    *http.Client
}

// NewClient creates a Mistral client from configuration.
func NewClient(cfg *config.MistralConfig) *Client {
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return newClient(cfg, baseURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API base URL
// (for testing).
func NewClientWithEndpoint(cfg *config.MistralConfig, baseURL string) *Client {
	return newClient(cfg, baseURL)
}

func newClient(cfg *config.MistralConfig, baseURL string) *Client {
	ocrModel := cfg.OCRModel
	if ocrModel == "" {
		ocrModel = "mistral-ocr-latest"
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "mistral-large-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		ocrModel:  ocrModel,
		chatModel: chatModel,
		client:    &http.Client{Timeout: timeout},
	}
}

// postJSON issues one authenticated JSON request and returns the response
// body. Non-2xx statuses come back as UpstreamError with a body snippet.
func (c *Client) postJSON(ctx context.Context, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, extract.NewUpstreamError(providerName, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, extract.NewUpstreamError(providerName, resp.StatusCode, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, extract.NewUpstreamError(providerName, resp.StatusCode,
			fmt.Errorf("%s", truncate(string(respBody), 500)))
	}
	return respBody, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package mistral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"poscan/internal/extract"
	"poscan/internal/schema"
)

// maxPromptChars bounds the request size; OCR text beyond this rarely
// carries purchase-order fields anyway.
const maxPromptChars = 12000

const systemPrompt = `You are a meticulous procurement analyst.

Return a JSON object that follows the provided schema exactly and captures
purchase order data from the supplied document text. Do not invent totals—use the
best numeric values you find and set missing numbers to null.`

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements port.TextCompleter: one chat-completion request over
// the raw OCR text, constrained to the purchase-order schema. The decoded
// value is returned unvalidated; validating it is the orchestrator's job.
func (c *Client) Complete(ctx context.Context, rawText string) (any, error) {
	if c.apiKey == "" {
		return nil, extract.NewUpstreamError(providerName, 0,
			errors.New("API key is not configured; set POSCAN_MISTRAL_API_KEY"))
	}

	snippet := rawText
	if len(snippet) > maxPromptChars {
		snippet = snippet[:maxPromptChars]
	}

	body := map[string]any{
		"model": c.chatModel,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": "Document OCR text:\n\n" + snippet},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schema.SchemaName,
				"schema": schema.JSONSchema(),
			},
		},
		"temperature": 0.1,
	}

	respBody, err := c.postJSON(ctx, c.baseURL+"/chat/completions", body)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, extract.NewUpstreamError(providerName, 0, fmt.Errorf("unmarshaling chat response: %w", err))
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, extract.NewUpstreamError(providerName, 0,
			errors.New("chat completion did not return content"))
	}

	value, err := extract.DecodeLenient(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, extract.NewUpstreamError(providerName, 0, fmt.Errorf("parsing completion output: %w", err))
	}
	return value, nil
}

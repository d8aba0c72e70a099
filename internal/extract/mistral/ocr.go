package mistral

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"poscan/internal/extract"
	"poscan/internal/port"
	"poscan/internal/schema"
)

type ocrPage struct {
	Markdown string `json:"markdown"`
	Text     string `json:"text"`
}

type ocrResponse struct {
	DocumentAnnotation  json.RawMessage   `json:"document_annotation"`
	DocumentAnnotations []json.RawMessage `json:"document_annotations"`
	Pages               []ocrPage         `json:"pages"`
	Usage               map[string]any    `json:"usage"`
}

// Annotate implements port.DocumentAnnotator: one synchronous OCR request
// carrying the PDF as a data URL and the purchase-order schema as the
// annotation format. An absent annotation payload is a hard failure here;
// deciding whether to fall back is the orchestrator's call.
func (c *Client) Annotate(ctx context.Context, pdf []byte) (*port.AnnotationResult, error) {
	if c.apiKey == "" {
		return nil, extract.NewUpstreamError(providerName, 0,
			errors.New("API key is not configured; set POSCAN_MISTRAL_API_KEY"))
	}

	body := map[string]any{
		"model": c.ocrModel,
		"document": map[string]any{
			"type":         "document_url",
			"document_url": "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdf),
		},
		"document_annotation_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":        schema.SchemaName,
				"description": "Purchase order schema guiding Mistral Document AI extraction.",
				"schema":      schema.JSONSchema(),
			},
		},
		"include_image_base64": false,
	}

	respBody, err := c.postJSON(ctx, c.ocrEndpoint(), body)
	if err != nil {
		return nil, err
	}

	var resp ocrResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, extract.NewUpstreamError(providerName, 0, fmt.Errorf("unmarshaling OCR response: %w", err))
	}

	source := resp.DocumentAnnotation
	if source == nil && len(resp.DocumentAnnotations) > 0 {
		source = resp.DocumentAnnotations[0]
	}
	candidate, err := parseAnnotationPayload(source)
	if err != nil {
		return nil, extract.NewUpstreamError(providerName, 0, fmt.Errorf("parsing document annotation: %w", err))
	}
	if candidate == nil {
		return nil, extract.NewUpstreamError(providerName, 0,
			errors.New("OCR response did not contain a document annotation payload"))
	}

	return &port.AnnotationResult{
		Candidate: candidate,
		RawText:   joinPages(resp.Pages),
		Usage:     resp.Usage,
	}, nil
}

func (c *Client) ocrEndpoint() string {
	if strings.HasSuffix(c.baseURL, "/ocr") {
		return c.baseURL
	}
	return c.baseURL + "/ocr"
}

// parseAnnotationPayload unwraps the annotation the provider returned.
// Providers wrap it inconsistently: it arrives as a bare object, nested
// under "annotation" or "content", or as a JSON string that occasionally
// needs the lenient repair pass. A nil result means no payload.
func parseAnnotationPayload(raw json.RawMessage) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return unwrapAnnotation(decoded)
}

func unwrapAnnotation(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if inner, ok := v["annotation"]; ok && inner != nil {
			return unwrapAnnotation(inner)
		}
		if inner, ok := v["content"]; ok && inner != nil {
			return unwrapAnnotation(inner)
		}
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return extract.DecodeLenient(v)
	default:
		return v, nil
	}
}

// joinPages reconstructs the document text: per page markdown is preferred
// over plain text, empty pages are skipped, pages are separated by a blank
// line.
func joinPages(pages []ocrPage) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		text := strings.TrimSpace(page.Markdown)
		if text == "" {
			text = strings.TrimSpace(page.Text)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

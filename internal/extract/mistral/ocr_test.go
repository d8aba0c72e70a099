package mistral_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscan/internal/config"
	"poscan/internal/extract"
	"poscan/internal/extract/mistral"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *mistral.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return mistral.NewClientWithEndpoint(&config.MistralConfig{APIKey: "test-key"}, server.URL)
}

func TestAnnotate_Success(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ocr", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"document_annotation": map[string]any{"total": 54.45},
			"pages": []map[string]any{
				{"markdown": "# Purchase Order\n", "text": "Purchase Order"},
				{"markdown": "", "text": "Total: 54.45"},
				{"markdown": "  ", "text": ""},
			},
			"usage": map[string]any{"pages_processed": 3},
		})
	})

	result, err := client.Annotate(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"total": 54.45}, result.Candidate)
	assert.Equal(t, "# Purchase Order\n\nTotal: 54.45", result.RawText)
	assert.Equal(t, 3.0, result.Usage["pages_processed"])

	assert.Equal(t, "mistral-ocr-latest", captured["model"])
	document := captured["document"].(map[string]any)
	assert.Equal(t, "document_url", document["type"])
	assert.Contains(t, document["document_url"], "data:application/pdf;base64,")
	format := captured["document_annotation_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestAnnotate_StringAnnotationIsRepaired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"document_annotation": `{"total": 42,}`,
			"pages":               []map[string]any{{"markdown": "doc"}},
		})
	})

	result, err := client.Annotate(context.Background(), []byte("pdf"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"total": 42.0}, result.Candidate)
}

func TestAnnotate_NestedAnnotationEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"document_annotations": []map[string]any{
				{"annotation": map[string]any{"total": 10.0}},
			},
			"pages": []map[string]any{{"text": "doc"}},
		})
	})

	result, err := client.Annotate(context.Background(), []byte("pdf"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"total": 10.0}, result.Candidate)
	assert.Equal(t, "doc", result.RawText)
}

func TestAnnotate_MissingAnnotation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pages": []map[string]any{{"markdown": "doc"}},
		})
	})

	_, err := client.Annotate(context.Background(), []byte("pdf"))
	var upstream *extract.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "mistral", upstream.Provider)
}

func TestAnnotate_ProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid model"}`, http.StatusUnprocessableEntity)
	})

	_, err := client.Annotate(context.Background(), []byte("pdf"))
	var upstream *extract.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.Status)
	assert.Contains(t, upstream.Error(), "invalid model")
}

func TestAnnotate_MissingAPIKey(t *testing.T) {
	client := mistral.NewClientWithEndpoint(&config.MistralConfig{}, "http://127.0.0.1:0")

	_, err := client.Annotate(context.Background(), []byte("pdf"))
	var upstream *extract.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Error(), "API key")
}

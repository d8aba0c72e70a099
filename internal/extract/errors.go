package extract

import "fmt"

// UpstreamError indicates the OCR/LLM provider failed: missing credential,
// non-2xx response, or an unusable payload. Requests carrying it are never
// retried; the caller must resubmit.
type UpstreamError struct {
	Provider string
	Status   int // HTTP status when the provider responded, 0 otherwise
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates an UpstreamError for the given provider.
func NewUpstreamError(provider string, status int, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Status: status, Err: err}
}

package port

import "context"

// AnnotationResult is the raw outcome of a schema-guided OCR request. The
// candidate is unvalidated provider output; nothing downstream may trust
// it before it passes the schema validator.
type AnnotationResult struct {
	Candidate any
	RawText   string
	Usage     map[string]any
}

// DocumentAnnotator issues a single synchronous OCR request with an
// embedded schema descriptor and returns the structured annotation
// candidate plus the full extracted text.
type DocumentAnnotator interface {
	Annotate(ctx context.Context, pdf []byte) (*AnnotationResult, error)
}

// TextCompleter is the fallback tier: given raw extracted text it requests
// schema-conformant JSON from a general completion model and returns the
// decoded, still unvalidated value.
type TextCompleter interface {
	Complete(ctx context.Context, rawText string) (any, error)
}

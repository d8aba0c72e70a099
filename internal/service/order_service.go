package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"poscan/internal/config"
	"poscan/internal/domain"
	"poscan/internal/extract"
	"poscan/internal/port"
	"poscan/internal/schema"
)

const (
	maxPDFBytes = 20 * 1024 * 1024
	listLimit   = 200
)

// serverOwnedFields are stripped from edit payloads before validation; the
// caller never controls them directly. rawText and sourceFileName are
// captured aside and re-attached after validation.
var serverOwnedFields = []string{"id", "createdAt", "updatedAt", "rawText", "sourceFileName"}

// ProcessInput carries one uploaded document into the extraction pipeline.
type ProcessInput struct {
	Data        []byte
	FileName    string
	Size        int64
	ContentType string
}

// OrderService defines the purchase-order pipeline contract.
type OrderService interface {
	// Process runs the two-tier extraction over an uploaded PDF and
	// persists the resulting record.
	Process(ctx context.Context, input *ProcessInput) (*domain.PurchaseOrderRecord, error)
	// List returns up to 200 records, newest first.
	List(ctx context.Context) ([]domain.PurchaseOrderRecord, error)
	// Update sanitizes, validates, and merges an edit payload into the
	// stored record.
	Update(ctx context.Context, id string, payload json.RawMessage) (*domain.PurchaseOrderRecord, error)
	// SourceURL returns a presigned download link for the archived source
	// PDF of a record.
	SourceURL(ctx context.Context, id string) (string, error)
}

type orderService struct {
	repo      port.OrderRepository
	annotator port.DocumentAnnotator
	completer port.TextCompleter
	storage   port.ObjectStorage // nil when archiving is disabled
	s3cfg     *config.S3Config
}

// NewOrderService creates the extraction orchestrator. storage may be nil;
// source archiving is then skipped entirely.
func NewOrderService(
	repo port.OrderRepository,
	annotator port.DocumentAnnotator,
	completer port.TextCompleter,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
) OrderService {
	return &orderService{
		repo:      repo,
		annotator: annotator,
		completer: completer,
		storage:   storage,
		s3cfg:     s3cfg,
	}
}

// annotationOutcome makes the two-tier branch explicit: either the
// annotation candidate validated into an order, or the raw text must be
// fed to the completion fallback.
type annotationOutcome struct {
	Order        *domain.PurchaseOrderCore
	FallbackText string
}

func (s *orderService) Process(ctx context.Context, input *ProcessInput) (*domain.PurchaseOrderRecord, error) {
	if err := checkPDFInput(input); err != nil {
		return nil, err
	}

	// Tier one: schema-guided OCR annotation. A gateway failure here is
	// fatal; without its raw text there is nothing to fall back on.
	extraction, err := s.annotator.Annotate(ctx, input.Data)
	if err != nil {
		return nil, err
	}

	outcome := s.validateAnnotation(extraction)
	core := outcome.Order
	if core == nil {
		// Tier two: completion over the raw text, which may be empty.
		candidate, err := s.completer.Complete(ctx, outcome.FallbackText)
		if err != nil {
			return nil, err
		}
		parsed, verr := schema.ParsePurchaseOrder(candidate)
		if verr != nil {
			// The completion model was instructed with the exact schema;
			// non-conforming output is a provider fault, not a client one.
			return nil, extract.NewUpstreamError("mistral", 0,
				fmt.Errorf("fallback completion failed validation: %w", verr))
		}
		core = parsed
	}

	rec := &domain.PurchaseOrderRecord{
		PurchaseOrderCore: *core,
		CreatedAt:         time.Now().UTC(),
		SourceFileName:    input.FileName,
		RawText:           strings.TrimSpace(extraction.RawText),
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("orderService.Process: %w", err)
	}

	s.archiveSource(ctx, rec.ID, input)
	return rec, nil
}

func (s *orderService) validateAnnotation(extraction *port.AnnotationResult) annotationOutcome {
	if extraction.Candidate == nil {
		return annotationOutcome{FallbackText: extraction.RawText}
	}
	core, verr := schema.ParsePurchaseOrder(extraction.Candidate)
	if verr != nil {
		// Non-fatal: the fallback tier gets a chance at the raw text.
		log.Printf("orderService: annotation failed validation, falling back to text completion: %v", verr)
		return annotationOutcome{FallbackText: extraction.RawText}
	}
	return annotationOutcome{Order: core}
}

func checkPDFInput(input *ProcessInput) error {
	if !strings.Contains(strings.ToLower(input.ContentType), "pdf") {
		return domain.ErrUnsupportedFileType
	}
	if input.Size > maxPDFBytes {
		return domain.ErrFileTooLarge
	}
	if input.Size <= 0 {
		return domain.ErrEmptyFile
	}
	return nil
}

func (s *orderService) List(ctx context.Context) ([]domain.PurchaseOrderRecord, error) {
	records, err := s.repo.ListRecent(ctx, listLimit)
	if err != nil {
		return nil, fmt.Errorf("orderService.List: %w", err)
	}
	return records, nil
}

func (s *orderService) Update(ctx context.Context, id string, payload json.RawMessage) (*domain.PurchaseOrderRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidOrderID
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, domain.ErrInvalidPayload
	}
	obj, ok := decoded.(map[string]any)
	if !ok || obj == nil {
		return nil, domain.ErrInvalidPayload
	}

	sanitized, _ := schema.Sanitize(obj)
	fields := sanitized.(map[string]any)

	// Capture server-owned fields aside before validation; the validator
	// rejects anything outside the order shape.
	rawText := fields["rawText"]
	sourceFileName := fields["sourceFileName"]
	for _, key := range serverOwnedFields {
		delete(fields, key)
	}

	core, verr := schema.ParsePurchaseOrder(fields)
	if verr != nil {
		return nil, verr
	}

	update := &domain.OrderUpdate{Core: *core, UpdatedAt: time.Now().UTC()}
	if text, ok := rawText.(string); ok {
		trimmed := strings.TrimSpace(text)
		update.RawText = &trimmed
	}
	if name, ok := sourceFileName.(string); ok {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			update.SourceFileName = &trimmed
		}
	}

	rec, err := s.repo.FindAndUpdate(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("orderService.Update: %w", err)
	}
	return rec, nil
}

func (s *orderService) SourceURL(ctx context.Context, id string) (string, error) {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return "", domain.ErrSourceUnavailable
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, sourceObjectKey(rec.ID), s.s3cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("orderService.SourceURL: %w", err)
	}
	return url, nil
}

// archiveSource stores the uploaded PDF alongside the record, best effort.
// Archive failures are logged and never fail the upload.
func (s *orderService) archiveSource(ctx context.Context, id string, input *ProcessInput) {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return
	}
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         sourceObjectKey(id),
		Body:        bytes.NewReader(input.Data),
		ContentType: "application/pdf",
	})
	if err != nil {
		log.Printf("orderService: archiving source PDF for %s failed: %v", id, err)
	}
}

func sourceObjectKey(id string) string {
	return "purchase-orders/" + id + ".pdf"
}

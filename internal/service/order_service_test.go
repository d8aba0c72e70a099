package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poscan/internal/config"
	"poscan/internal/domain"
	"poscan/internal/extract"
	"poscan/internal/port"
	"poscan/internal/schema"
	"poscan/internal/service"
	"poscan/mocks"
)

func validCandidate() map[string]any {
	return map[string]any{
		"purchaseOrderNumber": "PO-2024-001",
		"vendor": map[string]any{
			"name":    "Acme Supplies Ltd",
			"address": "1 Industrial Way, Springfield",
		},
		"purchaser": map[string]any{
			"name":    "Globex Corporation",
			"address": "42 Corporate Plaza, Shelbyville",
		},
		"items": []any{
			map[string]any{"name": "Widget", "quantity": float64(5), "unitPrice": 9.99},
		},
		"total": 49.95,
	}
}

func pdfInput() *service.ProcessInput {
	data := []byte("%PDF-1.4 test document")
	return &service.ProcessInput{
		Data:        data,
		FileName:    "order.pdf",
		Size:        int64(len(data)),
		ContentType: "application/pdf",
	}
}

func newService(repo *mocks.MockOrderRepository, annotator *mocks.MockDocumentAnnotator, completer *mocks.MockTextCompleter) service.OrderService {
	return service.NewOrderService(repo, annotator, completer, nil, &config.S3Config{})
}

func TestProcess_AnnotationSucceeds(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	annotator := new(mocks.MockDocumentAnnotator)
	completer := new(mocks.MockTextCompleter)

	annotator.On("Annotate", mock.Anything, mock.Anything).Return(&port.AnnotationResult{
		Candidate: validCandidate(),
		RawText:   "  # Purchase Order\n\nTotal: 49.95  ",
	}, nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrderRecord")).
		Run(func(args mock.Arguments) {
			rec := args.Get(1).(*domain.PurchaseOrderRecord)
			rec.ID = "11111111-2222-3333-4444-555555555555"
		}).
		Return(nil)

	svc := newService(repo, annotator, completer)
	rec, err := svc.Process(context.Background(), pdfInput())
	require.NoError(t, err)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", rec.ID)
	assert.Equal(t, "order.pdf", rec.SourceFileName)
	assert.Equal(t, "# Purchase Order\n\nTotal: 49.95", rec.RawText)
	assert.Equal(t, 49.95, rec.Total)
	assert.False(t, rec.CreatedAt.IsZero())

	annotator.AssertNumberOfCalls(t, "Annotate", 1)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestProcess_FallsBackWhenAnnotationInvalid(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	annotator := new(mocks.MockDocumentAnnotator)
	completer := new(mocks.MockTextCompleter)

	invalid := validCandidate()
	invalid["items"] = []any{}
	annotator.On("Annotate", mock.Anything, mock.Anything).Return(&port.AnnotationResult{
		Candidate: invalid,
		RawText:   "Total: 49.95",
	}, nil)
	completer.On("Complete", mock.Anything, "Total: 49.95").Return(validCandidate(), nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, annotator, completer)
	rec, err := svc.Process(context.Background(), pdfInput())
	require.NoError(t, err)
	assert.Equal(t, 49.95, rec.Total)

	annotator.AssertNumberOfCalls(t, "Annotate", 1)
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestProcess_FallbackOutputInvalid(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	annotator := new(mocks.MockDocumentAnnotator)
	completer := new(mocks.MockTextCompleter)

	invalid := validCandidate()
	delete(invalid, "total")
	annotator.On("Annotate", mock.Anything, mock.Anything).Return(&port.AnnotationResult{
		Candidate: invalid,
		RawText:   "doc",
	}, nil)
	completer.On("Complete", mock.Anything, "doc").Return(map[string]any{"nonsense": true}, nil)

	svc := newService(repo, annotator, completer)
	_, err := svc.Process(context.Background(), pdfInput())

	var upstream *extract.UpstreamError
	require.ErrorAs(t, err, &upstream)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestProcess_AnnotateFailureIsFatal(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	annotator := new(mocks.MockDocumentAnnotator)
	completer := new(mocks.MockTextCompleter)

	gatewayErr := extract.NewUpstreamError("mistral", 500, errors.New("boom"))
	annotator.On("Annotate", mock.Anything, mock.Anything).Return(nil, gatewayErr)

	svc := newService(repo, annotator, completer)
	_, err := svc.Process(context.Background(), pdfInput())
	assert.ErrorIs(t, err, gatewayErr)

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestProcess_RejectsInvalidUploads(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(input *service.ProcessInput)
		wantErr error
	}{
		{
			name:    "non-pdf content type",
			mutate:  func(i *service.ProcessInput) { i.ContentType = "image/png" },
			wantErr: domain.ErrUnsupportedFileType,
		},
		{
			name:    "oversize file",
			mutate:  func(i *service.ProcessInput) { i.Size = 21 * 1024 * 1024 },
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:    "empty file",
			mutate:  func(i *service.ProcessInput) { i.Size = 0 },
			wantErr: domain.ErrEmptyFile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			annotator := new(mocks.MockDocumentAnnotator)
			completer := new(mocks.MockTextCompleter)

			input := pdfInput()
			tt.mutate(input)

			svc := newService(repo, annotator, completer)
			_, err := svc.Process(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
			annotator.AssertNotCalled(t, "Annotate", mock.Anything, mock.Anything)
		})
	}
}

func TestProcess_ArchivesSourceBestEffort(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	annotator := new(mocks.MockDocumentAnnotator)
	completer := new(mocks.MockTextCompleter)
	storage := new(mocks.MockObjectStorage)

	annotator.On("Annotate", mock.Anything, mock.Anything).Return(&port.AnnotationResult{
		Candidate: validCandidate(),
		RawText:   "doc",
	}, nil)
	repo.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.PurchaseOrderRecord).ID = "abc"
		}).
		Return(nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "po-archive" && in.Key == "purchase-orders/abc.pdf" && in.ContentType == "application/pdf"
	})).Return(nil, errors.New("s3 unavailable"))

	svc := service.NewOrderService(repo, annotator, completer, storage, &config.S3Config{Bucket: "po-archive"})
	_, err := svc.Process(context.Background(), pdfInput())
	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestUpdate_StripsServerOwnedFields(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	stored := &domain.PurchaseOrderRecord{ID: "abc"}

	var captured *domain.OrderUpdate
	repo.On("FindAndUpdate", mock.Anything, "abc", mock.AnythingOfType("*domain.OrderUpdate")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*domain.OrderUpdate)
		}).
		Return(stored, nil)

	payload := validCandidate()
	payload["id"] = "spoofed"
	payload["createdAt"] = "2020-01-01T00:00:00Z"
	payload["updatedAt"] = nil
	payload["rawText"] = "  corrected text  "
	payload["sourceFileName"] = "renamed.pdf"
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	svc := newService(repo, new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter))
	rec, err := svc.Update(context.Background(), "abc", body)
	require.NoError(t, err)
	assert.Same(t, stored, rec)

	require.NotNil(t, captured)
	assert.Equal(t, 49.95, captured.Core.Total)
	require.NotNil(t, captured.RawText)
	assert.Equal(t, "corrected text", *captured.RawText)
	require.NotNil(t, captured.SourceFileName)
	assert.Equal(t, "renamed.pdf", *captured.SourceFileName)
	assert.False(t, captured.UpdatedAt.IsZero())
}

func TestUpdate_DropsNullsBeforeValidation(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	repo.On("FindAndUpdate", mock.Anything, "abc", mock.Anything).
		Return(&domain.PurchaseOrderRecord{ID: "abc"}, nil)

	payload := validCandidate()
	payload["notes"] = nil
	payload["tax"] = nil
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	svc := newService(repo, new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter))
	_, err = svc.Update(context.Background(), "abc", body)
	require.NoError(t, err)
}

func TestUpdate_ValidationErrorSurfaces(t *testing.T) {
	repo := new(mocks.MockOrderRepository)

	payload := validCandidate()
	payload["items"] = []any{}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	svc := newService(repo, new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter))
	_, err = svc.Update(context.Background(), "abc", body)

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Field)
	repo.AssertNotCalled(t, "FindAndUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_InvalidInputs(t *testing.T) {
	svc := newService(new(mocks.MockOrderRepository), new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter))

	_, err := svc.Update(context.Background(), "   ", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidOrderID)

	_, err = svc.Update(context.Background(), "abc", json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = svc.Update(context.Background(), "abc", json.RawMessage(`not json`))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestUpdate_NotFoundPassesThrough(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	repo.On("FindAndUpdate", mock.Anything, "missing", mock.Anything).
		Return(nil, domain.ErrNotFound)

	body, err := json.Marshal(validCandidate())
	require.NoError(t, err)

	svc := newService(repo, new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter))
	_, err = svc.Update(context.Background(), "missing", body)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	repo.On("ListRecent", mock.Anything, 200).
		Return([]domain.PurchaseOrderRecord{{ID: "a"}, {ID: "b"}}, nil)

	svc := newService(repo, new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter))
	records, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	repo.AssertExpectations(t)
}

func TestSourceURL(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	storage := new(mocks.MockObjectStorage)

	repo.On("FindByID", mock.Anything, "abc").
		Return(&domain.PurchaseOrderRecord{ID: "abc"}, nil)
	storage.On("GetPresignedURL", mock.Anything, "po-archive", "purchase-orders/abc.pdf", int64(3600)).
		Return("https://example.com/signed", nil)

	svc := service.NewOrderService(repo, new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter),
		storage, &config.S3Config{Bucket: "po-archive", PresignExpiry: 3600})
	url, err := svc.SourceURL(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/signed", url)
}

func TestSourceURL_ArchivingDisabled(t *testing.T) {
	svc := newService(new(mocks.MockOrderRepository), new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter))
	_, err := svc.SourceURL(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestSourceURL_RecordMissing(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	storage := new(mocks.MockObjectStorage)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := service.NewOrderService(repo, new(mocks.MockDocumentAnnotator), new(mocks.MockTextCompleter),
		storage, &config.S3Config{Bucket: "po-archive", PresignExpiry: 3600})
	_, err := svc.SourceURL(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

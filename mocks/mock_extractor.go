package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"poscan/internal/port"
)

// MockDocumentAnnotator is a mock implementation of port.DocumentAnnotator.
type MockDocumentAnnotator struct {
	mock.Mock
}

func (m *MockDocumentAnnotator) Annotate(ctx context.Context, pdf []byte) (*port.AnnotationResult, error) {
	args := m.Called(ctx, pdf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.AnnotationResult), args.Error(1)
}

var _ port.DocumentAnnotator = (*MockDocumentAnnotator)(nil)

// MockTextCompleter is a mock implementation of port.TextCompleter.
type MockTextCompleter struct {
	mock.Mock
}

func (m *MockTextCompleter) Complete(ctx context.Context, rawText string) (any, error) {
	args := m.Called(ctx, rawText)
	return args.Get(0), args.Error(1)
}

var _ port.TextCompleter = (*MockTextCompleter)(nil)

package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"poscan/internal/domain"
	"poscan/internal/service"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Process(ctx context.Context, input *service.ProcessInput) (*domain.PurchaseOrderRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderRecord), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]domain.PurchaseOrderRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderRecord), args.Error(1)
}

func (m *MockOrderService) Update(ctx context.Context, id string, payload json.RawMessage) (*domain.PurchaseOrderRecord, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderRecord), args.Error(1)
}

func (m *MockOrderService) SourceURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

var _ service.OrderService = (*MockOrderService)(nil)

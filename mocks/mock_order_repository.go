package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"poscan/internal/domain"
	"poscan/internal/port"
)

// MockOrderRepository is a mock implementation of port.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(ctx context.Context, rec *domain.PurchaseOrderRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.PurchaseOrderRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderRecord), args.Error(1)
}

func (m *MockOrderRepository) ListRecent(ctx context.Context, limit int) ([]domain.PurchaseOrderRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderRecord), args.Error(1)
}

func (m *MockOrderRepository) FindAndUpdate(ctx context.Context, id string, update *domain.OrderUpdate) (*domain.PurchaseOrderRecord, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderRecord), args.Error(1)
}

var _ port.OrderRepository = (*MockOrderRepository)(nil)

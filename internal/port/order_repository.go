package port

import (
	"context"

	"poscan/internal/domain"
)

// OrderRepository defines the purchase-order document store contract. The
// implementation exclusively owns the durable copy; callers only hold
// transient in-memory records.
type OrderRepository interface {
	// Insert persists a new record and assigns its identifier.
	Insert(ctx context.Context, rec *domain.PurchaseOrderRecord) error
	// FindByID returns the record matching the identifier, or
	// domain.ErrNotFound.
	FindByID(ctx context.Context, id string) (*domain.PurchaseOrderRecord, error)
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.PurchaseOrderRecord, error)
	// FindAndUpdate atomically applies the merge document to the record
	// matching the identifier and returns the updated record, or
	// domain.ErrNotFound when nothing matched.
	FindAndUpdate(ctx context.Context, id string, update *domain.OrderUpdate) (*domain.PurchaseOrderRecord, error)
}

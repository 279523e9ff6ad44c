package repository

import (
	"context"

	"github.com/Tushar365/orderapp/internal/domain"
)

// OrderRepository defines order data access methods. Create is an upsert
// keyed by order ID so retried submissions carrying the same ID stay one
// logical record. The Update* methods return false, not an error, when the
// order ID is unknown.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, lines []*domain.OrderLine) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	Exists(ctx context.Context, orderID string) (bool, error)
	UpdateBilling(ctx context.Context, orderID string, patch domain.BillingPatch) (bool, error)
	UpdatePrescription(ctx context.Context, orderID string, prescriptionURL string) (bool, error)
	List(ctx context.Context, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
}

// OrderLineRepository defines order line data access methods
type OrderLineRepository interface {
	GetByOrderID(ctx context.Context, orderID string) ([]*domain.OrderLine, error)
	UpdateByOrderIDAndName(ctx context.Context, orderID, name string, patch domain.LinePatch) (bool, error)
}

// IdempotencyKeyRepository defines idempotency key data access methods
type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, key *domain.IdempotencyKey) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Order          OrderRepository
	OrderLine      OrderLineRepository
	IdempotencyKey IdempotencyKeyRepository
}

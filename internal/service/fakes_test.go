package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/repository"
	"github.com/Tushar365/orderapp/pkg/errors"
)

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	lines     map[string][]*domain.OrderLine
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]*domain.Order{},
		lines:  map[string][]*domain.OrderLine{},
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order, lines []*domain.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.orders[order.OrderID] = order
	r.lines[order.OrderID] = lines
	return nil
}

func (r *fakeOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	return order, nil
}

func (r *fakeOrderRepo) Exists(ctx context.Context, orderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.orders[orderID]
	return ok, nil
}

func (r *fakeOrderRepo) UpdateBilling(ctx context.Context, orderID string, patch domain.BillingPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	if patch.TotalBill != nil {
		order.TotalBill = *patch.TotalBill
	}
	if patch.GenericBill != nil {
		order.GenericAmount = *patch.GenericBill
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	return true, nil
}

func (r *fakeOrderRepo) UpdatePrescription(ctx context.Context, orderID, prescriptionURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	order.PrescriptionURL = prescriptionURL
	return true, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type fakeLineRepo struct {
	orders *fakeOrderRepo
}

func (r *fakeLineRepo) GetByOrderID(ctx context.Context, orderID string) ([]*domain.OrderLine, error) {
	r.orders.mu.Lock()
	defer r.orders.mu.Unlock()
	return r.orders.lines[orderID], nil
}

func (r *fakeLineRepo) UpdateByOrderIDAndName(ctx context.Context, orderID, name string, patch domain.LinePatch) (bool, error) {
	r.orders.mu.Lock()
	defer r.orders.mu.Unlock()
	for _, line := range r.orders.lines[orderID] {
		if line.Name != name {
			continue
		}
		if patch.Quantity != nil {
			line.Quantity = *patch.Quantity
		}
		if patch.Price != nil {
			line.SellingPrice = *patch.Price
		}
		if patch.IsGeneric != nil {
			line.IsGeneric = *patch.IsGeneric
		}
		return true, nil
	}
	return false, nil
}

type fakeIdemRepo struct {
	mu   sync.Mutex
	keys map[string]*domain.IdempotencyKey
}

func newFakeIdemRepo() *fakeIdemRepo {
	return &fakeIdemRepo{keys: map[string]*domain.IdempotencyKey{}}
}

func (r *fakeIdemRepo) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[key], nil
}

func (r *fakeIdemRepo) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[key.Key] = key
	return nil
}

func newFakeRepos() (*repository.Repositories, *fakeOrderRepo) {
	orders := newFakeOrderRepo()
	return &repository.Repositories{
		Order:          orders,
		OrderLine:      &fakeLineRepo{orders: orders},
		IdempotencyKey: newFakeIdemRepo(),
	}, orders
}

// fakeMirror records pushed rows and serves canned rows on read.
type fakeMirror struct {
	mu        sync.Mutex
	appended  map[string][][]string
	rows      map[string][][]string
	appendErr error
	readErr   error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		appended: map[string][][]string{},
		rows:     map[string][][]string{},
	}
}

func (m *fakeMirror) Append(ctx context.Context, tab string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended[tab] = append(m.appended[tab], rows...)
	return nil
}

func (m *fakeMirror) ReadAll(ctx context.Context, tab string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.rows[tab], nil
}

func newTestService(repos *repository.Repositories, mirror *fakeMirror) *OrderService {
	logger := zap.NewNop()
	assembler := NewAssembler([]string{"110001", "110002"})
	reconciler := NewSheetReconciler(mirror, repos, "Orders", "Medicines", logger)
	return NewOrderService(repos, assembler, reconciler, logger)
}

func validCustomer() CustomerInfo {
	return CustomerInfo{
		CustomerName: "Asha Verma",
		PatientName:  "Ravi Verma",
		Mobile:       "9876543210",
		Address:      "12 MG Road",
		Pincode:      "110001",
	}
}

func validCart() []domain.CartLine {
	return []domain.CartLine{
		{Name: "Dolo 650", Category: domain.CategoryBranded, MRP: 100, DiscountPercent: 10, Quantity: 2},
		{Name: "Metformin 500", Category: domain.CategoryGeneric, MRP: 50, DiscountPercent: 20, Quantity: 1},
	}
}

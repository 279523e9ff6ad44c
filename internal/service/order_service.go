package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/repository"
)

// OrderService runs the submission pipeline: assemble, persist, mirror.
// Store write and mirror push are independently-reported outcomes; the
// response is a success iff the store write succeeded.
type OrderService struct {
	repos      *repository.Repositories
	assembler  *Assembler
	reconciler *SheetReconciler
	logger     *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, assembler *Assembler, reconciler *SheetReconciler, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:      repos,
		assembler:  assembler,
		reconciler: reconciler,
		logger:     logger,
	}
}

// SubmitResult reports the two outcomes of a submission separately.
type SubmitResult struct {
	Order       *domain.Order
	Lines       []*domain.OrderLine
	SheetSynced bool
}

// SubmitOrder assembles and persists an order, then pushes it to the mirror
// best-effort. A caller-supplied order ID is the idempotency handle and is
// used as-is; a generated one is re-rolled when the store already holds it.
func (s *OrderService) SubmitOrder(ctx context.Context, customer CustomerInfo, lines []domain.CartLine, payment PaymentInfo, existingOrderID, prescriptionURL string) (*SubmitResult, error) {
	order, orderLines, err := s.assembler.Assemble(customer, lines, payment, existingOrderID)
	if err != nil {
		return nil, err
	}
	order.PrescriptionURL = prescriptionURL

	if existingOrderID == "" {
		s.rerollOnCollision(ctx, order, orderLines)
	}

	s.logger.Info("Creating order in store",
		zap.String("order_id", order.OrderID),
		zap.Int("line_count", len(orderLines)),
	)
	if err := s.repos.Order.Create(ctx, order, orderLines); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err), zap.String("order_id", order.OrderID))
		return nil, err
	}

	result := &SubmitResult{Order: order, Lines: orderLines, SheetSynced: true}
	if err := s.reconciler.PushOrder(ctx, order, orderLines); err != nil {
		// Mirror failure never rolls back a successful store write
		result.SheetSynced = false
	}

	return result, nil
}

// rerollOnCollision regenerates a generated order ID while the store already
// holds it. Three attempts; the timestamp component makes further collisions
// vanishingly unlikely within one request.
func (s *OrderService) rerollOnCollision(ctx context.Context, order *domain.Order, lines []*domain.OrderLine) {
	for attempt := 0; attempt < 3; attempt++ {
		exists, err := s.repos.Order.Exists(ctx, order.OrderID)
		if err != nil {
			// Existence probe failing is not fatal: create is an upsert
			s.logger.Warn("Order ID collision check failed", zap.Error(err), zap.String("order_id", order.OrderID))
			return
		}
		if !exists {
			return
		}
		newID := GenerateOrderID()
		s.logger.Warn("Order ID collision, regenerating",
			zap.String("old_order_id", order.OrderID),
			zap.String("new_order_id", newID),
		)
		order.OrderID = newID
		for _, line := range lines {
			line.OrderID = newID
		}
	}
}

// UpdateStatus sets the back-office status. False when the order is unknown.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (bool, error) {
	return s.repos.Order.UpdateBilling(ctx, orderID, domain.BillingPatch{Status: &status})
}

// AttachPrescription records an uploaded prescription file URL on an order.
// False when the order is unknown.
func (s *OrderService) AttachPrescription(ctx context.Context, orderID, fileURL string) (bool, error) {
	return s.repos.Order.UpdatePrescription(ctx, orderID, fileURL)
}

// GetOrder fetches an order and its lines.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, []*domain.OrderLine, error) {
	order, err := s.repos.Order.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.repos.OrderLine.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	order_id, customer_name, patient_name, doctor_name, mobile, age, address, pincode, location,
	total_mrp, total_savings, flat_discount_amount, flat_discount_percentage, total_bill,
	generic_amount, branded_amount, branded_service_charge, generic_service_charge, final_charge,
	billing_mrp, billing_discount_amount, sell_amount, return_amount,
	status, delivery_status, payment_method, payment_status, payment_date,
	shipment_date, shipment_number, prescription_url, invoice_link,
	order_date, number_of_products, created_at, updated_at`

// Create persists an order and its lines in one transaction. The order row is
// upserted by order_id and the lines replaced, so a retried submission with
// the same ID leaves exactly one logical record.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order, lines []*domain.OrderLine) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin order transaction", zap.Error(err))
		return &errors.ErrPersistence{Op: "create order", Err: err}
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36)
		ON CONFLICT (order_id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			patient_name = EXCLUDED.patient_name,
			doctor_name = EXCLUDED.doctor_name,
			mobile = EXCLUDED.mobile,
			age = EXCLUDED.age,
			address = EXCLUDED.address,
			pincode = EXCLUDED.pincode,
			location = EXCLUDED.location,
			total_mrp = EXCLUDED.total_mrp,
			total_savings = EXCLUDED.total_savings,
			flat_discount_amount = EXCLUDED.flat_discount_amount,
			flat_discount_percentage = EXCLUDED.flat_discount_percentage,
			total_bill = EXCLUDED.total_bill,
			generic_amount = EXCLUDED.generic_amount,
			branded_amount = EXCLUDED.branded_amount,
			branded_service_charge = EXCLUDED.branded_service_charge,
			generic_service_charge = EXCLUDED.generic_service_charge,
			final_charge = EXCLUDED.final_charge,
			billing_mrp = EXCLUDED.billing_mrp,
			billing_discount_amount = EXCLUDED.billing_discount_amount,
			sell_amount = EXCLUDED.sell_amount,
			return_amount = EXCLUDED.return_amount,
			status = EXCLUDED.status,
			delivery_status = EXCLUDED.delivery_status,
			payment_method = EXCLUDED.payment_method,
			payment_status = EXCLUDED.payment_status,
			payment_date = EXCLUDED.payment_date,
			shipment_date = EXCLUDED.shipment_date,
			shipment_number = EXCLUDED.shipment_number,
			prescription_url = EXCLUDED.prescription_url,
			invoice_link = EXCLUDED.invoice_link,
			number_of_products = EXCLUDED.number_of_products,
			updated_at = EXCLUDED.updated_at
	`

	_, err = tx.ExecContext(ctx, query,
		order.OrderID,
		order.CustomerName,
		order.PatientName,
		order.DoctorName,
		order.Mobile,
		order.Age,
		order.Address,
		order.Pincode,
		order.Location,
		order.TotalMRP,
		order.TotalSavings,
		order.FlatDiscountAmount,
		order.FlatDiscountPercentage,
		order.TotalBill,
		order.GenericAmount,
		order.BrandedAmount,
		order.BrandedServiceCharge,
		order.GenericServiceCharge,
		order.FinalCharge,
		order.BillingMRP,
		order.BillingDiscountAmount,
		order.SellAmount,
		order.ReturnAmount,
		order.Status,
		order.DeliveryStatus,
		order.PaymentMethod,
		order.PaymentStatus,
		order.PaymentDate,
		order.ShipmentDate,
		order.ShipmentNumber,
		order.PrescriptionURL,
		order.InvoiceLink,
		order.OrderDate,
		order.NumberOfProducts,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert order", zap.Error(err), zap.String("order_id", order.OrderID))
		return &errors.ErrPersistence{Op: "create order", Err: err}
	}

	// Replace lines so a retried submission doesn't duplicate them
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.OrderID); err != nil {
		r.logger.Error("Failed to clear order lines", zap.Error(err), zap.String("order_id", order.OrderID))
		return &errors.ErrPersistence{Op: "create order lines", Err: err}
	}

	lineQuery := `
		INSERT INTO order_lines (
			id, order_id, sku_id, name, brand_name, category, quantity,
			mrp, discount_percent, selling_price, is_generic,
			customer_name, customer_contact, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	for _, line := range lines {
		if line.CreatedAt.IsZero() {
			line.CreatedAt = now
		}
		_, err := tx.ExecContext(ctx, lineQuery,
			line.ID,
			line.OrderID,
			line.SKUID,
			line.Name,
			line.BrandName,
			line.Category,
			line.Quantity,
			line.MRP,
			line.DiscountPercent,
			line.SellingPrice,
			line.IsGeneric,
			line.CustomerName,
			line.CustomerContact,
			line.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to insert order line", zap.Error(err), zap.String("order_id", order.OrderID), zap.String("name", line.Name))
			return &errors.ErrPersistence{Op: "create order lines", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit order transaction", zap.Error(err), zap.String("order_id", order.OrderID))
		return &errors.ErrPersistence{Op: "create order", Err: err}
	}

	return nil
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err), zap.String("order_id", orderID))
		return nil, &errors.ErrPersistence{Op: "get order", Err: err}
	}
	return order, nil
}

func (r *orderRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check order existence", zap.Error(err), zap.String("order_id", orderID))
		return false, &errors.ErrPersistence{Op: "order exists", Err: err}
	}
	return exists, nil
}

// UpdateBilling patches the mutable billing fields. Returns false when the
// order ID is unknown; an empty patch is a no-op success.
func (r *orderRepository) UpdateBilling(ctx context.Context, orderID string, patch domain.BillingPatch) (bool, error) {
	if patch.IsEmpty() {
		return r.Exists(ctx, orderID)
	}

	query := `
		UPDATE orders SET
			total_bill = COALESCE($2, total_bill),
			generic_amount = COALESCE($3, generic_amount),
			status = COALESCE($4, status),
			updated_at = $5
		WHERE order_id = $1
	`

	var totalBill, genericBill sql.NullFloat64
	if patch.TotalBill != nil {
		totalBill = sql.NullFloat64{Float64: *patch.TotalBill, Valid: true}
	}
	if patch.GenericBill != nil {
		genericBill = sql.NullFloat64{Float64: *patch.GenericBill, Valid: true}
	}
	var status sql.NullString
	if patch.Status != nil {
		status = sql.NullString{String: string(*patch.Status), Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, orderID, totalBill, genericBill, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update billing", zap.Error(err), zap.String("order_id", orderID))
		return false, &errors.ErrPersistence{Op: "update billing", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, &errors.ErrPersistence{Op: "update billing", Err: err}
	}
	return rows > 0, nil
}

func (r *orderRepository) UpdatePrescription(ctx context.Context, orderID string, prescriptionURL string) (bool, error) {
	query := `UPDATE orders SET prescription_url = $2, updated_at = $3 WHERE order_id = $1`

	result, err := r.db.ExecContext(ctx, query, orderID, prescriptionURL, time.Now())
	if err != nil {
		r.logger.Error("Failed to update prescription", zap.Error(err), zap.String("order_id", orderID))
		return false, &errors.ErrPersistence{Op: "update prescription", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, &errors.ErrPersistence{Op: "update prescription", Err: err}
	}
	return rows > 0, nil
}

func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`
	if status != nil {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, &errors.ErrPersistence{Op: "list orders", Err: err}
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error("Failed to scan order row", zap.Error(err))
			return nil, &errors.ErrPersistence{Op: "list orders", Err: err}
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.ErrPersistence{Op: "list orders", Err: err}
	}

	return orders, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.OrderID,
		&order.CustomerName,
		&order.PatientName,
		&order.DoctorName,
		&order.Mobile,
		&order.Age,
		&order.Address,
		&order.Pincode,
		&order.Location,
		&order.TotalMRP,
		&order.TotalSavings,
		&order.FlatDiscountAmount,
		&order.FlatDiscountPercentage,
		&order.TotalBill,
		&order.GenericAmount,
		&order.BrandedAmount,
		&order.BrandedServiceCharge,
		&order.GenericServiceCharge,
		&order.FinalCharge,
		&order.BillingMRP,
		&order.BillingDiscountAmount,
		&order.SellAmount,
		&order.ReturnAmount,
		&order.Status,
		&order.DeliveryStatus,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.PaymentDate,
		&order.ShipmentDate,
		&order.ShipmentNumber,
		&order.PrescriptionURL,
		&order.InvoiceLink,
		&order.OrderDate,
		&order.NumberOfProducts,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/pkg/errors"
)

type orderLineRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderLineRepository creates a new order line repository
func NewOrderLineRepository(db *sql.DB, logger *zap.Logger) *orderLineRepository {
	return &orderLineRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderLineRepository) GetByOrderID(ctx context.Context, orderID string) ([]*domain.OrderLine, error) {
	query := `
		SELECT id, order_id, sku_id, name, brand_name, category, quantity,
			mrp, discount_percent, selling_price, is_generic,
			customer_name, customer_contact, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at, name
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order lines", zap.Error(err), zap.String("order_id", orderID))
		return nil, &errors.ErrPersistence{Op: "get order lines", Err: err}
	}
	defer rows.Close()

	var lines []*domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.SKUID,
			&line.Name,
			&line.BrandName,
			&line.Category,
			&line.Quantity,
			&line.MRP,
			&line.DiscountPercent,
			&line.SellingPrice,
			&line.IsGeneric,
			&line.CustomerName,
			&line.CustomerContact,
			&line.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan order line", zap.Error(err))
			return nil, &errors.ErrPersistence{Op: "get order lines", Err: err}
		}
		lines = append(lines, &line)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.ErrPersistence{Op: "get order lines", Err: err}
	}

	return lines, nil
}

// UpdateByOrderIDAndName patches a medicine row identified the way the mirror
// identifies it: parent order ID plus medicine name. Returns false when no
// such row exists; an empty patch is a no-op success.
func (r *orderLineRepository) UpdateByOrderIDAndName(ctx context.Context, orderID, name string, patch domain.LinePatch) (bool, error) {
	if patch.IsEmpty() {
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM order_lines WHERE order_id = $1 AND name = $2)`,
			orderID, name).Scan(&exists)
		if err != nil {
			return false, &errors.ErrPersistence{Op: "order line exists", Err: err}
		}
		return exists, nil
	}

	query := `
		UPDATE order_lines SET
			quantity = COALESCE($3, quantity),
			selling_price = COALESCE($4, selling_price),
			is_generic = COALESCE($5, is_generic)
		WHERE order_id = $1 AND name = $2
	`

	var quantity sql.NullInt64
	if patch.Quantity != nil {
		quantity = sql.NullInt64{Int64: int64(*patch.Quantity), Valid: true}
	}
	var price sql.NullFloat64
	if patch.Price != nil {
		price = sql.NullFloat64{Float64: *patch.Price, Valid: true}
	}
	var isGeneric sql.NullBool
	if patch.IsGeneric != nil {
		isGeneric = sql.NullBool{Bool: *patch.IsGeneric, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, orderID, name, quantity, price, isGeneric)
	if err != nil {
		r.logger.Error("Failed to update order line", zap.Error(err),
			zap.String("order_id", orderID), zap.String("name", name))
		return false, &errors.ErrPersistence{Op: "update order line", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, &errors.ErrPersistence{Op: "update order line", Err: err}
	}
	return rows > 0, nil
}

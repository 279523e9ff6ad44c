package postgres

import (
	"database/sql"
	"fmt"
)

// RunMigrations creates the schema if it does not exist. Good enough for a
// single-node deployment; a real migration tool can replace this later.
func RunMigrations(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			customer_name TEXT NOT NULL,
			patient_name TEXT NOT NULL DEFAULT '',
			doctor_name TEXT NOT NULL DEFAULT '',
			mobile TEXT NOT NULL,
			age TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL,
			pincode TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT 'Online',
			total_mrp DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_savings DOUBLE PRECISION NOT NULL DEFAULT 0,
			flat_discount_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			flat_discount_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_bill DOUBLE PRECISION NOT NULL DEFAULT 0,
			generic_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			branded_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			branded_service_charge DOUBLE PRECISION NOT NULL DEFAULT 0,
			generic_service_charge DOUBLE PRECISION NOT NULL DEFAULT 0,
			final_charge DOUBLE PRECISION NOT NULL DEFAULT 0,
			billing_mrp DOUBLE PRECISION NOT NULL DEFAULT 0,
			billing_discount_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			sell_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			return_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'Processing',
			delivery_status TEXT NOT NULL DEFAULT 'No',
			payment_method TEXT NOT NULL DEFAULT 'cod',
			payment_status TEXT NOT NULL DEFAULT 'Pending',
			payment_date TEXT NOT NULL DEFAULT '',
			shipment_date TEXT NOT NULL DEFAULT '',
			shipment_number TEXT NOT NULL DEFAULT '',
			prescription_url TEXT NOT NULL DEFAULT '',
			invoice_link TEXT NOT NULL DEFAULT '',
			order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			number_of_products INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id UUID PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
			sku_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			brand_name TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'Generic',
			quantity INTEGER NOT NULL,
			mrp DOUBLE PRECISION NOT NULL DEFAULT 0,
			discount_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			selling_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_generic BOOLEAN NOT NULL DEFAULT TRUE,
			customer_name TEXT NOT NULL DEFAULT '',
			customer_contact TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE TABLE IF NOT EXISTS idempotency_keys (
			key TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			request_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

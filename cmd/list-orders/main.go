package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Tushar365/orderapp/internal/config"
	"github.com/Tushar365/orderapp/internal/repository/postgres"
)

func main() {
	// CLI convenience: pick up the local .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("📋 Listing recent orders:")

	query := `
		SELECT order_id, customer_name, mobile, pincode,
		       total_bill, payment_method, payment_status, status, order_date
		FROM orders
		ORDER BY order_date DESC
		LIMIT 100
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query orders: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	var count int
	for rows.Next() {
		var orderID, customerName, customerContact, pincode string
		var totalBill float64
		var paymentMethod, paymentStatus, status, orderDate string

		err := rows.Scan(&orderID, &customerName, &customerContact, &pincode,
			&totalBill, &paymentMethod, &paymentStatus, &status, &orderDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to scan row: %v\n", err)
			continue
		}

		count++
		fmt.Printf("Order #%d:\n", count)
		fmt.Printf("  Order ID: %s\n", orderID)
		fmt.Printf("  Customer: %s (%s)\n", customerName, customerContact)
		fmt.Printf("  Pincode: %s\n", pincode)
		fmt.Printf("  Total Bill: %.2f\n", totalBill)
		fmt.Printf("  Payment: %s (%s)\n", paymentMethod, paymentStatus)
		fmt.Printf("  Status: %s\n", status)
		fmt.Printf("  Ordered: %s\n", orderDate)
		fmt.Println()
	}

	if count == 0 {
		fmt.Println("❌ No orders found in database.")
		fmt.Println("\nSubmit one via POST /v1/orders to get started.")
	} else {
		fmt.Printf("✅ Found %d order(s)\n", count)
	}
}

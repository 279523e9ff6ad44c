package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/config"
	"github.com/Tushar365/orderapp/internal/repository/postgres"
)

func main() {
	// CLI convenience: pick up the local .env if present
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: find-order <order-id>")
		os.Exit(1)
	}
	orderID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	ctx := context.Background()
	order, err := repos.Order.GetByOrderID(ctx, orderID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Order %s\n", order.OrderID)
	fmt.Printf("  Customer: %s (%s)\n", order.CustomerName, order.Mobile)
	fmt.Printf("  Patient: %s\n", order.PatientName)
	fmt.Printf("  Address: %s, %s\n", order.Address, order.Pincode)
	fmt.Printf("  Status: %s\n", order.Status)
	fmt.Printf("  Payment: %s (%s)\n", order.PaymentMethod, order.PaymentStatus)
	fmt.Printf("  Total MRP: %.2f\n", order.TotalMRP)
	fmt.Printf("  Total Bill: %.2f\n", order.TotalBill)
	fmt.Printf("  Total Savings: %.2f\n", order.TotalSavings)
	fmt.Printf("  Final Charge: %.2f\n", order.FinalCharge)
	if order.PrescriptionURL != "" {
		fmt.Printf("  Prescription: %s\n", order.PrescriptionURL)
	}

	lines, err := repos.OrderLine.GetByOrderID(ctx, orderID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load order lines: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  Items (%d):\n", len(lines))
	for _, line := range lines {
		kind := "Branded"
		if line.IsGeneric {
			kind = "Generic"
		}
		fmt.Printf("    - %s x%d @ %.2f (%s)\n", line.Name, line.Quantity, line.SellingPrice, kind)
	}
}

package sheets

import (
	"testing"
	"time"

	"github.com/Tushar365/orderapp/internal/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		OrderID:          "ORD-1700000000000-42",
		CustomerName:     "Asha Verma",
		Mobile:           "9876543210",
		Address:          "12 MG Road",
		Pincode:          "110001",
		PrescriptionURL:  "https://drive.example/f/1",
		NumberOfProducts: 2,
		TotalBill:        1927.5,
		GenericAmount:    120,
		Status:           domain.OrderStatusProcessing,
		OrderDate:        time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestOrderRow(t *testing.T) {
	row := OrderRow(sampleOrder())
	if len(row) != 11 {
		t.Fatalf("row length = %d, want 11 (A:K)", len(row))
	}
	want := []string{
		"ORD-1700000000000-42",
		"2025-06-01T10:30:00Z",
		"Asha Verma",
		"9876543210",
		"12 MG Road",
		"110001",
		"https://drive.example/f/1",
		"2",
		"1927.50",
		"120.00",
		"Processing",
	}
	for i, w := range want {
		if row[i] != w {
			t.Errorf("column %d = %q, want %q", i, row[i], w)
		}
	}
}

func TestMedicineRow(t *testing.T) {
	line := &domain.OrderLine{
		OrderID:      "ORD-1700000000000-42",
		Name:         "Dolo 650",
		Quantity:     2,
		SellingPrice: 90,
		IsGeneric:    false,
	}
	row := MedicineRow(sampleOrder(), line)
	if len(row) != 8 {
		t.Fatalf("row length = %d, want 8 (A:H)", len(row))
	}
	if row[MedColIsGeneric] != "No" {
		t.Errorf("isGeneric cell = %q, want No", row[MedColIsGeneric])
	}
	if row[MedColPrice] != "90.00" {
		t.Errorf("price cell = %q, want 90.00", row[MedColPrice])
	}
	if row[MedColCustomerName] != "Asha Verma" || row[MedColCustomerContact] != "9876543210" {
		t.Errorf("customer cells not denormalized: %v", row)
	}

	line.IsGeneric = true
	if got := MedicineRow(sampleOrder(), line)[MedColIsGeneric]; got != "Yes" {
		t.Errorf("isGeneric cell = %q, want Yes", got)
	}
}

func TestCell_ShortRow(t *testing.T) {
	row := []string{"ORD-1-1", "ts"}
	if got := Cell(row, OrderColID); got != "ORD-1-1" {
		t.Errorf("Cell(0) = %q", got)
	}
	if got := Cell(row, OrderColStatus); got != "" {
		t.Errorf("Cell beyond row end = %q, want empty", got)
	}
}

func TestParseBillingPatch(t *testing.T) {
	row := make([]string, 11)
	row[OrderColID] = "ORD-1-1"
	row[OrderColTotalBill] = "120.50"
	row[OrderColStatus] = "delivered"

	patch, err := ParseBillingPatch(row)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if patch.TotalBill == nil || *patch.TotalBill != 120.50 {
		t.Errorf("totalBill = %v", patch.TotalBill)
	}
	if patch.GenericBill != nil {
		t.Errorf("genericBill should be absent, got %v", *patch.GenericBill)
	}
	if patch.Status == nil || *patch.Status != domain.OrderStatusDelivered {
		t.Errorf("status = %v", patch.Status)
	}
}

func TestParseBillingPatch_Errors(t *testing.T) {
	bad := make([]string, 11)
	bad[OrderColTotalBill] = "abc"
	if _, err := ParseBillingPatch(bad); err == nil {
		t.Error("expected error for non-numeric totalBill")
	}

	badStatus := make([]string, 11)
	badStatus[OrderColStatus] = "done"
	if _, err := ParseBillingPatch(badStatus); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestParseBillingPatch_EmptyRow(t *testing.T) {
	patch, err := ParseBillingPatch([]string{"ORD-1-1"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !patch.IsEmpty() {
		t.Errorf("expected empty patch, got %+v", patch)
	}
}

func TestParseLinePatch(t *testing.T) {
	row := make([]string, 8)
	row[MedColOrderID] = "ORD-1-1"
	row[MedColName] = "Dolo 650"
	row[MedColQuantity] = "5"
	row[MedColPrice] = "85.00"
	row[MedColIsGeneric] = "Yes"

	patch, err := ParseLinePatch(row)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if patch.Quantity == nil || *patch.Quantity != 5 {
		t.Errorf("quantity = %v", patch.Quantity)
	}
	if patch.Price == nil || *patch.Price != 85 {
		t.Errorf("price = %v", patch.Price)
	}
	if patch.IsGeneric == nil || !*patch.IsGeneric {
		t.Errorf("isGeneric = %v", patch.IsGeneric)
	}

	bad := make([]string, 8)
	bad[MedColQuantity] = "many"
	if _, err := ParseLinePatch(bad); err == nil {
		t.Error("expected error for non-numeric quantity")
	}
}

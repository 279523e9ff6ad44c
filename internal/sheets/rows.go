package sheets

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Tushar365/orderapp/internal/domain"
)

// Column layout of the Orders tab (A:K). This is a wire contract with the
// back office; do not reorder.
const (
	OrderColID = iota
	OrderColTimestamp
	OrderColName
	OrderColContact
	OrderColAddress
	OrderColPincode
	OrderColPrescriptionURL
	OrderColItemCount
	OrderColTotalBill
	OrderColGenericBill
	OrderColStatus
	orderColCount
)

// Column layout of the Medicines tab (A:H). Same contract.
const (
	MedColOrderID = iota
	MedColDate
	MedColName
	MedColQuantity
	MedColPrice
	MedColIsGeneric
	MedColCustomerName
	MedColCustomerContact
	medColCount
)

// OrderHeaderCell is how a header row is recognized on pull.
const OrderHeaderCell = "Order ID"

// OrderRow renders an order snapshot as one Orders-tab row.
func OrderRow(order *domain.Order) []string {
	row := make([]string, orderColCount)
	row[OrderColID] = order.OrderID
	row[OrderColTimestamp] = order.OrderDate.UTC().Format(time.RFC3339)
	row[OrderColName] = order.CustomerName
	row[OrderColContact] = order.Mobile
	row[OrderColAddress] = order.Address
	row[OrderColPincode] = order.Pincode
	row[OrderColPrescriptionURL] = order.PrescriptionURL
	row[OrderColItemCount] = strconv.Itoa(order.NumberOfProducts)
	row[OrderColTotalBill] = formatMoney(order.TotalBill)
	row[OrderColGenericBill] = formatMoney(order.GenericAmount)
	row[OrderColStatus] = string(order.Status)
	return row
}

// MedicineRow renders one order line as a Medicines-tab row.
func MedicineRow(order *domain.Order, line *domain.OrderLine) []string {
	isGeneric := "No"
	if line.IsGeneric {
		isGeneric = "Yes"
	}
	row := make([]string, medColCount)
	row[MedColOrderID] = line.OrderID
	row[MedColDate] = order.OrderDate.UTC().Format(time.RFC3339)
	row[MedColName] = line.Name
	row[MedColQuantity] = strconv.Itoa(line.Quantity)
	row[MedColPrice] = formatMoney(line.SellingPrice)
	row[MedColIsGeneric] = isGeneric
	row[MedColCustomerName] = order.CustomerName
	row[MedColCustomerContact] = order.Mobile
	return row
}

// Cell returns row[idx] or "" when the row is short. Sheets drops trailing
// empty cells, so short rows are normal.
func Cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// ParseBillingPatch extracts the mutable billing fields from an Orders-tab
// row: whatever subset of {totalBill, genericBill, status} is present.
func ParseBillingPatch(row []string) (domain.BillingPatch, error) {
	var patch domain.BillingPatch

	if raw := Cell(row, OrderColTotalBill); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return patch, fmt.Errorf("bad totalBill %q: %w", raw, err)
		}
		patch.TotalBill = &v
	}
	if raw := Cell(row, OrderColGenericBill); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return patch, fmt.Errorf("bad genericBill %q: %w", raw, err)
		}
		patch.GenericBill = &v
	}
	if raw := Cell(row, OrderColStatus); raw != "" {
		status, ok := domain.ParseOrderStatus(raw)
		if !ok {
			return patch, fmt.Errorf("bad status %q", raw)
		}
		patch.Status = &status
	}

	return patch, nil
}

// ParseLinePatch extracts the mutable medicine fields from a Medicines-tab
// row.
func ParseLinePatch(row []string) (domain.LinePatch, error) {
	var patch domain.LinePatch

	if raw := Cell(row, MedColQuantity); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return patch, fmt.Errorf("bad quantity %q: %w", raw, err)
		}
		patch.Quantity = &v
	}
	if raw := Cell(row, MedColPrice); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return patch, fmt.Errorf("bad price %q: %w", raw, err)
		}
		patch.Price = &v
	}
	if raw := Cell(row, MedColIsGeneric); raw != "" {
		g := raw == "Yes" || raw == "yes"
		patch.IsGeneric = &g
	}

	return patch, nil
}

// formatMoney rounds to two decimals for the sheet. Presentation boundary;
// internal math stays unrounded.
func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

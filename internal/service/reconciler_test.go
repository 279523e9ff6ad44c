package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/sheets"
	apperrors "github.com/Tushar365/orderapp/pkg/errors"
)

func seedOrder(t *testing.T, repos *fakeOrderRepo, orderID string) {
	t.Helper()
	repos.orders[orderID] = &domain.Order{
		OrderID:   orderID,
		TotalBill: 100,
		Status:    domain.OrderStatusProcessing,
	}
	repos.lines[orderID] = []*domain.OrderLine{
		{OrderID: orderID, Name: "Dolo 650", Quantity: 2, SellingPrice: 90},
	}
}

func newTestReconciler(mirror *fakeMirror) (*SheetReconciler, *fakeOrderRepo) {
	repos, orderRepo := newFakeRepos()
	return NewSheetReconciler(mirror, repos, "Orders", "Medicines", zap.NewNop()), orderRepo
}

func TestPushOrder_AppendsBothTabs(t *testing.T) {
	mirror := newFakeMirror()
	reconciler, _ := newTestReconciler(mirror)

	order := &domain.Order{OrderID: "ORD-1-1", CustomerName: "Asha", NumberOfProducts: 1, Status: domain.OrderStatusProcessing}
	lines := []*domain.OrderLine{{OrderID: "ORD-1-1", Name: "Dolo 650", Quantity: 2, SellingPrice: 90}}

	if err := reconciler.PushOrder(context.Background(), order, lines); err != nil {
		t.Fatalf("push: %v", err)
	}

	orderRows := mirror.appended["Orders"]
	if len(orderRows) != 1 {
		t.Fatalf("orders tab rows = %d, want 1", len(orderRows))
	}
	if got := sheets.Cell(orderRows[0], sheets.OrderColID); got != "ORD-1-1" {
		t.Errorf("order row ID = %q", got)
	}
	medRows := mirror.appended["Medicines"]
	if len(medRows) != 1 {
		t.Fatalf("medicines tab rows = %d, want 1", len(medRows))
	}
	if got := sheets.Cell(medRows[0], sheets.MedColName); got != "Dolo 650" {
		t.Errorf("medicine row name = %q", got)
	}
}

func TestPushOrder_WrapsMirrorError(t *testing.T) {
	mirror := newFakeMirror()
	mirror.appendErr = errors.New("quota exceeded")
	reconciler, _ := newTestReconciler(mirror)

	err := reconciler.PushOrder(context.Background(), &domain.Order{OrderID: "ORD-1-1"}, nil)
	if _, ok := err.(*apperrors.ErrExternalSync); !ok {
		t.Fatalf("expected ErrExternalSync, got %v", err)
	}
}

func TestPullUpdates_AppliesOrderEdits(t *testing.T) {
	mirror := newFakeMirror()
	reconciler, orderRepo := newTestReconciler(mirror)
	seedOrder(t, orderRepo, "ORD-1-1")

	mirror.rows["Orders"] = [][]string{
		{"Order ID", "Timestamp", "Name", "Contact", "Address", "Pincode", "Prescription", "Items", "Total Bill", "Generic Bill", "Status"},
		{"ORD-1-1", "", "", "", "", "", "", "", "120.50", "30", "shipped"},
	}

	report, err := reconciler.PullUpdates(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if report.OrdersUpdated != 1 {
		t.Errorf("orders updated = %d, want 1", report.OrdersUpdated)
	}
	// Header row counts as skipped, never failed.
	if report.RowsFailed != 0 {
		t.Errorf("rows failed = %d, want 0", report.RowsFailed)
	}

	order := orderRepo.orders["ORD-1-1"]
	if order.TotalBill != 120.50 {
		t.Errorf("total bill = %v, want 120.50", order.TotalBill)
	}
	if order.GenericAmount != 30 {
		t.Errorf("generic amount = %v, want 30", order.GenericAmount)
	}
	if order.Status != domain.OrderStatusShipped {
		t.Errorf("status = %q, want Shipped", order.Status)
	}
}

func TestPullUpdates_BadRowNeverAbortsScan(t *testing.T) {
	mirror := newFakeMirror()
	reconciler, orderRepo := newTestReconciler(mirror)
	seedOrder(t, orderRepo, "ORD-1-1")

	mirror.rows["Orders"] = [][]string{
		{"", "", "", "", "", "", "", "", "", "", ""},                    // no order ID: skipped
		{"ORD-9-9", "", "", "", "", "", "", "", "50", "", ""},           // unknown order: failed
		{"ORD-1-1", "", "", "", "", "", "", "", "not-a-number", "", ""}, // malformed: failed
		{"ORD-1-1", "", "", "", "", "", "", "", "", "", "Delivered"},    // valid: applied
	}

	report, err := reconciler.PullUpdates(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if report.OrdersUpdated != 1 {
		t.Errorf("orders updated = %d, want 1", report.OrdersUpdated)
	}
	if report.RowsSkipped != 1 {
		t.Errorf("rows skipped = %d, want 1", report.RowsSkipped)
	}
	if report.RowsFailed != 2 {
		t.Errorf("rows failed = %d, want 2", report.RowsFailed)
	}
	if orderRepo.orders["ORD-1-1"].Status != domain.OrderStatusDelivered {
		t.Errorf("valid row after bad rows not applied, status = %q", orderRepo.orders["ORD-1-1"].Status)
	}
}

func TestPullUpdates_AppliesMedicineEdits(t *testing.T) {
	mirror := newFakeMirror()
	reconciler, orderRepo := newTestReconciler(mirror)
	seedOrder(t, orderRepo, "ORD-1-1")

	mirror.rows["Medicines"] = [][]string{
		{"Order ID", "Date", "Medicine", "Qty", "Price", "Generic", "Customer", "Contact"},
		{"ORD-1-1", "", "Dolo 650", "5", "85.00", "Yes", "", ""},
		{"ORD-1-1", "", "Unknown Med", "1", "10", "No", "", ""},
	}

	report, err := reconciler.PullUpdates(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if report.MedicinesUpdated != 1 {
		t.Errorf("medicines updated = %d, want 1", report.MedicinesUpdated)
	}
	if report.RowsFailed != 1 {
		t.Errorf("rows failed = %d, want 1", report.RowsFailed)
	}

	line := orderRepo.lines["ORD-1-1"][0]
	if line.Quantity != 5 || line.SellingPrice != 85 || !line.IsGeneric {
		t.Errorf("line not patched: %+v", line)
	}
}

func TestPullUpdates_ReadErrorWrapped(t *testing.T) {
	mirror := newFakeMirror()
	mirror.readErr = errors.New("401 unauthorized")
	reconciler, _ := newTestReconciler(mirror)

	_, err := reconciler.PullUpdates(context.Background())
	if _, ok := err.(*apperrors.ErrExternalSync); !ok {
		t.Fatalf("expected ErrExternalSync, got %v", err)
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/repository"
	"github.com/Tushar365/orderapp/internal/sheets"
	"github.com/Tushar365/orderapp/pkg/errors"
)

// SheetReconciler keeps the spreadsheet mirror loosely in sync with the
// canonical store. Push appends snapshot rows; pull applies back-office edits
// row by row, best effort. Neither direction is ever allowed to fail a store
// write that already succeeded.
type SheetReconciler struct {
	mirror       sheets.Mirror
	repos        *repository.Repositories
	ordersTab    string
	medicinesTab string
	logger       *zap.Logger
}

// NewSheetReconciler creates a sheet reconciler
func NewSheetReconciler(mirror sheets.Mirror, repos *repository.Repositories, ordersTab, medicinesTab string, logger *zap.Logger) *SheetReconciler {
	return &SheetReconciler{
		mirror:       mirror,
		repos:        repos,
		ordersTab:    ordersTab,
		medicinesTab: medicinesTab,
		logger:       logger,
	}
}

// PushOrder appends the order snapshot to the Orders tab and one row per
// line to the Medicines tab. Append-only; prior rows are never touched.
func (r *SheetReconciler) PushOrder(ctx context.Context, order *domain.Order, lines []*domain.OrderLine) error {
	if err := r.mirror.Append(ctx, r.ordersTab, [][]string{sheets.OrderRow(order)}); err != nil {
		r.logger.Warn("Failed to push order row to sheet", zap.Error(err), zap.String("order_id", order.OrderID))
		return &errors.ErrExternalSync{Op: "push order row", Err: err}
	}

	if len(lines) > 0 {
		rows := make([][]string, len(lines))
		for i, line := range lines {
			rows[i] = sheets.MedicineRow(order, line)
		}
		if err := r.mirror.Append(ctx, r.medicinesTab, rows); err != nil {
			r.logger.Warn("Failed to push medicine rows to sheet", zap.Error(err), zap.String("order_id", order.OrderID))
			return &errors.ErrExternalSync{Op: "push medicine rows", Err: err}
		}
	}

	return nil
}

// PullUpdates scans both tabs and applies whatever the back office edited to
// the store. Rows without an order ID are skipped; a bad row is logged and
// counted, never aborting the scan.
func (r *SheetReconciler) PullUpdates(ctx context.Context) (SyncReport, error) {
	var report SyncReport

	orderRows, err := r.mirror.ReadAll(ctx, r.ordersTab)
	if err != nil {
		return report, &errors.ErrExternalSync{Op: "read orders tab", Err: err}
	}
	r.pullOrderRows(ctx, orderRows, &report)

	medicineRows, err := r.mirror.ReadAll(ctx, r.medicinesTab)
	if err != nil {
		// Orders already reconciled; report what we have alongside the error
		return report, &errors.ErrExternalSync{Op: "read medicines tab", Err: err}
	}
	r.pullMedicineRows(ctx, medicineRows, &report)

	r.logger.Info("Sheet pull completed",
		zap.Int("orders_updated", report.OrdersUpdated),
		zap.Int("medicines_updated", report.MedicinesUpdated),
		zap.Int("rows_skipped", report.RowsSkipped),
		zap.Int("rows_failed", report.RowsFailed),
	)
	return report, nil
}

func (r *SheetReconciler) pullOrderRows(ctx context.Context, rows [][]string, report *SyncReport) {
	for i, row := range rows {
		orderID := sheets.Cell(row, sheets.OrderColID)
		if orderID == "" || (i == 0 && orderID == sheets.OrderHeaderCell) {
			report.RowsSkipped++
			continue
		}

		patch, err := sheets.ParseBillingPatch(row)
		if err != nil {
			r.logger.Warn("Skipping malformed order row", zap.Int("row", i+1), zap.Error(err))
			report.RowsFailed++
			continue
		}
		if patch.IsEmpty() {
			report.RowsSkipped++
			continue
		}

		updated, err := r.repos.Order.UpdateBilling(ctx, orderID, patch)
		if err != nil {
			r.logger.Warn("Failed to apply order row", zap.String("order_id", orderID), zap.Error(err))
			report.RowsFailed++
			continue
		}
		if !updated {
			r.logger.Warn("Order row targets unknown order", zap.String("order_id", orderID))
			report.RowsFailed++
			continue
		}
		report.OrdersUpdated++
	}
}

func (r *SheetReconciler) pullMedicineRows(ctx context.Context, rows [][]string, report *SyncReport) {
	for i, row := range rows {
		orderID := sheets.Cell(row, sheets.MedColOrderID)
		name := sheets.Cell(row, sheets.MedColName)
		if orderID == "" || (i == 0 && orderID == sheets.OrderHeaderCell) {
			report.RowsSkipped++
			continue
		}
		if name == "" {
			report.RowsSkipped++
			continue
		}

		patch, err := sheets.ParseLinePatch(row)
		if err != nil {
			r.logger.Warn("Skipping malformed medicine row", zap.Int("row", i+1), zap.Error(err))
			report.RowsFailed++
			continue
		}
		if patch.IsEmpty() {
			report.RowsSkipped++
			continue
		}

		updated, err := r.repos.OrderLine.UpdateByOrderIDAndName(ctx, orderID, name, patch)
		if err != nil {
			r.logger.Warn("Failed to apply medicine row", zap.String("order_id", orderID), zap.String("name", name), zap.Error(err))
			report.RowsFailed++
			continue
		}
		if !updated {
			r.logger.Warn("Medicine row targets unknown line", zap.String("order_id", orderID), zap.String("name", name))
			report.RowsFailed++
			continue
		}
		report.MedicinesUpdated++
	}
}

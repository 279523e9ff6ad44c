package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/service"
)

// HandleSyncSheet handles POST /v1/sync-sheet. It pulls edits from the
// spreadsheet into the database and reports what changed. When a sync
// secret is configured, callers must present it in X-Sync-Secret.
func HandleSyncSheet(reconciler *service.SheetReconciler, syncSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if syncSecret != "" && c.GetHeader("X-Sync-Secret") != syncSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid sync secret"})
			return
		}

		report, err := service.RunSheetSyncOnce(c.Request.Context(), reconciler, logger)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   "sheet sync failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"ordersUpdated":    report.OrdersUpdated,
			"medicinesUpdated": report.MedicinesUpdated,
			"rowsSkipped":      report.RowsSkipped,
			"rowsFailed":       report.RowsFailed,
		})
	}
}

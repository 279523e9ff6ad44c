package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/repository"
	"github.com/Tushar365/orderapp/internal/service"
)

// UpdateStatusRequest represents a back-office status update
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// HandleListOrders handles GET /v1/admin/orders
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		var status *domain.OrderStatus
		if raw := c.Query("status"); raw != "" {
			parsed, ok := domain.ParseOrderStatus(raw)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + raw})
				return
			}
			status = &parsed
		}

		orders, err := repos.Order.List(c.Request.Context(), status, limit, offset)
		if err != nil {
			logger.Error("Failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		summaries := make([]gin.H, len(orders))
		for i, order := range orders {
			summaries[i] = gin.H{
				"orderId":          order.OrderID,
				"customerName":     order.CustomerName,
				"mobile":           order.Mobile,
				"pincode":          order.Pincode,
				"status":           order.Status,
				"totalBill":        order.TotalBill,
				"numberOfProducts": order.NumberOfProducts,
				"orderDate":        order.OrderDate,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": summaries,
			"count":  len(summaries),
		})
	}
}

// HandleUpdateStatus handles POST /v1/admin/orders/:id/status. Wire values
// are accepted in both canonical capitalized and lowercase forms.
func HandleUpdateStatus(svc *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order ID required"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
			return
		}

		status, ok := domain.ParseOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + req.Status})
			return
		}

		updated, err := svc.UpdateStatus(c.Request.Context(), orderID, status)
		if err != nil {
			logger.Error("Failed to update status", zap.Error(err), zap.String("order_id", orderID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !updated {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orderId": orderID, "status": status})
	}
}

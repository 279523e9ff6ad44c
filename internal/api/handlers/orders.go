package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/api/middleware"
	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/repository"
	"github.com/Tushar365/orderapp/internal/service"
	"github.com/Tushar365/orderapp/pkg/errors"
)

// SubmitOrderResponse reports the two outcomes of a submission separately:
// success tracks the canonical store write only, SheetSync the mirror push.
type SubmitOrderResponse struct {
	Success   bool   `json:"success"`
	OrderID   string `json:"orderId"`
	SheetSync string `json:"sheetSync,omitempty"`
	Message   string `json:"message,omitempty"`
}

// OrderResponse represents the order response
type OrderResponse struct {
	OrderID                string              `json:"orderId"`
	CustomerName           string              `json:"customerName"`
	PatientName            string              `json:"patientName,omitempty"`
	DoctorName             string              `json:"doctorName,omitempty"`
	Mobile                 string              `json:"mobile"`
	Age                    string              `json:"age,omitempty"`
	Address                string              `json:"address"`
	Pincode                string              `json:"pincode"`
	Location               string              `json:"location"`
	Status                 domain.OrderStatus  `json:"status"`
	DeliveryStatus         string              `json:"deliveryStatus"`
	PaymentMethod          string              `json:"paymentMethod"`
	PaymentStatus          string              `json:"paymentStatus"`
	TotalMRP               float64             `json:"totalMRP"`
	TotalSavings           float64             `json:"totalSavings"`
	FlatDiscountAmount     float64             `json:"flatDiscountAmount"`
	FlatDiscountPercentage float64             `json:"flatDiscountPercentage"`
	TotalBill              float64             `json:"totalBill"`
	GenericAmount          float64             `json:"genericAmount"`
	BrandedAmount          float64             `json:"brandedAmount"`
	BrandedServiceCharge   float64             `json:"brandedServiceCharge"`
	GenericServiceCharge   float64             `json:"genericServiceCharge"`
	FinalCharge            float64             `json:"finalCharge"`
	PrescriptionURL        string              `json:"prescriptionUrl,omitempty"`
	OrderDate              string              `json:"orderDate"`
	NumberOfProducts       int                 `json:"numberOfProducts"`
	Medicines              []OrderLineResponse `json:"medicines"`
}

type OrderLineResponse struct {
	Name            string  `json:"name"`
	BrandName       string  `json:"brandName,omitempty"`
	Category        string  `json:"category"`
	Quantity        int     `json:"quantity"`
	MRP             float64 `json:"mrp"`
	DiscountPercent float64 `json:"discount"`
	SellingPrice    float64 `json:"sellingPrice"`
	IsGeneric       bool    `json:"isGeneric"`
}

// HandleSubmitOrder handles POST /v1/orders (rich checkout flow)
func HandleSubmitOrder(svc *service.OrderService, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Replayed idempotency key: acknowledge the order already created
		if _, _, existingOrderID, isExisting := middleware.GetIdempotencyInfo(c); isExisting {
			c.JSON(http.StatusOK, SubmitOrderResponse{
				Success: true,
				OrderID: existingOrderID,
				Message: "order already placed",
			})
			return
		}

		var req service.OrderSubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid order data",
				"details": err.Error(),
			})
			return
		}

		customer := service.CustomerInfo{
			CustomerName: req.CustomerName,
			PatientName:  req.PatientName,
			DoctorName:   req.DoctorName,
			Mobile:       req.Mobile,
			Age:          req.Age,
			Address:      req.Address,
			Pincode:      req.Pincode,
			Location:     req.Location,
		}

		submitOrder(c, svc, repos, logger, customer, req.Medicines, req.PaymentMethod, req.OrderID, req.PrescriptionURL)
	}
}

// HandleQuickOrder handles POST /v1/orders/quick: contact details plus a
// medicine list. The patient defaults to the customer placing the order.
func HandleQuickOrder(svc *service.OrderService, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, existingOrderID, isExisting := middleware.GetIdempotencyInfo(c); isExisting {
			c.JSON(http.StatusOK, SubmitOrderResponse{
				Success: true,
				OrderID: existingOrderID,
				Message: "order already placed",
			})
			return
		}

		var req service.QuickOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid order data",
				"details": err.Error(),
			})
			return
		}

		customer := service.CustomerInfo{
			CustomerName: req.Name,
			PatientName:  req.Name,
			Mobile:       req.Contact,
			Address:      req.Address,
			Pincode:      req.Pincode,
		}

		submitOrder(c, svc, repos, logger, customer, req.Medicines, req.PaymentMethod, req.OrderID, req.PrescriptionURL)
	}
}

// submitOrder is the shared tail of both submit routes.
func submitOrder(
	c *gin.Context,
	svc *service.OrderService,
	repos *repository.Repositories,
	logger *zap.Logger,
	customer service.CustomerInfo,
	medicines []service.MedicineInput,
	paymentMethod, orderID, prescriptionURL string,
) {
	method := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(paymentMethod)))
	if paymentMethod == "" {
		method = domain.PaymentMethodCOD
	}

	lines := service.CartLines(medicines)
	result, err := svc.SubmitOrder(c.Request.Context(), customer, lines, service.PaymentInfo{Method: method}, orderID, prescriptionURL)
	if err != nil {
		if verr, ok := err.(*errors.ErrValidation); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   verr.Error(),
				"details": verr.Fields,
			})
			return
		}
		logger.Error("Failed to submit order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit order"})
		return
	}

	// Store idempotency key if provided
	idempotencyKey, requestHash, _, _ := middleware.GetIdempotencyInfo(c)
	if idempotencyKey != "" {
		key := &domain.IdempotencyKey{
			Key:         idempotencyKey,
			OrderID:     result.Order.OrderID,
			RequestHash: requestHash,
		}
		if err := repos.IdempotencyKey.Create(c.Request.Context(), key); err != nil {
			logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	resp := SubmitOrderResponse{
		Success: true,
		OrderID: result.Order.OrderID,
		Message: "Order placed successfully",
	}
	if result.SheetSynced {
		resp.SheetSync = "ok"
	} else {
		resp.SheetSync = "failed"
	}

	c.JSON(http.StatusCreated, resp)
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(svc *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order ID required"})
			return
		}

		order, lines, err := svc.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to get order", zap.Error(err), zap.String("order_id", orderID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, buildOrderResponse(order, lines))
	}
}

func buildOrderResponse(order *domain.Order, lines []*domain.OrderLine) OrderResponse {
	lineResponses := make([]OrderLineResponse, len(lines))
	for i, line := range lines {
		lineResponses[i] = OrderLineResponse{
			Name:            line.Name,
			BrandName:       line.BrandName,
			Category:        string(line.Category),
			Quantity:        line.Quantity,
			MRP:             line.MRP,
			DiscountPercent: line.DiscountPercent,
			SellingPrice:    line.SellingPrice,
			IsGeneric:       line.IsGeneric,
		}
	}

	return OrderResponse{
		OrderID:                order.OrderID,
		CustomerName:           order.CustomerName,
		PatientName:            order.PatientName,
		DoctorName:             order.DoctorName,
		Mobile:                 order.Mobile,
		Age:                    order.Age,
		Address:                order.Address,
		Pincode:                order.Pincode,
		Location:               order.Location,
		Status:                 order.Status,
		DeliveryStatus:         order.DeliveryStatus,
		PaymentMethod:          string(order.PaymentMethod),
		PaymentStatus:          order.PaymentStatus,
		TotalMRP:               order.TotalMRP,
		TotalSavings:           order.TotalSavings,
		FlatDiscountAmount:     order.FlatDiscountAmount,
		FlatDiscountPercentage: order.FlatDiscountPercentage,
		TotalBill:              order.TotalBill,
		GenericAmount:          order.GenericAmount,
		BrandedAmount:          order.BrandedAmount,
		BrandedServiceCharge:   order.BrandedServiceCharge,
		GenericServiceCharge:   order.GenericServiceCharge,
		FinalCharge:            order.FinalCharge,
		PrescriptionURL:        order.PrescriptionURL,
		OrderDate:              order.OrderDate.UTC().Format(time.RFC3339),
		NumberOfProducts:       order.NumberOfProducts,
		Medicines:              lineResponses,
	}
}

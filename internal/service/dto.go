package service

import (
	"github.com/Tushar365/orderapp/internal/domain"
)

// OrderSubmitRequest is the rich checkout submission payload.
type OrderSubmitRequest struct {
	CustomerName    string          `json:"customerName" binding:"required"`
	PatientName     string          `json:"patientName" binding:"required"`
	DoctorName      string          `json:"doctorName"`
	Mobile          string          `json:"mobile" binding:"required"`
	Age             string          `json:"age"`
	Address         string          `json:"address" binding:"required"`
	Pincode         string          `json:"pincode" binding:"required"`
	Medicines       []MedicineInput `json:"medicines" binding:"required,min=1,dive"`
	PaymentMethod   string          `json:"paymentMethod"`
	OrderID         string          `json:"orderId"`
	Location        string          `json:"location"`
	PrescriptionURL string          `json:"prescriptionUrl"`
}

// QuickOrderRequest is the quick-order payload: contact details plus a
// medicine list, no patient fields.
type QuickOrderRequest struct {
	Name            string          `json:"name" binding:"required"`
	Contact         string          `json:"contact" binding:"required"`
	Address         string          `json:"address" binding:"required"`
	Pincode         string          `json:"pincode" binding:"required"`
	Medicines       []MedicineInput `json:"medicines" binding:"required,min=1,dive"`
	PaymentMethod   string          `json:"paymentMethod"`
	OrderID         string          `json:"orderId"`
	PrescriptionURL string          `json:"prescriptionUrl"`
}

// MedicineInput is one cart line on the wire. Category is free-form here and
// normalized once at this boundary; quantity bounds are enforced by binding.
type MedicineInput struct {
	ProductID       string  `json:"productId"`
	Name            string  `json:"name" binding:"required"`
	BrandName       string  `json:"brandName"`
	Category        string  `json:"category"`
	MRP             float64 `json:"mrp" binding:"min=0"`
	DiscountPercent float64 `json:"discount" binding:"min=0,max=100"`
	Price           float64 `json:"price" binding:"min=0"`
	Quantity        int     `json:"quantity" binding:"required,min=1,max=50"`
}

// CartLine converts the wire medicine to a normalized domain cart line.
func (m MedicineInput) CartLine() domain.CartLine {
	return domain.CartLine{
		ProductID:       m.ProductID,
		Name:            m.Name,
		BrandName:       m.BrandName,
		Category:        domain.ParseCategory(m.Category),
		MRP:             m.MRP,
		DiscountPercent: m.DiscountPercent,
		SellingPrice:    m.Price,
		Quantity:        m.Quantity,
	}
}

// CartLines converts a medicine list.
func CartLines(medicines []MedicineInput) []domain.CartLine {
	lines := make([]domain.CartLine, len(medicines))
	for i, m := range medicines {
		lines[i] = m.CartLine()
	}
	return lines
}

// CustomerInfo is the assembler's customer input.
type CustomerInfo struct {
	CustomerName string
	PatientName  string
	DoctorName   string
	Mobile       string
	Age          string
	Address      string
	Pincode      string
	Location     string
}

// PaymentInfo is the assembler's payment input.
type PaymentInfo struct {
	Method domain.PaymentMethod
}

// SyncReport summarizes one mirror pull.
type SyncReport struct {
	OrdersUpdated    int `json:"ordersUpdated"`
	MedicinesUpdated int `json:"medicinesUpdated"`
	RowsSkipped      int `json:"rowsSkipped"`
	RowsFailed       int `json:"rowsFailed"`
}

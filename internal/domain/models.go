package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one medicine in a cart prior to submission. Transient and
// disposable; the persisted snapshot is OrderLine.
type CartLine struct {
	ProductID       string
	Name            string
	BrandName       string
	Category        Category
	MRP             float64
	DiscountPercent float64
	SellingPrice    float64 // 0 means derive from MRP and DiscountPercent
	Quantity        int     // 1..50, enforced at the input boundary
}

// EffectiveSellingPrice returns the per-unit selling price, deriving it from
// MRP and the listing discount when no explicit price was supplied.
func (l CartLine) EffectiveSellingPrice() float64 {
	if l.SellingPrice > 0 {
		return l.SellingPrice
	}
	return l.MRP * (1 - l.DiscountPercent/100)
}

// PricingResult is the aggregate money view of a cart. All values are
// unrounded; rounding happens only at presentation boundaries.
type PricingResult struct {
	TotalMRP                       float64
	TotalSellingBeforeFlatDiscount float64
	BrandedSubtotal                float64
	FlatDiscountPercentage         float64
	FlatDiscountAmount             float64
	TotalBill                      float64
	TotalSavings                   float64
}

// Order is the canonical persisted order record. Owned by the order store
// once created; mutated only through billing/status/prescription updates.
type Order struct {
	OrderID string // ORD-<epochMillis>-<0..999>, immutable identity

	// Customer
	CustomerName string
	PatientName  string
	DoctorName   string
	Mobile       string
	Age          string
	Address      string
	Pincode      string
	Location     string // defaults to "Online"

	// Financial snapshot, copied verbatim from the pricing calculator
	TotalMRP               float64
	TotalSavings           float64
	FlatDiscountAmount     float64
	FlatDiscountPercentage float64
	TotalBill              float64
	GenericAmount          float64
	BrandedAmount          float64
	BrandedServiceCharge   float64 // 5% of BrandedAmount
	GenericServiceCharge   float64 // 3% of GenericAmount
	FinalCharge            float64 // TotalBill + both service charges

	// Billing mirror fields kept for the back-office sheet
	BillingMRP            float64
	BillingDiscountAmount float64
	SellAmount            float64
	ReturnAmount          float64

	// Status
	Status         OrderStatus
	DeliveryStatus string // "No" until delivered
	PaymentMethod  PaymentMethod
	PaymentStatus  string
	PaymentDate    string

	// Shipment
	ShipmentDate   string
	ShipmentNumber string

	// Files and links
	PrescriptionURL string
	InvoiceLink     string

	OrderDate        time.Time
	NumberOfProducts int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderLine is a persisted snapshot of one CartLine at order time. Customer
// name and contact are denormalized for back-office filtering in the mirror.
type OrderLine struct {
	ID              uuid.UUID
	OrderID         string
	SKUID           string
	Name            string
	BrandName       string
	Category        Category
	Quantity        int
	MRP             float64
	DiscountPercent float64
	SellingPrice    float64
	IsGeneric       bool
	CustomerName    string
	CustomerContact string
	CreatedAt       time.Time
}

// BillingPatch is a partial update of the mutable billing fields. Nil fields
// are left untouched.
type BillingPatch struct {
	TotalBill   *float64
	GenericBill *float64
	Status      *OrderStatus
}

// IsEmpty reports whether the patch carries no fields.
func (p BillingPatch) IsEmpty() bool {
	return p.TotalBill == nil && p.GenericBill == nil && p.Status == nil
}

// LinePatch is a partial update of a medicine row pulled from the mirror.
type LinePatch struct {
	Quantity  *int
	Price     *float64
	IsGeneric *bool
}

// IsEmpty reports whether the patch carries no fields.
func (p LinePatch) IsEmpty() bool {
	return p.Quantity == nil && p.Price == nil && p.IsGeneric == nil
}

// IdempotencyKey stores idempotency information for retried submissions
type IdempotencyKey struct {
	Key         string
	OrderID     string
	RequestHash string
	CreatedAt   time.Time
}

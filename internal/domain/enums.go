package domain

import "strings"

// Category classifies a medicine as Branded or Generic. The flat discount
// and the 5% service charge apply to the branded side only.
type Category string

const (
	CategoryBranded Category = "Branded"
	CategoryGeneric Category = "Generic"
)

// ParseCategory normalizes a free-form category string. Missing or
// unrecognized values fall back to Generic so the branded discount never
// applies to an ambiguous line.
func ParseCategory(s string) Category {
	if strings.EqualFold(strings.TrimSpace(s), string(CategoryBranded)) {
		return CategoryBranded
	}
	return CategoryGeneric
}

// IsBranded reports whether the category is Branded.
func (c Category) IsBranded() bool {
	return c == CategoryBranded
}

// OrderStatus represents the back-office status of an order.
type OrderStatus string

const (
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusOrderConfirmed OrderStatus = "Order Confirmed"
	OrderStatusPacking        OrderStatus = "Packing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusReturn         OrderStatus = "Return"
	OrderStatusCancel         OrderStatus = "Cancel"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusProcessing,
		OrderStatusOrderConfirmed,
		OrderStatusPacking,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusReturn,
		OrderStatusCancel:
		return true
	default:
		return false
	}
}

// ParseOrderStatus resolves a wire value to its canonical form. The persisted
// schema historically carried both capitalized and lowercase variants, so both
// are accepted. Returns false for values outside the enum.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "processing":
		return OrderStatusProcessing, true
	case "order confirmed":
		return OrderStatusOrderConfirmed, true
	case "packing":
		return OrderStatusPacking, true
	case "shipped":
		return OrderStatusShipped, true
	case "delivered":
		return OrderStatusDelivered, true
	case "return":
		return OrderStatusReturn, true
	case "cancel":
		return OrderStatusCancel, true
	default:
		return "", false
	}
}

// PaymentMethod represents how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodCard
}

// PaymentStatus returns the derived payment status: COD orders stay Pending
// until collected, everything else is Paid up front.
func (m PaymentMethod) PaymentStatus() string {
	if m == PaymentMethodCOD {
		return "Pending"
	}
	return "Paid"
}

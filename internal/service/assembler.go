package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/pricing"
	"github.com/Tushar365/orderapp/pkg/errors"
)

// Assembler builds a canonical order record from customer input and cart
// lines. Pure assembly: validation, defaulting, and the pricing snapshot.
// Persistence is the caller's explicit next step.
type Assembler struct {
	servicePincodes []string
	now             func() time.Time
}

// NewAssembler creates an order assembler. servicePincodes is the delivery
// area allowlist orders must fall inside.
func NewAssembler(servicePincodes []string) *Assembler {
	return &Assembler{
		servicePincodes: servicePincodes,
		now:             time.Now,
	}
}

// Assemble validates the inputs and produces the order plus its line
// snapshots. The financial snapshot is copied verbatim from the pricing
// calculator, never recomputed, so bill + savings == MRP holds for every
// persisted order. existingOrderID of "" means generate one.
func (a *Assembler) Assemble(customer CustomerInfo, lines []domain.CartLine, payment PaymentInfo, existingOrderID string) (*domain.Order, []*domain.OrderLine, error) {
	if err := a.validate(customer, lines, payment); err != nil {
		return nil, nil, err
	}

	orderID := existingOrderID
	if orderID == "" {
		orderID = GenerateOrderID()
	}

	now := a.now()
	location := customer.Location
	if location == "" {
		location = "Online"
	}

	res := pricing.ComputeTotals(lines)
	genericAmount, brandedAmount := pricing.SplitAmounts(lines)
	genericCharge, brandedCharge := pricing.ServiceCharges(genericAmount, brandedAmount)

	paymentDate := ""
	if payment.Method != domain.PaymentMethodCOD {
		paymentDate = now.UTC().Format(time.RFC3339)
	}

	order := &domain.Order{
		OrderID:      orderID,
		CustomerName: customer.CustomerName,
		PatientName:  customer.PatientName,
		DoctorName:   customer.DoctorName,
		Mobile:       customer.Mobile,
		Age:          customer.Age,
		Address:      customer.Address,
		Pincode:      customer.Pincode,
		Location:     location,

		TotalMRP:               res.TotalMRP,
		TotalSavings:           res.TotalSavings,
		FlatDiscountAmount:     res.FlatDiscountAmount,
		FlatDiscountPercentage: res.FlatDiscountPercentage,
		TotalBill:              res.TotalBill,
		GenericAmount:          genericAmount,
		BrandedAmount:          brandedAmount,
		GenericServiceCharge:   genericCharge,
		BrandedServiceCharge:   brandedCharge,
		FinalCharge:            res.TotalBill + genericCharge + brandedCharge,

		BillingMRP:            res.TotalMRP,
		BillingDiscountAmount: res.TotalSavings,
		SellAmount:            res.TotalBill,
		ReturnAmount:          0,

		Status:         domain.OrderStatusProcessing,
		DeliveryStatus: "No",
		PaymentMethod:  payment.Method,
		PaymentStatus:  payment.Method.PaymentStatus(),
		PaymentDate:    paymentDate,

		OrderDate:        now,
		NumberOfProducts: len(lines),
	}

	orderLines := make([]*domain.OrderLine, len(lines))
	for i, line := range lines {
		orderLines[i] = &domain.OrderLine{
			ID:              uuid.New(),
			OrderID:         orderID,
			SKUID:           line.ProductID,
			Name:            line.Name,
			BrandName:       line.BrandName,
			Category:        line.Category,
			Quantity:        line.Quantity,
			MRP:             line.MRP,
			DiscountPercent: line.DiscountPercent,
			SellingPrice:    line.EffectiveSellingPrice(),
			IsGeneric:       !line.Category.IsBranded(),
			CustomerName:    customer.CustomerName,
			CustomerContact: customer.Mobile,
		}
	}

	return order, orderLines, nil
}

func (a *Assembler) validate(customer CustomerInfo, lines []domain.CartLine, payment PaymentInfo) error {
	fields := map[string]string{}

	if customer.CustomerName == "" {
		fields["customerName"] = "required"
	}
	if customer.PatientName == "" {
		fields["patientName"] = "required"
	}
	if customer.Mobile == "" {
		fields["mobile"] = "required"
	}
	if customer.Address == "" {
		fields["address"] = "required"
	}
	if customer.Pincode == "" {
		fields["pincode"] = "required"
	} else if !a.inServiceArea(customer.Pincode) {
		fields["pincode"] = "outside service area"
	}
	if len(lines) == 0 {
		fields["medicines"] = "at least one medicine required"
	}
	for i, line := range lines {
		key := fmt.Sprintf("medicines[%d]", i)
		if line.Name == "" {
			fields[key+".name"] = "required"
		}
		if line.Quantity < 1 || line.Quantity > 50 {
			fields[key+".quantity"] = "must be between 1 and 50"
		}
		if line.MRP < 0 {
			fields[key+".mrp"] = "must not be negative"
		}
		if line.DiscountPercent < 0 || line.DiscountPercent > 100 {
			fields[key+".discount"] = "must be between 0 and 100"
		}
	}
	if !payment.Method.IsValid() {
		fields["paymentMethod"] = "must be cod or card"
	}

	if len(fields) > 0 {
		return &errors.ErrValidation{Message: "invalid order data", Fields: fields}
	}
	return nil
}

func (a *Assembler) inServiceArea(pincode string) bool {
	for _, p := range a.servicePincodes {
		if p == pincode {
			return true
		}
	}
	return false
}

// GenerateOrderID produces an order identity in the established wire format:
// ORD-<epochMillis>-<0..999>. Collisions are possible; the service layer
// retries generation against the store before first use.
func GenerateOrderID() string {
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}

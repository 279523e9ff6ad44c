// Package pricing computes per-line and aggregate monetary figures for a
// cart: listing discounts, the branded/generic split, the tiered flat
// discount, and the totals that flow into every persisted order.
//
// All functions here are pure. Monetary math stays in double precision and
// is never rounded internally; callers round at presentation boundaries.
package pricing

import (
	"github.com/Tushar365/orderapp/internal/domain"
)

// Flat discount tiers on the branded subtotal.
const (
	flatTierLow      = 499.0
	flatTierHigh     = 1299.0
	flatPercentLow   = 2.0
	flatPercentHigh  = 4.0
	brandedChargePct = 5.0
	genericChargePct = 3.0
)

// FlatDiscountPercent returns the tiered flat discount percentage for a
// branded subtotal: 0% at or below 499, 2% up to 1299, 4% above.
func FlatDiscountPercent(brandedSubtotal float64) float64 {
	switch {
	case brandedSubtotal > flatTierHigh:
		return flatPercentHigh
	case brandedSubtotal > flatTierLow:
		return flatPercentLow
	default:
		return 0
	}
}

// ComputeTotals converts a list of cart lines into the aggregate pricing
// result. An empty cart yields the zero result.
//
// The flat discount applies only to the branded subtotal; lines with a
// missing or unrecognized category count as generic and never attract it.
// Savings are defined as item discounts plus the flat discount, which is
// identically TotalMRP - TotalBill, so TotalBill + TotalSavings == TotalMRP
// holds for every valid cart.
func ComputeTotals(lines []domain.CartLine) domain.PricingResult {
	var res domain.PricingResult

	for _, line := range lines {
		qty := float64(line.Quantity)
		selling := line.EffectiveSellingPrice()

		lineTotal := selling * qty
		res.TotalSellingBeforeFlatDiscount += lineTotal
		res.TotalMRP += line.MRP * qty

		if line.Category.IsBranded() {
			res.BrandedSubtotal += lineTotal
		}
	}

	res.FlatDiscountPercentage = FlatDiscountPercent(res.BrandedSubtotal)
	res.FlatDiscountAmount = res.BrandedSubtotal * res.FlatDiscountPercentage / 100
	res.TotalBill = res.TotalSellingBeforeFlatDiscount - res.FlatDiscountAmount
	res.TotalSavings = (res.TotalMRP - res.TotalSellingBeforeFlatDiscount) + res.FlatDiscountAmount

	return res
}

// SplitAmounts sums selling totals into the generic and branded buckets used
// for service charges. The split uses the same category normalization as the
// flat discount.
func SplitAmounts(lines []domain.CartLine) (generic, branded float64) {
	for _, line := range lines {
		lineTotal := line.EffectiveSellingPrice() * float64(line.Quantity)
		if line.Category.IsBranded() {
			branded += lineTotal
		} else {
			generic += lineTotal
		}
	}
	return generic, branded
}

// ServiceCharges returns the handling charges on each bucket: 3% on the
// generic amount, 5% on the branded amount.
func ServiceCharges(generic, branded float64) (genericCharge, brandedCharge float64) {
	return generic * genericChargePct / 100, branded * brandedChargePct / 100
}

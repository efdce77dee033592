// internal/domain/cart/pricing.go
package cart

import "github.com/shopspring/decimal"

// PricingPolicy holds the store-wide tax and shipping rules
type PricingPolicy struct {
	TaxRate  decimal.Decimal // Fraction, 0.18 for 18% GST
	Shipping decimal.Decimal // Flat shipping per order
}

// DefaultPricingPolicy is 18% GST and free shipping
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:  decimal.New(18, -2),
		Shipping: decimal.Zero,
	}
}

// Summary is the priced order summary shown before checkout
type Summary struct {
	ItemCount     int             `json:"item_count"`     // Number of distinct lines
	TotalQuantity int             `json:"total_quantity"` // Sum of all quantities
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

// Subtotal sums UnitPrice * Quantity over lines
func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// DeriveSummary prices lines under policy. Tax applies to the subtotal only and is
// rounded to two decimal places; Total is always Subtotal + Shipping + Tax.
func DeriveSummary(lines []Line, policy PricingPolicy) Summary {
	summary := Summary{
		ItemCount: len(lines),
		Subtotal:  Subtotal(lines),
		Shipping:  policy.Shipping,
		TaxRate:   policy.TaxRate,
	}

	for _, line := range lines {
		summary.TotalQuantity += line.Quantity
	}

	summary.Tax = summary.Subtotal.Mul(policy.TaxRate).Round(2)
	summary.Total = summary.Subtotal.Add(summary.Shipping).Add(summary.Tax)

	return summary
}

package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveSummary(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		policy   PricingPolicy
		subtotal string
		tax      string
		shipping string
		total    string
	}{
		{
			name:     "default GST on 1000",
			lines:    []Line{line("v1", 2, 500)},
			policy:   DefaultPricingPolicy(),
			subtotal: "1000",
			tax:      "180",
			shipping: "0",
			total:    "1180",
		},
		{
			name:     "empty cart",
			lines:    nil,
			policy:   DefaultPricingPolicy(),
			subtotal: "0",
			tax:      "0",
			shipping: "0",
			total:    "0",
		},
		{
			name: "shipping is not taxed",
			lines: []Line{
				line("v1", 1, 100),
				line("v2", 3, 50),
			},
			policy: PricingPolicy{
				TaxRate:  decimal.RequireFromString("0.10"),
				Shipping: decimal.NewFromInt(40),
			},
			subtotal: "250",
			tax:      "25",
			shipping: "40",
			total:    "315",
		},
		{
			name: "tax rounds to two places",
			lines: []Line{
				{VariantID: "v1", ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("19.99")},
			},
			policy:   DefaultPricingPolicy(),
			subtotal: "19.99",
			tax:      "3.60",
			shipping: "0",
			total:    "23.59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := DeriveSummary(tt.lines, tt.policy)

			assertDecimal(t, tt.subtotal, summary.Subtotal)
			assertDecimal(t, tt.tax, summary.Tax)
			assertDecimal(t, tt.shipping, summary.Shipping)
			assertDecimal(t, tt.total, summary.Total)
			assert.True(t, summary.Total.Equal(summary.Subtotal.Add(summary.Shipping).Add(summary.Tax)))
			assert.Equal(t, len(tt.lines), summary.ItemCount)
		})
	}
}

func TestDeriveSummaryIsDeterministic(t *testing.T) {
	lines := []Line{line("a", 3, 333), line("b", 1, 7)}
	policy := DefaultPricingPolicy()

	first := DeriveSummary(lines, policy)
	for i := 0; i < 5; i++ {
		next := DeriveSummary(lines, policy)
		assert.True(t, first.Total.Equal(next.Total))
		assert.True(t, first.Tax.Equal(next.Tax))
		assert.Equal(t, first.TotalQuantity, next.TotalQuantity)
	}
	assert.Equal(t, 4, first.TotalQuantity)
}

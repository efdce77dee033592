// internal/domain/cart/stock.go
package cart

import (
	"context"
	"errors"
)

// ErrStockNotFound is returned by a StockLookup that does not know the variant
var ErrStockNotFound = errors.New("stock record not found")

// StockLookup reports the live available quantity of a variant
type StockLookup interface {
	AvailableQuantity(ctx context.Context, variantID string) (int, error)
}

// StockLookupFunc adapts a function to StockLookup
type StockLookupFunc func(ctx context.Context, variantID string) (int, error)

// AvailableQuantity calls f
func (f StockLookupFunc) AvailableQuantity(ctx context.Context, variantID string) (int, error) {
	return f(ctx, variantID)
}

// Lookup outcomes reported to an Observer
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeCanceled    = "canceled"
)

// Observer receives validation telemetry
type Observer interface {
	LookupCompleted(outcome string)
	ValidationDiscarded()
}

type nopObserver struct{}

func (nopObserver) LookupCompleted(string) {}
func (nopObserver) ValidationDiscarded()   {}

// internal/domain/cart/entity.go
package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line
const MaxLineQuantity = 999

var (
	// ErrInvalidLine is returned when a line has no id, a quantity outside 1..MaxLineQuantity
	// or a negative price
	ErrInvalidLine = errors.New("invalid cart line")
	// ErrLineNotFound is returned when updating a variant that is not in the cart
	ErrLineNotFound = errors.New("item not found in cart")
	// ErrStaleValidation is returned when the cart changed while a validation batch was in flight
	ErrStaleValidation = errors.New("cart changed during validation")
)

// Line is one cart entry, keyed by VariantID. Products without variants use their
// product id as the variant id.
type Line struct {
	VariantID    string          `json:"variantId"`
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"` // Price captured when the item was added
	Title        string          `json:"title"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	VariantLabel string          `json:"variantLabel,omitempty"`
}

// LineTotal returns UnitPrice * Quantity
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) valid() bool {
	return l.VariantID != "" && l.ProductID != "" && l.Quantity > 0 && l.Quantity <= MaxLineQuantity && !l.UnitPrice.IsNegative()
}

// Key returns the storage key of an owner's cart
func Key(owner string) string {
	return "cart:" + owner
}

// LineValidity maps a variant id to whether live stock covers the requested quantity
type LineValidity map[string]bool

// State is the cart session state
type State string

const (
	StateEmpty      State = "empty"
	StatePopulated  State = "populated"
	StateValidating State = "validating"
	StateValid      State = "valid"
	StateInvalid    State = "invalid"
)

// CheckoutEligible reports whether lines is non-empty and every line is marked valid
func CheckoutEligible(lines []Line, validity LineValidity) bool {
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		if !validity[line.VariantID] {
			return false
		}
	}
	return true
}

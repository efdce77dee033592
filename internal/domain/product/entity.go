// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a storefront catalog entry
type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Collection  string          `gorm:"size:100;index" json:"collection"`
	Category    string          `gorm:"size:100;index" json:"category"`
	Subcategory string          `gorm:"size:100" json:"subcategory"`
	Type        string          `gorm:"size:100" json:"type"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int             `gorm:"default:0" json:"stock"` // Used when the product has no variants
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	IsFeatured  bool            `gorm:"default:false" json:"is_featured"`
	Popularity  int             `gorm:"default:0;index" json:"popularity"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// ProductVariant represents a purchasable size/color combination
type ProductVariant struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID string          `gorm:"type:uuid;not null;index" json:"product_id"`
	Label     string          `gorm:"not null;size:255" json:"label"` // e.g. "Black / M"
	Color     string          `gorm:"size:50;index" json:"color"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"price"` // Zero means the product price
	Stock     int             `gorm:"default:0" json:"stock"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string        { return "products" }
func (ProductVariant) TableName() string { return "product_variants" }

// BeforeCreate assigns a uuid when none was set
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a uuid when none was set
func (v *ProductVariant) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Business methods for Product
func (p *Product) IsInStock() bool {
	if len(p.Variants) == 0 {
		return p.Stock > 0
	}
	for _, v := range p.Variants {
		if v.IsActive && v.Stock > 0 {
			return true
		}
	}
	return false
}

// EffectivePrice is the variant price, falling back to the product price
func (v *ProductVariant) EffectivePrice(p *Product) decimal.Decimal {
	if v.Price.IsPositive() {
		return v.Price
	}
	return p.Price
}

// FindVariant returns the active variant with the given id
func (p *Product) FindVariant(id string) (*ProductVariant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id && p.Variants[i].IsActive {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

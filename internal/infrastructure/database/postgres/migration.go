// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// Models lists the tables owned by this service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&product.Product{},
		&product.ProductVariant{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// Indexes backs the catalog filters; LOWER() indexes match the case-insensitive IN filters
var Indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_products_active_created ON products(is_active, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
	"CREATE INDEX IF NOT EXISTS idx_products_popularity ON products(popularity DESC)",
	"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_products_collection_lower ON products(LOWER(collection))",
	"CREATE INDEX IF NOT EXISTS idx_products_category_lower ON products(LOWER(category))",
	"CREATE INDEX IF NOT EXISTS idx_products_type_lower ON products(LOWER(type))",
	"CREATE INDEX IF NOT EXISTS idx_products_subcategory_lower ON products(LOWER(subcategory))",
	"CREATE INDEX IF NOT EXISTS idx_product_variants_product_active ON product_variants(product_id, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_product_variants_color_lower ON product_variants(LOWER(color))",
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	successCount := 0
	failCount := 0

	for _, indexSQL := range Indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts a small demo catalog in development
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// SeedProducts is the development catalog
func SeedProducts() []product.Product {
	return []product.Product{
		{
			Name:        "Linen Relaxed Shirt",
			Slug:        "linen-relaxed-shirt",
			Description: "Breathable linen shirt with a relaxed fit.",
			Collection:  "Summer",
			Category:    "Men",
			Subcategory: "Shirts",
			Type:        "Apparel",
			Price:       decimal.NewFromInt(1499),
			IsActive:    true,
			IsFeatured:  true,
			Popularity:  120,
			Variants: []product.ProductVariant{
				{Label: "Black / M", Color: "Black", Stock: 12, IsActive: true},
				{Label: "White / L", Color: "White", Stock: 4, IsActive: true},
				{Label: "Olive / S", Color: "Olive", Price: decimal.NewFromInt(1599), Stock: 0, IsActive: true},
			},
		},
		{
			Name:        "Everyday Canvas Tote",
			Slug:        "everyday-canvas-tote",
			Description: "Heavy canvas tote bag.",
			Collection:  "Essentials",
			Category:    "Accessories",
			Subcategory: "Bags",
			Type:        "Accessory",
			Price:       decimal.RequireFromString("649.50"),
			Stock:       40,
			IsActive:    true,
			Popularity:  75,
		},
		{
			Name:        "Wool Blend Overcoat",
			Slug:        "wool-blend-overcoat",
			Description: "Tailored overcoat in a warm wool blend.",
			Collection:  "Winter",
			Category:    "Women",
			Subcategory: "Outerwear",
			Type:        "Apparel",
			Price:       decimal.NewFromInt(7999),
			IsActive:    true,
			IsFeatured:  true,
			Popularity:  60,
			Variants: []product.ProductVariant{
				{Label: "Camel / M", Color: "Camel", Stock: 3, IsActive: true},
				{Label: "Black / L", Color: "Black", Stock: 1, IsActive: true},
			},
		},
	}
}

func (m *Migration) seedProducts() error {
	for _, prod := range SeedProducts() {
		var existing product.Product
		result := m.db.Where("slug = ?", prod.Slug).First(&existing)
		switch {
		case result.Error == nil:
			log.Printf("⏭️ Product already exists: %s", prod.Name)
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			if err := m.db.Create(&prod).Error; err != nil {
				log.Printf("⚠️ Failed to create product %s: %v", prod.Slug, err)
			} else {
				log.Printf("✅ Created product: %s", prod.Name)
			}
		default:
			return result.Error
		}
	}
	return nil
}

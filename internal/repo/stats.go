// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides aggregate queries used by analytics and
// by conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
)

// SupplierStock is the total quantity held per supplier.
type SupplierStock struct {
	SupplierID    string `json:"supplierId"`
	SupplierName  string `json:"supplierName"`
	TotalQuantity int64  `json:"totalQuantity"`
}

// ItemsStats returns the number of inventory items and the greatest
// UpdatedAt among them. When there are no items maxUpdatedAt is nil.
func ItemsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.InventoryItem{}).Session(&gorm.Session{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// CountSuppliers returns the number of suppliers.
func CountSuppliers(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Supplier{}).Count(&n).Error
	return n, err
}

// StockPerSupplier sums item quantities per supplier, largest first.
// Suppliers without items report zero.
func StockPerSupplier(ctx context.Context, db *gorm.DB) ([]SupplierStock, error) {
	var out []SupplierStock
	err := db.WithContext(ctx).
		Table("suppliers AS s").
		Select("s.id AS supplier_id, s.name AS supplier_name, COALESCE(SUM(i.quantity), 0) AS total_quantity").
		Joins("LEFT JOIN inventory_items AS i ON i.supplier_id = s.id").
		Group("s.id, s.name").
		Order("total_quantity desc, s.name asc").
		Scan(&out).Error
	return out, err
}

// LowStockItems returns items whose quantity is below their minimum, or
// below defaultMin when the item has no positive minimum. Lowest stock first.
func LowStockItems(ctx context.Context, db *gorm.DB, defaultMin int) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	err := db.WithContext(ctx).
		Where("quantity < CASE WHEN minimum_quantity > 0 THEN minimum_quantity ELSE ? END", defaultMin).
		Order("quantity asc, name asc").
		Find(&out).Error
	return out, err
}

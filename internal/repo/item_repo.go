package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
)

// CreateItem inserts it, assigning a UUID when ID is empty and starting the
// version at 1.
func CreateItem(ctx context.Context, db *gorm.DB, it *domain.InventoryItem) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	it.Version = 1
	it.CreatedAt, it.UpdatedAt = now, now
	return db.WithContext(ctx).Omit("Supplier").Create(it).Error
}

// ListItems returns all items ordered by name.
func ListItems(ctx context.Context, db *gorm.DB) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// GetItem fetches one item by id.
func GetItem(ctx context.Context, db *gorm.DB, id string) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	if err := db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// FindItemByName returns the item whose name equals name ignoring case and
// surrounding spaces, skipping excludeID when set.
func FindItemByName(ctx context.Context, db *gorm.DB, name, excludeID string) (*domain.InventoryItem, error) {
	q := db.WithContext(ctx).Where("LOWER(TRIM(name)) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var it domain.InventoryItem
	if err := q.First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// SearchItems returns one page of items whose name contains name ignoring
// case, sorted by price ascending then name, plus the total match count.
func SearchItems(ctx context.Context, db *gorm.DB, name string, offset, limit int) ([]domain.InventoryItem, int64, error) {
	q := db.WithContext(ctx).Model(&domain.InventoryItem{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(name)).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.InventoryItem
	err := q.Order("price asc").Order("name asc").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// UpdateItem writes the mutable fields of it if the stored version equals
// expectedVersion. See UpdateSupplier for the error contract.
func UpdateItem(ctx context.Context, db *gorm.DB, it *domain.InventoryItem, expectedVersion int64) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("id = ? AND version = ?", it.ID, expectedVersion).
		Updates(map[string]any{
			"name":             it.Name,
			"quantity":         it.Quantity,
			"price":            it.Price,
			"supplier_id":      it.SupplierID,
			"minimum_quantity": it.MinimumQuantity,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrStale(ctx, db, &domain.InventoryItem{}, it.ID)
	}
	it.Version = expectedVersion + 1
	it.UpdatedAt = now
	return nil
}

// DeleteItem removes an item. It returns ErrNotFound when nothing was deleted.
func DeleteItem(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

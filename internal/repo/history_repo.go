package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
)

// HistoryFilter narrows SearchHistory. Zero values are ignored.
type HistoryFilter struct {
	Start      *time.Time
	End        *time.Time
	ItemName   string // case-insensitive substring of the current item name
	SupplierID string
}

// CreateHistory appends a stock history row. CreatedAt defaults to now.
func CreateHistory(ctx context.Context, db *gorm.DB, h *domain.StockHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(h).Error
}

// ListHistory returns every row, newest first.
func ListHistory(ctx context.Context, db *gorm.DB) ([]domain.StockHistory, error) {
	var out []domain.StockHistory
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// ListHistoryByItem returns the rows of one item, newest first.
func ListHistoryByItem(ctx context.Context, db *gorm.DB, itemID string) ([]domain.StockHistory, error) {
	var out []domain.StockHistory
	err := db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at desc").Find(&out).Error
	return out, err
}

// ListHistoryByReason returns the rows with reason, newest first.
func ListHistoryByReason(ctx context.Context, db *gorm.DB, reason domain.StockChangeReason) ([]domain.StockHistory, error) {
	var out []domain.StockHistory
	err := db.WithContext(ctx).Where("reason = ?", reason).Order("created_at desc").Find(&out).Error
	return out, err
}

// SearchHistory returns one page of rows matching f, newest first, plus the
// total match count.
func SearchHistory(ctx context.Context, db *gorm.DB, f HistoryFilter, offset, limit int) ([]domain.StockHistory, int64, error) {
	q := db.WithContext(ctx).Model(&domain.StockHistory{})
	if f.Start != nil {
		q = q.Where("created_at >= ?", f.Start.UTC())
	}
	if f.End != nil {
		q = q.Where("created_at <= ?", f.End.UTC())
	}
	if f.SupplierID != "" {
		q = q.Where("supplier_id = ?", f.SupplierID)
	}
	if f.ItemName != "" {
		q = q.Where(`item_id IN (SELECT id FROM inventory_items WHERE LOWER(name) LIKE ? ESCAPE '\')`, likePattern(f.ItemName))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.StockHistory
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

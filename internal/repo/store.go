package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
)

// Store adapts the repository free functions to the method sets the service
// layer depends on. It is stateless; the *gorm.DB (or transaction) is passed
// on every call.
type Store struct{}

// CreateSupplier proxies CreateSupplier.
func (Store) CreateSupplier(ctx context.Context, db *gorm.DB, s *domain.Supplier) error {
	return CreateSupplier(ctx, db, s)
}

// ListSuppliers proxies ListSuppliers.
func (Store) ListSuppliers(ctx context.Context, db *gorm.DB) ([]domain.Supplier, error) {
	return ListSuppliers(ctx, db)
}

// GetSupplier proxies GetSupplier.
func (Store) GetSupplier(ctx context.Context, db *gorm.DB, id string) (*domain.Supplier, error) {
	return GetSupplier(ctx, db, id)
}

// SearchSuppliers proxies SearchSuppliers.
func (Store) SearchSuppliers(ctx context.Context, db *gorm.DB, name string) ([]domain.Supplier, error) {
	return SearchSuppliers(ctx, db, name)
}

// FindSupplierByName proxies FindSupplierByName.
func (Store) FindSupplierByName(ctx context.Context, db *gorm.DB, name, excludeID string) (*domain.Supplier, error) {
	return FindSupplierByName(ctx, db, name, excludeID)
}

// SupplierExists proxies SupplierExists.
func (Store) SupplierExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return SupplierExists(ctx, db, id)
}

// UpdateSupplier proxies UpdateSupplier.
func (Store) UpdateSupplier(ctx context.Context, db *gorm.DB, s *domain.Supplier, expectedVersion int64) error {
	return UpdateSupplier(ctx, db, s, expectedVersion)
}

// DeleteSupplier proxies DeleteSupplier.
func (Store) DeleteSupplier(ctx context.Context, db *gorm.DB, id string) error {
	return DeleteSupplier(ctx, db, id)
}

// CountItemsBySupplier proxies CountItemsBySupplier.
func (Store) CountItemsBySupplier(ctx context.Context, db *gorm.DB, supplierID string) (int64, error) {
	return CountItemsBySupplier(ctx, db, supplierID)
}

// CreateItem proxies CreateItem.
func (Store) CreateItem(ctx context.Context, db *gorm.DB, it *domain.InventoryItem) error {
	return CreateItem(ctx, db, it)
}

// ListItems proxies ListItems.
func (Store) ListItems(ctx context.Context, db *gorm.DB) ([]domain.InventoryItem, error) {
	return ListItems(ctx, db)
}

// GetItem proxies GetItem.
func (Store) GetItem(ctx context.Context, db *gorm.DB, id string) (*domain.InventoryItem, error) {
	return GetItem(ctx, db, id)
}

// FindItemByName proxies FindItemByName.
func (Store) FindItemByName(ctx context.Context, db *gorm.DB, name, excludeID string) (*domain.InventoryItem, error) {
	return FindItemByName(ctx, db, name, excludeID)
}

// SearchItems proxies SearchItems.
func (Store) SearchItems(ctx context.Context, db *gorm.DB, name string, offset, limit int) ([]domain.InventoryItem, int64, error) {
	return SearchItems(ctx, db, name, offset, limit)
}

// UpdateItem proxies UpdateItem.
func (Store) UpdateItem(ctx context.Context, db *gorm.DB, it *domain.InventoryItem, expectedVersion int64) error {
	return UpdateItem(ctx, db, it, expectedVersion)
}

// DeleteItem proxies DeleteItem.
func (Store) DeleteItem(ctx context.Context, db *gorm.DB, id string) error {
	return DeleteItem(ctx, db, id)
}

// CreateHistory proxies CreateHistory.
func (Store) CreateHistory(ctx context.Context, db *gorm.DB, h *domain.StockHistory) error {
	return CreateHistory(ctx, db, h)
}

// ListHistory proxies ListHistory.
func (Store) ListHistory(ctx context.Context, db *gorm.DB) ([]domain.StockHistory, error) {
	return ListHistory(ctx, db)
}

// ListHistoryByItem proxies ListHistoryByItem.
func (Store) ListHistoryByItem(ctx context.Context, db *gorm.DB, itemID string) ([]domain.StockHistory, error) {
	return ListHistoryByItem(ctx, db, itemID)
}

// ListHistoryByReason proxies ListHistoryByReason.
func (Store) ListHistoryByReason(ctx context.Context, db *gorm.DB, reason domain.StockChangeReason) ([]domain.StockHistory, error) {
	return ListHistoryByReason(ctx, db, reason)
}

// SearchHistory proxies SearchHistory.
func (Store) SearchHistory(ctx context.Context, db *gorm.DB, f HistoryFilter, offset, limit int) ([]domain.StockHistory, int64, error) {
	return SearchHistory(ctx, db, f, offset, limit)
}

// CountSuppliers proxies CountSuppliers.
func (Store) CountSuppliers(ctx context.Context, db *gorm.DB) (int64, error) {
	return CountSuppliers(ctx, db)
}

// StockPerSupplier proxies StockPerSupplier.
func (Store) StockPerSupplier(ctx context.Context, db *gorm.DB) ([]SupplierStock, error) {
	return StockPerSupplier(ctx, db)
}

// LowStockItems proxies LowStockItems.
func (Store) LowStockItems(ctx context.Context, db *gorm.DB, defaultMin int) ([]domain.InventoryItem, error) {
	return LowStockItems(ctx, db, defaultMin)
}

// GetIdempotency proxies GetIdempotency.
func (Store) GetIdempotency(ctx context.Context, db *gorm.DB, principal, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, db, principal, scope, key, now)
}

// CreateIdempotency proxies CreateIdempotency.
func (Store) CreateIdempotency(ctx context.Context, db *gorm.DB, principal, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return CreateIdempotency(ctx, db, principal, scope, key, resourceID, status, ttl)
}

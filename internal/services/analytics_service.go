package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/repo"
)

// StatsRepo defines the aggregate queries required by AnalyticsService.
type StatsRepo interface {
	CountSuppliers(ctx context.Context, db *gorm.DB) (int64, error)
	ListItems(ctx context.Context, db *gorm.DB) ([]domain.InventoryItem, error)
	StockPerSupplier(ctx context.Context, db *gorm.DB) ([]repo.SupplierStock, error)
	LowStockItems(ctx context.Context, db *gorm.DB, defaultMin int) ([]domain.InventoryItem, error)
}

// LowStockItem is an item whose quantity is below its threshold.
type LowStockItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	MinimumQuantity int    `json:"minimumQuantity"`
	SupplierID      string `json:"supplierId"`
}

// Summary is the dashboard overview.
type Summary struct {
	SupplierCount   int64           `json:"supplierCount"`
	ItemCount       int64           `json:"itemCount"`
	TotalUnits      int64           `json:"totalUnits"`
	TotalStockValue decimal.Decimal `json:"totalStockValue" swaggertype:"string" example:"1234.50"`
	LowStockCount   int             `json:"lowStockCount"`
	LowStockItems   []LowStockItem  `json:"lowStockItems"`
}

// AnalyticsService computes read-only inventory aggregates.
type AnalyticsService struct {
	DB   *gorm.DB
	Repo StatsRepo

	// LowStockDefaultMin applies to items stored without a positive minimum.
	LowStockDefaultMin int
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(db *gorm.DB, r StatsRepo, lowStockDefaultMin int) *AnalyticsService {
	return &AnalyticsService{DB: db, Repo: r, LowStockDefaultMin: lowStockDefaultMin}
}

// Summary returns counts, total units and total stock value along with the
// current low-stock items.
func (s *AnalyticsService) Summary(ctx context.Context) (*Summary, error) {
	suppliers, err := s.Repo.CountSuppliers(ctx, s.DB)
	if err != nil {
		return nil, errors.Wrap(err, "count suppliers")
	}
	items, err := s.Repo.ListItems(ctx, s.DB)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	low, err := s.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	units := lo.SumBy(items, func(it domain.InventoryItem) int64 { return int64(it.Quantity) })
	value := lo.Reduce(items, func(acc decimal.Decimal, it domain.InventoryItem, _ int) decimal.Decimal {
		return acc.Add(it.StockValue())
	}, decimal.Zero)

	return &Summary{
		SupplierCount:   suppliers,
		ItemCount:       int64(len(items)),
		TotalUnits:      units,
		TotalStockValue: value.Round(2),
		LowStockCount:   len(low),
		LowStockItems:   low,
	}, nil
}

// StockPerSupplier returns total quantity per supplier, largest first.
func (s *AnalyticsService) StockPerSupplier(ctx context.Context) ([]repo.SupplierStock, error) {
	out, err := s.Repo.StockPerSupplier(ctx, s.DB)
	if err != nil {
		return nil, errors.Wrap(err, "stock per supplier")
	}
	return lo.Ternary(out == nil, []repo.SupplierStock{}, out), nil
}

// LowStock returns items whose quantity is below their minimum.
func (s *AnalyticsService) LowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := s.Repo.LowStockItems(ctx, s.DB, s.LowStockDefaultMin)
	if err != nil {
		return nil, errors.Wrap(err, "low stock items")
	}
	return lo.Map(rows, func(it domain.InventoryItem, _ int) LowStockItem {
		return LowStockItem{
			ID:              it.ID,
			Name:            it.Name,
			Quantity:        it.Quantity,
			MinimumQuantity: it.MinimumQuantity,
			SupplierID:      it.SupplierID,
		}
	}), nil
}

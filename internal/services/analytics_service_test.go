package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/repo"
)

func TestAnalyticsService_Summary(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	seed := []ItemInput{
		{Name: "Widget", Quantity: 3, Price: dec("2.50"), MinimumQuantity: 5},
		{Name: "Bolt", Quantity: 100, Price: dec("0.10")},
	}
	for _, in := range seed {
		in.SupplierID = f.supplier.ID
		if _, err := f.svc.Create(ctx, "a", in); err != nil {
			t.Fatalf("seed %s: %v", in.Name, err)
		}
	}

	svc := NewAnalyticsService(f.db, repo.Store{}, 7)
	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.SupplierCount != 1 || sum.ItemCount != 2 || sum.TotalUnits != 103 {
		t.Fatalf("counts = %+v", sum)
	}
	if sum.TotalStockValue.String() != "17.5" {
		t.Fatalf("total value = %s; want 17.5", sum.TotalStockValue)
	}
	if sum.LowStockCount != 1 || sum.LowStockItems[0].Name != "Widget" {
		t.Fatalf("low stock = %+v", sum.LowStockItems)
	}

	b, _ := json.Marshal(sum)
	if !strings.Contains(string(b), `"totalStockValue":"17.5"`) {
		t.Fatalf("total value should serialize as a string: %s", b)
	}

	per, err := svc.StockPerSupplier(ctx)
	if err != nil || len(per) != 1 || per[0].TotalQuantity != 103 {
		t.Fatalf("StockPerSupplier = %+v, %v", per, err)
	}
}

type emptyStats struct{ repo.Store }

func (emptyStats) StockPerSupplier(ctx context.Context, db *gorm.DB) ([]repo.SupplierStock, error) {
	return nil, nil
}

func (emptyStats) LowStockItems(ctx context.Context, db *gorm.DB, defaultMin int) ([]domain.InventoryItem, error) {
	return nil, nil
}

type brokenStats struct{ repo.Store }

func (brokenStats) CountSuppliers(ctx context.Context, db *gorm.DB) (int64, error) {
	return 0, errors.New("boom")
}

func TestAnalyticsService_EmptyAndErrors(t *testing.T) {
	svc := NewAnalyticsService(nil, emptyStats{}, 10)
	per, err := svc.StockPerSupplier(context.Background())
	if err != nil || per == nil {
		t.Fatalf("StockPerSupplier = %v, %v; want empty slice", per, err)
	}
	low, err := svc.LowStock(context.Background())
	if err != nil || low == nil || len(low) != 0 {
		t.Fatalf("LowStock = %v, %v; want empty slice", low, err)
	}

	svc = NewAnalyticsService(nil, brokenStats{}, 10)
	if _, err := svc.Summary(context.Background()); err == nil || !strings.Contains(err.Error(), "count suppliers") {
		t.Fatalf("Summary err = %v", err)
	}
}

package repo

import (
	"context"
	"testing"

	"github.com/smartsupply/inventory-service/internal/domain"
)

func TestItemsStats(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	count, maxTS, err := ItemsStats(ctx, db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty: count=%d max=%v err=%v", count, maxTS, err)
	}

	s := seedSupplier(t, db, "Acme")
	seedItem(t, db, s.ID, "A", 1, "1")
	last := seedItem(t, db, s.ID, "B", 1, "1")
	last.Quantity = 9
	if err := UpdateItem(ctx, db, last, 1); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	count, maxTS, err = ItemsStats(ctx, db)
	if err != nil || count != 2 || maxTS == nil {
		t.Fatalf("count=%d max=%v err=%v", count, maxTS, err)
	}
	if !maxTS.Equal(last.UpdatedAt) {
		t.Fatalf("max updated_at = %v; want %v", maxTS, last.UpdatedAt)
	}
}

func TestItemsStats_CountError_NoTable(t *testing.T) {
	db := newRepoDB(t)
	if err := db.Migrator().DropTable(&domain.InventoryItem{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, _, err := ItemsStats(context.Background(), db); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestStockPerSupplier_AndCounts(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	acme := seedSupplier(t, db, "Acme")
	beta := seedSupplier(t, db, "Beta")
	seedSupplier(t, db, "Empty")
	seedItem(t, db, acme.ID, "A1", 3, "1")
	seedItem(t, db, acme.ID, "A2", 4, "1")
	seedItem(t, db, beta.ID, "B1", 20, "1")

	n, err := CountSuppliers(ctx, db)
	if err != nil || n != 3 {
		t.Fatalf("CountSuppliers = %d, %v", n, err)
	}

	rows, err := StockPerSupplier(ctx, db)
	if err != nil || len(rows) != 3 {
		t.Fatalf("StockPerSupplier = %+v, %v", rows, err)
	}
	want := []SupplierStock{
		{beta.ID, "Beta", 20},
		{acme.ID, "Acme", 7},
	}
	for i, w := range want {
		if rows[i] != w {
			t.Fatalf("row %d = %+v; want %+v", i, rows[i], w)
		}
	}
	if rows[2].SupplierName != "Empty" || rows[2].TotalQuantity != 0 {
		t.Fatalf("empty supplier row = %+v", rows[2])
	}
}

func TestLowStockItems(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	s := seedSupplier(t, db, "Acme")

	// seedItem uses MinimumQuantity 5
	seedItem(t, db, s.ID, "Low", 2, "1")
	seedItem(t, db, s.ID, "AtMin", 5, "1")
	noMin := seedItem(t, db, s.ID, "NoMin", 8, "1")
	noMin.MinimumQuantity = 0
	if err := UpdateItem(ctx, db, noMin, 1); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	items, err := LowStockItems(ctx, db, 10)
	if err != nil {
		t.Fatalf("LowStockItems: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Low" || items[1].Name != "NoMin" {
		names := make([]string, 0, len(items))
		for _, it := range items {
			names = append(names, it.Name)
		}
		t.Fatalf("low stock = %v", names)
	}
}

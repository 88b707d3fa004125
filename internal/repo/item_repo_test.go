package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
)

func seedItem(t *testing.T, db *gorm.DB, supplierID, name string, qty int, price string) *domain.InventoryItem {
	t.Helper()
	it := &domain.InventoryItem{
		Name: name, Quantity: qty, Price: decimal.RequireFromString(price),
		SupplierID: supplierID, MinimumQuantity: 5, CreatedBy: "admin@example.com",
	}
	if err := CreateItem(context.Background(), db, it); err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return it
}

func TestCreateItem_AndGet(t *testing.T) {
	db := newRepoDB(t)
	s := seedSupplier(t, db, "Acme")
	it := seedItem(t, db, s.ID, "Widget", 4, "2.50")

	got, err := GetItem(context.Background(), db, it.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Name != "Widget" || got.Quantity != 4 || !got.Price.Equal(decimal.RequireFromString("2.5")) || got.Version != 1 {
		t.Fatalf("unexpected row: %+v", got)
	}
	if _, err := GetItem(context.Background(), db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateItem_UnknownSupplier(t *testing.T) {
	db := newRepoDB(t)
	it := &domain.InventoryItem{Name: "Orphan", Quantity: 1, Price: decimal.NewFromInt(1), SupplierID: "missing", CreatedBy: "x"}
	err := CreateItem(context.Background(), db, it)
	if err == nil {
		t.Fatalf("expected FK violation")
	}
	if !errors.Is(err, gorm.ErrForeignKeyViolated) && !containsFold(err.Error(), "FOREIGN KEY constraint failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchItems_SortedByPriceAndPaged(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	s := seedSupplier(t, db, "Acme")
	seedItem(t, db, s.ID, "Blue Widget", 1, "9.99")
	seedItem(t, db, s.ID, "Red Widget", 1, "1.50")
	seedItem(t, db, s.ID, "Green widget", 1, "12")
	seedItem(t, db, s.ID, "Gadget", 1, "0.10")

	page, total, err := SearchItems(ctx, db, "WIDGET", 0, 2)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("total=%d len=%d", total, len(page))
	}
	if page[0].Name != "Red Widget" || page[1].Name != "Blue Widget" {
		t.Fatalf("unexpected order: %s, %s", page[0].Name, page[1].Name)
	}

	page, _, _ = SearchItems(ctx, db, "widget", 2, 2)
	if len(page) != 1 || page[0].Name != "Green widget" {
		t.Fatalf("second page = %+v", page)
	}
}

func TestFindItemByName(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	s := seedSupplier(t, db, "Acme")
	it := seedItem(t, db, s.ID, "Widget", 1, "1")

	if got, err := FindItemByName(ctx, db, " WIDGET", ""); err != nil || got.ID != it.ID {
		t.Fatalf("FindItemByName = %+v, %v", got, err)
	}
	if _, err := FindItemByName(ctx, db, "widget", it.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when excluding self, got %v", err)
	}
}

func TestUpdateItem_OptimisticLock(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	s := seedSupplier(t, db, "Acme")
	it := seedItem(t, db, s.ID, "Widget", 1, "1")

	it.Quantity = 7
	it.Price = decimal.RequireFromString("3.25")
	if err := UpdateItem(ctx, db, it, 1); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, _ := GetItem(ctx, db, it.ID)
	if got.Quantity != 7 || !got.Price.Equal(it.Price) || got.Version != 2 || it.Version != 2 {
		t.Fatalf("stored row = %+v (local version %d)", got, it.Version)
	}

	if err := UpdateItem(ctx, db, it, 1); !errors.Is(err, ErrStaleVersion) {
		t.Fatalf("expected ErrStaleVersion, got %v", err)
	}

	// a negative quantity trips the CHECK constraint
	it.Quantity = -1
	if err := UpdateItem(ctx, db, it, 2); err == nil {
		t.Fatalf("expected CHECK violation")
	}
}

func TestDeleteItem(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	s := seedSupplier(t, db, "Acme")
	it := seedItem(t, db, s.ID, "Widget", 1, "1")

	if err := DeleteItem(ctx, db, it.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := DeleteItem(ctx, db, it.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	items, _ := ListItems(ctx, db)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

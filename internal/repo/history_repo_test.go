package repo

import (
	"context"
	"testing"
	"time"

	"github.com/smartsupply/inventory-service/internal/domain"
)

func TestHistory_CreateListAndFilter(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	acme := seedSupplier(t, db, "Acme")
	other := seedSupplier(t, db, "Other")
	widget := seedItem(t, db, acme.ID, "Widget", 10, "1")
	bolt := seedItem(t, db, other.ID, "Bolt", 10, "1")

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	rows := []domain.StockHistory{
		{ItemID: widget.ID, SupplierID: acme.ID, Change: 10, Reason: domain.ReasonInitialStock, CreatedBy: "a", CreatedAt: base},
		{ItemID: widget.ID, SupplierID: acme.ID, Change: -2, Reason: domain.ReasonSold, CreatedBy: "a", CreatedAt: base.Add(24 * time.Hour)},
		{ItemID: bolt.ID, SupplierID: other.ID, Change: 10, Reason: domain.ReasonInitialStock, CreatedBy: "a", CreatedAt: base.Add(48 * time.Hour)},
		{ItemID: bolt.ID, SupplierID: other.ID, Change: -1, Reason: domain.ReasonDamaged, CreatedBy: "a", CreatedAt: base.Add(72 * time.Hour)},
	}
	for i := range rows {
		if err := CreateHistory(ctx, db, &rows[i]); err != nil {
			t.Fatalf("CreateHistory: %v", err)
		}
		if rows[i].ID == "" {
			t.Fatalf("ID not assigned")
		}
	}

	all, err := ListHistory(ctx, db)
	if err != nil || len(all) != 4 {
		t.Fatalf("ListHistory = %d rows, err=%v", len(all), err)
	}
	if all[0].Reason != domain.ReasonDamaged {
		t.Fatalf("newest row = %s; want DAMAGED", all[0].Reason)
	}

	byItem, _ := ListHistoryByItem(ctx, db, widget.ID)
	if len(byItem) != 2 || byItem[0].Change != -2 {
		t.Fatalf("ListHistoryByItem = %+v", byItem)
	}

	byReason, _ := ListHistoryByReason(ctx, db, domain.ReasonInitialStock)
	if len(byReason) != 2 {
		t.Fatalf("ListHistoryByReason = %d rows", len(byReason))
	}

	start, end := base.Add(12*time.Hour), base.Add(60*time.Hour)
	page, total, err := SearchHistory(ctx, db, HistoryFilter{Start: &start, End: &end}, 0, 10)
	if err != nil || total != 2 || len(page) != 2 || page[0].ItemID != bolt.ID {
		t.Fatalf("date window: total=%d rows=%+v err=%v", total, page, err)
	}

	page, total, _ = SearchHistory(ctx, db, HistoryFilter{ItemName: "widg"}, 0, 1)
	if total != 2 || len(page) != 1 || page[0].Reason != domain.ReasonSold {
		t.Fatalf("item name: total=%d rows=%+v", total, page)
	}

	page, total, _ = SearchHistory(ctx, db, HistoryFilter{SupplierID: other.ID}, 1, 10)
	if total != 2 || len(page) != 1 || page[0].Reason != domain.ReasonInitialStock {
		t.Fatalf("supplier: total=%d rows=%+v", total, page)
	}
}

func TestCreateHistory_DefaultsTimestamp(t *testing.T) {
	db := newRepoDB(t)
	h := &domain.StockHistory{ItemID: "gone", Change: 1, Reason: domain.ReasonManualUpdate, CreatedBy: "a"}
	before := time.Now().UTC().Add(-time.Second)
	if err := CreateHistory(context.Background(), db, h); err != nil {
		t.Fatalf("CreateHistory: %v", err)
	}
	if h.CreatedAt.Before(before) {
		t.Fatalf("CreatedAt not defaulted: %v", h.CreatedAt)
	}
}

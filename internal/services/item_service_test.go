package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/repo"
	"github.com/smartsupply/inventory-service/internal/utils"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type itemFixture struct {
	db       *gorm.DB
	svc      *ItemService
	supplier *domain.Supplier
}

func newItemFixture(t *testing.T) itemFixture {
	t.Helper()
	db := newServiceDB(t)
	s := &domain.Supplier{Name: "Acme", CreatedBy: "seed"}
	if err := repo.CreateSupplier(context.Background(), db, s); err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return itemFixture{db: db, svc: NewItemService(db, repo.Store{}, 7), supplier: s}
}

func (f itemFixture) history(t *testing.T, itemID string) []domain.StockHistory {
	t.Helper()
	rows, err := repo.ListHistoryByItem(context.Background(), f.db, itemID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	return rows
}

var (
	admin = domain.Principal{Email: "admin@example.com", Role: domain.RoleAdmin}
	user  = domain.Principal{Email: "user@example.com", Role: domain.RoleUser}
)

func TestItemService_Create_LogsInitialStock(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	it, err := f.svc.Create(ctx, admin.Email, ItemInput{Name: " Widget ", Quantity: 12, Price: dec("2.50"), SupplierID: f.supplier.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if it.Name != "Widget" || it.MinimumQuantity != 7 || it.CreatedBy != admin.Email {
		t.Fatalf("unexpected item: %+v", it)
	}

	rows := f.history(t, it.ID)
	if len(rows) != 1 {
		t.Fatalf("history rows = %d; want 1", len(rows))
	}
	h := rows[0]
	if h.Reason != domain.ReasonInitialStock || h.Change != 12 || h.SupplierID != f.supplier.ID {
		t.Fatalf("unexpected history: %+v", h)
	}
	if !h.PriceAtChange.Valid || !h.PriceAtChange.Decimal.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("price at change = %+v", h.PriceAtChange)
	}
}

func TestItemService_Create_AggregatesFieldErrors(t *testing.T) {
	f := newItemFixture(t)

	_, err := f.svc.Create(context.Background(), "a", ItemInput{Name: "", Quantity: -1, Price: dec("-1"), SupplierID: "nope"})
	ae := wantKind(t, err, apperr.KindInvalidRequest)
	fe := ae.FieldErrors()
	if len(fe) != 4 {
		t.Fatalf("field errors = %v; want 4", fe)
	}
	if fe["supplierId"] != MsgSupplierMissing {
		t.Fatalf("supplierId error = %q", fe["supplierId"])
	}

	_, err = f.svc.Create(context.Background(), "a", ItemInput{Name: "X", SupplierID: f.supplier.ID})
	ae = wantKind(t, err, apperr.KindInvalidRequest)
	if _, ok := ae.FieldErrors()["price"]; !ok {
		t.Fatalf("missing price should be a field error: %v", ae.FieldErrors())
	}
}

func TestItemService_Create_DuplicateName(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	in := ItemInput{Name: "Widget", Quantity: 1, Price: dec("1"), SupplierID: f.supplier.ID}
	if _, err := f.svc.Create(ctx, "a", in); err != nil {
		t.Fatalf("seed: %v", err)
	}
	in.Name = "WIDGET"
	_, err := f.svc.Create(ctx, "a", in)
	ae := wantKind(t, err, apperr.KindDuplicateResource)
	if ae.ResourceType() != "InventoryItem" {
		t.Fatalf("resource type = %q", ae.ResourceType())
	}
}

func TestItemService_Update_LogsQuantityAndPrice(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	it, _ := f.svc.Create(ctx, "a", ItemInput{Name: "Widget", Quantity: 10, Price: dec("1.00"), SupplierID: f.supplier.ID})

	up, err := f.svc.Update(ctx, user, it.ID, it.Version, ItemInput{Name: "Widget", Quantity: 4, Price: dec("1.25"), SupplierID: f.supplier.ID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if up.Quantity != 4 || up.Version != 2 || up.MinimumQuantity != 7 {
		t.Fatalf("unexpected item: %+v", up)
	}

	rows := f.history(t, it.ID)
	reasons := map[domain.StockChangeReason]int{}
	for _, r := range rows {
		reasons[r.Reason] = r.Change
	}
	if len(rows) != 3 || reasons[domain.ReasonManualUpdate] != -6 {
		t.Fatalf("history = %+v", rows)
	}
	if _, ok := reasons[domain.ReasonPriceChange]; !ok {
		t.Fatalf("missing PRICE_CHANGE row: %+v", rows)
	}

	_, err = f.svc.Update(ctx, admin, it.ID, 1, ItemInput{Name: "Widget", Quantity: 4, Price: dec("1.25"), SupplierID: f.supplier.ID})
	wantKind(t, err, apperr.KindOptimisticLock)
}

func TestItemService_Update_UserCannotRename(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	it, _ := f.svc.Create(ctx, "a", ItemInput{Name: "Widget", Quantity: 10, Price: dec("1"), SupplierID: f.supplier.ID})

	_, err := f.svc.Update(ctx, user, it.ID, it.Version, ItemInput{Name: "Gadget", Quantity: 10, Price: dec("1"), SupplierID: f.supplier.ID})
	ae := wantKind(t, err, apperr.KindStatus)
	if ae.Status() != http.StatusForbidden || ae.Message() != MsgUserFieldsOnly {
		t.Fatalf("got %d %q", ae.Status(), ae.Message())
	}

	up, err := f.svc.Update(ctx, admin, it.ID, it.Version, ItemInput{Name: "Gadget", Quantity: 10, Price: dec("1"), SupplierID: f.supplier.ID})
	if err != nil || up.Name != "Gadget" {
		t.Fatalf("admin rename = %+v, %v", up, err)
	}
	if rows := f.history(t, it.ID); len(rows) != 1 {
		t.Fatalf("rename alone should not log history, got %d rows", len(rows))
	}
}

func TestItemService_AdjustQuantity(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	it, _ := f.svc.Create(ctx, "a", ItemInput{Name: "Widget", Quantity: 5, Price: dec("1"), SupplierID: f.supplier.ID})

	got, err := f.svc.AdjustQuantity(ctx, "u", it.ID, -3, domain.ReasonSold)
	if err != nil || got.Quantity != 2 {
		t.Fatalf("AdjustQuantity = %+v, %v", got, err)
	}
	if rows := f.history(t, it.ID); rows[0].Reason != domain.ReasonSold || rows[0].Change != -3 {
		t.Fatalf("latest history = %+v", rows[0])
	}

	_, err = f.svc.AdjustQuantity(ctx, "u", it.ID, -3, domain.ReasonSold)
	ae := wantKind(t, err, apperr.KindInvalidRequest)
	if ae.Code() != apperr.CodeBusinessRuleViolation {
		t.Fatalf("code = %q", ae.Code())
	}

	_, err = f.svc.AdjustQuantity(ctx, "u", it.ID, 0, domain.ReasonSold)
	wantKind(t, err, apperr.KindInvalidRequest)

	_, err = f.svc.AdjustQuantity(ctx, "u", "missing", 1, domain.ReasonReturnedByCustomer)
	wantKind(t, err, apperr.KindNotFound)
}

func TestItemService_UpdatePrice(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	it, _ := f.svc.Create(ctx, "a", ItemInput{Name: "Widget", Quantity: 5, Price: dec("1"), SupplierID: f.supplier.ID})

	got, err := f.svc.UpdatePrice(ctx, "a", it.ID, decimal.RequireFromString("3.99"))
	if err != nil || got.Price.String() != "3.99" {
		t.Fatalf("UpdatePrice = %+v, %v", got, err)
	}
	if rows := f.history(t, it.ID); rows[0].Reason != domain.ReasonPriceChange || rows[0].Change != 0 {
		t.Fatalf("latest history = %+v", rows[0])
	}

	_, err = f.svc.UpdatePrice(ctx, "a", it.ID, decimal.Zero)
	ae := wantKind(t, err, apperr.KindInvalidRequest)
	if ae.Message() != MsgPriceNotPositive {
		t.Fatalf("message = %q", ae.Message())
	}
}

func TestItemService_Delete(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	it, _ := f.svc.Create(ctx, "a", ItemInput{Name: "Widget", Quantity: 5, Price: dec("1"), SupplierID: f.supplier.ID})

	err := f.svc.Delete(ctx, "a", it.ID, domain.ReasonSold)
	ae := wantKind(t, err, apperr.KindInvalidRequest)
	if ae.Message() != MsgInvalidDeleteReason {
		t.Fatalf("message = %q", ae.Message())
	}

	if err := f.svc.Delete(ctx, "a", it.ID, domain.ReasonDamaged); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rows := f.history(t, it.ID)
	if len(rows) != 2 || rows[0].Reason != domain.ReasonDamaged || rows[0].Change != -5 {
		t.Fatalf("history after delete = %+v", rows)
	}
	_, err = f.svc.Get(ctx, it.ID)
	wantKind(t, err, apperr.KindNotFound)

	wantKind(t, f.svc.Delete(ctx, "a", it.ID, domain.ReasonLost), apperr.KindNotFound)
}

func TestItemService_Search_Pages(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	for _, n := range []struct{ name, price string }{{"Bolt A", "3"}, {"Bolt B", "1"}, {"Nut", "2"}} {
		if _, err := f.svc.Create(ctx, "a", ItemInput{Name: n.name, Quantity: 1, Price: dec(n.price), SupplierID: f.supplier.ID}); err != nil {
			t.Fatalf("seed %s: %v", n.name, err)
		}
	}

	page, err := f.svc.Search(ctx, "bolt", utils.Page{Page: 0, Size: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.TotalElements != 2 || len(page.Content) != 1 || page.Content[0].Name != "Bolt B" || page.Size != 1 {
		t.Fatalf("page = %+v", page)
	}

	page, _ = f.svc.Search(ctx, "zzz", utils.Page{Page: 0, Size: 10})
	if page.Content == nil || len(page.Content) != 0 {
		t.Fatalf("empty page should carry an empty slice: %+v", page)
	}
}

type failingItemRepo struct {
	repo.Store
	err error
}

func (r failingItemRepo) GetItem(ctx context.Context, db *gorm.DB, id string) (*domain.InventoryItem, error) {
	return nil, r.err
}

func (r failingItemRepo) ListItems(ctx context.Context, db *gorm.DB) ([]domain.InventoryItem, error) {
	return nil, r.err
}

func TestItemService_PassesThroughStorageErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewItemService(nil, failingItemRepo{err: boom}, 0)
	if svc.LowStockDefaultMin != 10 {
		t.Fatalf("default min = %d; want 10", svc.LowStockDefaultMin)
	}
	if _, err := svc.Get(context.Background(), "x"); !errors.Is(err, boom) || apperr.KindOf(err) != apperr.KindUnknown {
		t.Fatalf("Get err = %v", err)
	}
	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("List err = %v", err)
	}
}

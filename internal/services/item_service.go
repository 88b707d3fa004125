package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/utils"
)

// ItemRepo defines the persistence contract required by ItemService.
// History rows are written in the same transaction as the item change.
type ItemRepo interface {
	CreateItem(ctx context.Context, db *gorm.DB, it *domain.InventoryItem) error
	ListItems(ctx context.Context, db *gorm.DB) ([]domain.InventoryItem, error)
	GetItem(ctx context.Context, db *gorm.DB, id string) (*domain.InventoryItem, error)
	FindItemByName(ctx context.Context, db *gorm.DB, name, excludeID string) (*domain.InventoryItem, error)
	SearchItems(ctx context.Context, db *gorm.DB, name string, offset, limit int) ([]domain.InventoryItem, int64, error)
	UpdateItem(ctx context.Context, db *gorm.DB, it *domain.InventoryItem, expectedVersion int64) error
	DeleteItem(ctx context.Context, db *gorm.DB, id string) error

	SupplierExists(ctx context.Context, db *gorm.DB, id string) (bool, error)
	CreateHistory(ctx context.Context, db *gorm.DB, h *domain.StockHistory) error
}

// ItemInput carries the client-supplied item fields. Price is a pointer so a
// missing price can be told apart from zero.
type ItemInput struct {
	Name            string
	Quantity        int
	Price           *decimal.Decimal
	SupplierID      string
	MinimumQuantity int
}

// ItemService manages inventory items and records every stock movement.
type ItemService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the item repository used by this service.
	Repo ItemRepo

	// LowStockDefaultMin replaces a missing or non-positive minimum quantity.
	LowStockDefaultMin int
}

// NewItemService constructs an ItemService.
func NewItemService(db *gorm.DB, r ItemRepo, lowStockDefaultMin int) *ItemService {
	if lowStockDefaultMin <= 0 {
		lowStockDefaultMin = 10
	}
	return &ItemService{DB: db, Repo: r, LowStockDefaultMin: lowStockDefaultMin}
}

// List returns all items ordered by name.
func (s *ItemService) List(ctx context.Context) ([]domain.InventoryItem, error) {
	out, err := s.Repo.ListItems(ctx, s.DB)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	return out, nil
}

// Get returns one item or a NotFound error.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	it, err := s.Repo.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, "Inventory item not found: %s", id)
	}
	return it, nil
}

// Search returns one page of items whose name contains name, cheapest first.
func (s *ItemService) Search(ctx context.Context, name string, p utils.Page) (Page[domain.InventoryItem], error) {
	items, total, err := s.Repo.SearchItems(ctx, s.DB, strings.TrimSpace(name), p.Offset(), p.Size)
	if err != nil {
		return Page[domain.InventoryItem]{}, errors.Wrap(err, "search items")
	}
	return newPage(items, total, p), nil
}

// Create inserts an item and logs its initial stock.
func (s *ItemService) Create(ctx context.Context, actor string, in ItemInput) (_ *domain.InventoryItem, err error) {
	ctx, span := startSpan(ctx, "ItemService.Create")
	defer func() { endSpan(span, err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	if err := s.assertUniqueName(ctx, in.Name, ""); err != nil {
		return nil, err
	}

	it := &domain.InventoryItem{
		Name:            in.Name,
		Quantity:        in.Quantity,
		Price:           *in.Price,
		SupplierID:      in.SupplierID,
		MinimumQuantity: s.minimumOrDefault(in.MinimumQuantity),
		CreatedBy:       actor,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateItem(ctx, tx, it); err != nil {
			return errors.Wrap(err, "create item")
		}
		return s.record(ctx, tx, it, it.Quantity, domain.ReasonInitialStock, actor)
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("item.id", it.ID))
	return it, nil
}

// Update replaces the item fields when version matches. Callers without the
// ADMIN role may only change quantity and price.
func (s *ItemService) Update(ctx context.Context, p domain.Principal, id string, version int64, in ItemInput) (_ *domain.InventoryItem, err error) {
	ctx, span := startSpan(ctx, "ItemService.Update", attribute.String("item.id", id))
	defer func() { endSpan(span, err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	cur, err := s.Repo.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, "Inventory item not found: %s", id)
	}
	if !p.IsAdmin() && (cur.Name != in.Name || cur.SupplierID != in.SupplierID) {
		return nil, apperr.Status(http.StatusForbidden, MsgUserFieldsOnly)
	}
	if err := s.assertUniqueName(ctx, in.Name, id); err != nil {
		return nil, err
	}

	delta := in.Quantity - cur.Quantity
	priceChanged := !cur.Price.Equal(*in.Price)

	cur.Name = in.Name
	cur.Quantity = in.Quantity
	cur.Price = *in.Price
	cur.SupplierID = in.SupplierID
	if in.MinimumQuantity > 0 {
		cur.MinimumQuantity = in.MinimumQuantity
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.UpdateItem(ctx, tx, cur, version); err != nil {
			return staleOr(err, inventoryItemResource, id, "Inventory item not found: %s")
		}
		if delta != 0 {
			if err := s.record(ctx, tx, cur, delta, domain.ReasonManualUpdate, p.Email); err != nil {
				return err
			}
		}
		if priceChanged {
			return s.record(ctx, tx, cur, 0, domain.ReasonPriceChange, p.Email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cur, nil
}

// AdjustQuantity applies delta to the stored quantity and logs it under
// reason. The resulting quantity may not drop below zero.
func (s *ItemService) AdjustQuantity(ctx context.Context, actor, id string, delta int, reason domain.StockChangeReason) (_ *domain.InventoryItem, err error) {
	ctx, span := startSpan(ctx, "ItemService.AdjustQuantity",
		attribute.String("item.id", id), attribute.Int("stock.delta", delta), attribute.String("stock.reason", string(reason)))
	defer func() { endSpan(span, err) }()

	if delta == 0 {
		return nil, apperr.InvalidRequest(MsgZeroChange)
	}
	var out *domain.InventoryItem
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.Repo.GetItem(ctx, tx, id)
		if err != nil {
			return notFound(err, "Inventory item not found: %s", id)
		}
		if cur.Quantity+delta < 0 {
			return apperr.BusinessRuleViolation(MsgNegativeStock)
		}
		cur.Quantity += delta
		if err := s.Repo.UpdateItem(ctx, tx, cur, cur.Version); err != nil {
			return staleOr(err, inventoryItemResource, id, "Inventory item not found: %s")
		}
		out = cur
		return s.record(ctx, tx, cur, delta, reason, actor)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePrice sets a new, strictly positive price and logs the change.
func (s *ItemService) UpdatePrice(ctx context.Context, actor, id string, price decimal.Decimal) (_ *domain.InventoryItem, err error) {
	ctx, span := startSpan(ctx, "ItemService.UpdatePrice", attribute.String("item.id", id))
	defer func() { endSpan(span, err) }()

	if !price.IsPositive() {
		return nil, apperr.InvalidRequest(MsgPriceNotPositive)
	}
	var out *domain.InventoryItem
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.Repo.GetItem(ctx, tx, id)
		if err != nil {
			return notFound(err, "Inventory item not found: %s", id)
		}
		cur.Price = price
		if err := s.Repo.UpdateItem(ctx, tx, cur, cur.Version); err != nil {
			return staleOr(err, inventoryItemResource, id, "Inventory item not found: %s")
		}
		out = cur
		return s.record(ctx, tx, cur, 0, domain.ReasonPriceChange, actor)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an item after logging its remaining stock as a removal
// under reason. Only removal reasons are accepted.
func (s *ItemService) Delete(ctx context.Context, actor, id string, reason domain.StockChangeReason) (err error) {
	ctx, span := startSpan(ctx, "ItemService.Delete", attribute.String("item.id", id), attribute.String("stock.reason", string(reason)))
	defer func() { endSpan(span, err) }()

	if !reason.IsRemoval() {
		return apperr.InvalidRequest(MsgInvalidDeleteReason)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.Repo.GetItem(ctx, tx, id)
		if err != nil {
			return notFound(err, "Inventory item not found: %s", id)
		}
		if err := s.record(ctx, tx, cur, -cur.Quantity, reason, actor); err != nil {
			return err
		}
		if err := s.Repo.DeleteItem(ctx, tx, id); err != nil {
			return notFound(err, "Inventory item not found: %s", id)
		}
		return nil
	})
}

// validate collects every field problem of in, including an unknown
// supplier, into a single invalid-request error.
func (s *ItemService) validate(ctx context.Context, in ItemInput) error {
	fe := map[string]string{}
	if in.Name == "" {
		fe["name"] = "Product name cannot be null or empty"
	}
	if in.Quantity < 0 {
		fe["quantity"] = "Quantity cannot be negative"
	}
	if in.Price == nil || in.Price.IsNegative() {
		fe["price"] = MsgPriceNotPositive
	}
	if in.SupplierID == "" {
		fe["supplierId"] = "Supplier ID must be provided"
	} else {
		ok, err := s.Repo.SupplierExists(ctx, s.DB, in.SupplierID)
		if err != nil {
			return errors.Wrap(err, "check supplier")
		}
		if !ok {
			fe["supplierId"] = MsgSupplierMissing
		}
	}
	if len(fe) > 0 {
		return apperr.InvalidRequestFields(MsgValidationFailed, fe)
	}
	return nil
}

func (s *ItemService) assertUniqueName(ctx context.Context, name, excludeID string) error {
	_, err := s.Repo.FindItemByName(ctx, s.DB, name, excludeID)
	switch {
	case err == nil:
		return apperr.InventoryItemName(name)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	}
	return errors.Wrap(err, "check item name")
}

func (s *ItemService) minimumOrDefault(n int) int {
	if n > 0 {
		return n
	}
	return s.LowStockDefaultMin
}

// record appends a history row carrying the item's current price.
func (s *ItemService) record(ctx context.Context, tx *gorm.DB, it *domain.InventoryItem, change int, reason domain.StockChangeReason, actor string) error {
	h := &domain.StockHistory{
		ItemID:        it.ID,
		SupplierID:    it.SupplierID,
		Change:        change,
		Reason:        reason,
		CreatedBy:     actor,
		PriceAtChange: decimal.NewNullDecimal(it.Price),
	}
	return errors.Wrap(s.Repo.CreateHistory(ctx, tx, h), "record stock history")
}

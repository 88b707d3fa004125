package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/smartsupply/inventory-service/internal/auth"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/repo"
	"github.com/smartsupply/inventory-service/internal/services"
	"github.com/smartsupply/inventory-service/internal/utils"
)

//
// Service contracts (context-aware)
//

// SupplierService defines supplier operations consumed by HTTP handlers.
type SupplierService interface {
	List(ctx context.Context) ([]domain.Supplier, error)
	Get(ctx context.Context, id string) (*domain.Supplier, error)
	Search(ctx context.Context, name string) ([]domain.Supplier, error)
	Create(ctx context.Context, actor string, in services.SupplierInput) (*domain.Supplier, error)
	Update(ctx context.Context, id string, version int64, in services.SupplierInput) (*domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// ItemService defines inventory item operations consumed by HTTP handlers.
type ItemService interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Get(ctx context.Context, id string) (*domain.InventoryItem, error)
	Search(ctx context.Context, name string, p utils.Page) (services.Page[domain.InventoryItem], error)
	Create(ctx context.Context, actor string, in services.ItemInput) (*domain.InventoryItem, error)
	Update(ctx context.Context, p domain.Principal, id string, version int64, in services.ItemInput) (*domain.InventoryItem, error)
	AdjustQuantity(ctx context.Context, actor, id string, delta int, reason domain.StockChangeReason) (*domain.InventoryItem, error)
	UpdatePrice(ctx context.Context, actor, id string, price decimal.Decimal) (*domain.InventoryItem, error)
	Delete(ctx context.Context, actor, id string, reason domain.StockChangeReason) error
}

// HistoryService defines read access to the stock history.
type HistoryService interface {
	List(ctx context.Context) ([]domain.StockHistory, error)
	ByItem(ctx context.Context, itemID string) ([]domain.StockHistory, error)
	ByReason(ctx context.Context, reason domain.StockChangeReason) ([]domain.StockHistory, error)
	Search(ctx context.Context, q services.HistoryQuery, p utils.Page) (services.Page[domain.StockHistory], error)
}

// AnalyticsService defines the dashboard aggregates.
type AnalyticsService interface {
	Summary(ctx context.Context) (*services.Summary, error)
	StockPerSupplier(ctx context.Context) ([]repo.SupplierStock, error)
	LowStock(ctx context.Context) ([]services.LowStockItem, error)
}

// IdempotencyStore remembers the resource produced by a keyed create request.
type IdempotencyStore interface {
	Lookup(ctx context.Context, principal, scope, key string) (*domain.Idempotency, error)
	Remember(ctx context.Context, principal, scope, key, resourceID string, status int) error
}

// StatsFunc reports the item count and latest update time, used for ETags.
type StatsFunc func(ctx context.Context) (count int64, maxUpdatedAt *time.Time, err error)

// PingFunc checks the database connection.
type PingFunc func(ctx context.Context) error

//
// Handler wiring
//

// Deps are the collaborators of Handlers. Idempotency, ItemsStats and Ping
// are optional.
type Deps struct {
	Suppliers   SupplierService
	Items       ItemService
	History     HistoryService
	Analytics   AnalyticsService
	Idempotency IdempotencyStore
	ItemsStats  StatsFunc
	Ping        PingFunc

	// DefaultPageSize applies when a paged request has no size.
	DefaultPageSize int
	// MaxPageSize caps the size of paged requests.
	MaxPageSize int
}

// Handlers groups the HTTP endpoints of the inventory API.
type Handlers struct {
	suppliers SupplierService
	items     ItemService
	history   HistoryService
	analytics AnalyticsService
	idem      IdempotencyStore
	stats     StatsFunc
	ping      PingFunc

	defSize int
	maxSize int
}

// New constructs and returns a Handlers instance bound to the given services.
func New(d Deps) *Handlers {
	if d.DefaultPageSize <= 0 {
		d.DefaultPageSize = 20
	}
	if d.MaxPageSize <= 0 {
		d.MaxPageSize = 200
	}
	return &Handlers{
		suppliers: d.Suppliers,
		items:     d.Items,
		history:   d.History,
		analytics: d.Analytics,
		idem:      d.Idempotency,
		stats:     d.ItemsStats,
		ping:      d.Ping,
		defSize:   d.DefaultPageSize,
		maxSize:   d.MaxPageSize,
	}
}

// principal returns the authenticated caller. Routes are mounted behind
// auth.Authenticate, so the zero value only shows up in handler unit tests.
func principal(c *gin.Context) domain.Principal {
	p, _ := auth.PrincipalFrom(c)
	return p
}

func (h *Handlers) page(c *gin.Context) (utils.Page, error) {
	return utils.PageParams(c.Query("page"), c.Query("size"), h.defSize, h.maxSize)
}

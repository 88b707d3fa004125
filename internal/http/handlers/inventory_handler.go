// Inventory item HTTP handlers.
//
// This file exposes REST endpoints for inventory items:
//   - GET    /inventory                (list, weak ETag support)
//   - GET    /inventory/{id}           (read)
//   - GET    /inventory/search         (by name, paged, cheapest first)
//   - POST   /inventory                (create, Idempotency-Key aware)
//   - PUT    /inventory/{id}           (update with optimistic version)
//   - PATCH  /inventory/{id}/quantity  (stock movement)
//   - PATCH  /inventory/{id}/price     (price change)
//   - DELETE /inventory/{id}?reason=   (removal with a removal reason)
//
// Every stock or price change is recorded in the stock history by the
// service, in the same transaction.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/services"
)

// ItemRequest is the JSON payload for creating an item. Field rules are
// checked by the service so that all problems are reported together.
type ItemRequest struct {
	Name            string           `json:"name"            binding:"max=255" example:"Widget"`
	Quantity        int              `json:"quantity"        example:"25"`
	Price           *decimal.Decimal `json:"price"           swaggertype:"string" example:"9.99"`
	SupplierID      string           `json:"supplierId"      example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	MinimumQuantity int              `json:"minimumQuantity" example:"5"`
}

func (r ItemRequest) input() services.ItemInput {
	return services.ItemInput{
		Name:            r.Name,
		Quantity:        r.Quantity,
		Price:           r.Price,
		SupplierID:      r.SupplierID,
		MinimumQuantity: r.MinimumQuantity,
	}
}

// UpdateItemRequest is the JSON payload for updating an item.
type UpdateItemRequest struct {
	ItemRequest
	Version int64 `json:"version" binding:"required,min=1" example:"1"`
}

// QuantityRequest moves stock by Delta, which must be non-zero.
type QuantityRequest struct {
	Delta  int    `json:"delta"  example:"-3"`
	Reason string `json:"reason" binding:"required" example:"SOLD"`
}

// PriceRequest sets a new price.
type PriceRequest struct {
	Price *decimal.Decimal `json:"price" binding:"required" swaggertype:"string" example:"12.50"`
}

// ListItems godoc
// @ID          listItems
// @Summary     List inventory items
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Inventory
// @Produce     json
// @Security    BearerAuth
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {array}   domain.InventoryItem
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Router      /inventory [get]
func (h *Handlers) ListItems(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if h.stats != nil {
		count, maxTS, err := h.stats(ctx)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf(`W/"items:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	out, err := h.items.List(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetItem godoc
// @ID          getItem
// @Summary     Get an inventory item
// @Tags        Inventory
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Item ID"  format(uuid)
// @Success     200  {object}  domain.InventoryItem
// @Failure     404  {object}  errhandler.ErrorResponse
// @Router      /inventory/{id} [get]
func (h *Handlers) GetItem(c *gin.Context) {
	it, err := h.items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, it)
}

// SearchItems godoc
// @ID          searchItems
// @Summary     Search inventory items by name
// @Tags        Inventory
// @Produce     json
// @Security    BearerAuth
// @Param       name  query     string  true   "Name fragment"
// @Param       page  query     int     false  "Zero-based page"  minimum(0) default(0)
// @Param       size  query     int     false  "Page size"        minimum(1) default(20)
// @Success     200   {object}  services.Page[domain.InventoryItem]
// @Failure     400   {object}  errhandler.ErrorResponse  "Missing name or non-integer page/size"
// @Router      /inventory/search [get]
func (h *Handlers) SearchItems(c *gin.Context) {
	name, present := c.GetQuery("name")
	if !present {
		fail(c, apperr.MissingParameter("name"))
		return
	}
	p, err := h.page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := h.items.Search(c.Request.Context(), name, p)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// CreateItem godoc
// @ID          createItem
// @Summary     Create an inventory item
// @Description Logs INITIAL_STOCK. A repeated request with the same Idempotency-Key returns the item created first.
// @Tags        Inventory
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header    string                false  "Client retry key"
// @Param       body             body      handlers.ItemRequest  true   "Item"
// @Success     201              {object}  domain.InventoryItem
// @Failure     400              {object}  errhandler.ErrorResponse  "Validation failed"
// @Failure     409              {object}  errhandler.ErrorResponse  "Duplicate name"
// @Router      /inventory [post]
func (h *Handlers) CreateItem(c *gin.Context) {
	if replay(c, h.idem, h.loadItem) {
		return
	}
	var req ItemRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.items.Create(c.Request.Context(), principal(c).Email, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	remember(c, h.idem, it.ID, http.StatusCreated)
	ok(c, http.StatusCreated, it)
}

// UpdateItem godoc
// @ID          updateItem
// @Summary     Update an inventory item
// @Description USER callers may change only quantity and price.
// @Tags        Inventory
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                      true  "Item ID"  format(uuid)
// @Param       body  body      handlers.UpdateItemRequest  true  "Item with current version"
// @Success     200   {object}  domain.InventoryItem
// @Failure     403   {object}  errhandler.ErrorResponse
// @Failure     409   {object}  errhandler.ErrorResponse  "Duplicate name or stale version"
// @Router      /inventory/{id} [put]
func (h *Handlers) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.items.Update(c.Request.Context(), principal(c), c.Param("id"), req.Version, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, it)
}

// AdjustQuantity godoc
// @ID          adjustQuantity
// @Summary     Move stock
// @Tags        Inventory
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                    true  "Item ID"  format(uuid)
// @Param       body  body      handlers.QuantityRequest  true  "Delta and reason"
// @Success     200   {object}  domain.InventoryItem
// @Failure     400   {object}  errhandler.ErrorResponse  "Zero delta, unknown reason or negative stock"
// @Router      /inventory/{id}/quantity [patch]
func (h *Handlers) AdjustQuantity(c *gin.Context) {
	var req QuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	reason, err := domain.ParseStockChangeReason(req.Reason)
	if err != nil {
		fail(c, apperr.InvalidRequest("Unsupported change reason: "+req.Reason).WithCause(err))
		return
	}
	it, err := h.items.AdjustQuantity(c.Request.Context(), principal(c).Email, c.Param("id"), req.Delta, reason)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, it)
}

// UpdatePrice godoc
// @ID          updatePrice
// @Summary     Change the price
// @Tags        Inventory
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                 true  "Item ID"  format(uuid)
// @Param       body  body      handlers.PriceRequest  true  "New price"
// @Success     200   {object}  domain.InventoryItem
// @Failure     400   {object}  errhandler.ErrorResponse  "Price must be positive"
// @Router      /inventory/{id}/price [patch]
func (h *Handlers) UpdatePrice(c *gin.Context) {
	var req PriceRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.items.UpdatePrice(c.Request.Context(), principal(c).Email, c.Param("id"), *req.Price)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, it)
}

// DeleteItem godoc
// @ID          deleteItem
// @Summary     Remove an inventory item
// @Description The remaining quantity is logged under reason before deletion.
// @Tags        Inventory
// @Security    BearerAuth
// @Param       id      path   string  true  "Item ID"  format(uuid)
// @Param       reason  query  string  true  "Removal reason"  Enums(SCRAPPED, DESTROYED, DAMAGED, EXPIRED, LOST, RETURNED_TO_SUPPLIER)
// @Success     204     {string}  string  "No Content"
// @Failure     400     {object}  errhandler.ErrorResponse  "Missing, unknown or non-removal reason"
// @Failure     404     {object}  errhandler.ErrorResponse
// @Router      /inventory/{id} [delete]
func (h *Handlers) DeleteItem(c *gin.Context) {
	raw := c.Query("reason")
	if raw == "" {
		fail(c, apperr.MissingParameter("reason"))
		return
	}
	reason, err := domain.ParseStockChangeReason(raw)
	if err != nil {
		fail(c, apperr.TypeMismatch("reason", err))
		return
	}
	if err := h.items.Delete(c.Request.Context(), principal(c).Email, c.Param("id"), reason); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *Handlers) loadItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return h.items.Get(ctx, id)
}

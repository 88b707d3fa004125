package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/services"
)

// HistoryEntry is the wire form of a stock history row.
type HistoryEntry struct {
	ID            string                   `json:"id"`
	ItemID        string                   `json:"itemId"`
	SupplierID    string                   `json:"supplierId,omitempty"`
	Change        int                      `json:"change"`
	Reason        domain.StockChangeReason `json:"reason"`
	ReasonLabel   string                   `json:"reasonLabel"`
	CreatedBy     string                   `json:"createdBy"`
	PriceAtChange *decimal.Decimal         `json:"priceAtChange,omitempty" swaggertype:"string"`
	Timestamp     time.Time                `json:"timestamp"`
}

// HistoryPage is one page of history entries.
type HistoryPage struct {
	Content       []HistoryEntry `json:"content"`
	TotalElements int64          `json:"totalElements"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
}

func toHistoryEntry(h domain.StockHistory, _ int) HistoryEntry {
	e := HistoryEntry{
		ID:          h.ID,
		ItemID:      h.ItemID,
		SupplierID:  h.SupplierID,
		Change:      h.Change,
		Reason:      h.Reason,
		ReasonLabel: h.Reason.Label(),
		CreatedBy:   h.CreatedBy,
		Timestamp:   h.CreatedAt,
	}
	if h.PriceAtChange.Valid {
		p := h.PriceAtChange.Decimal
		e.PriceAtChange = &p
	}
	return e
}

func toHistoryEntries(rows []domain.StockHistory) []HistoryEntry {
	return lo.Map(rows, toHistoryEntry)
}

// ListHistory godoc
// @ID          listStockHistory
// @Summary     List stock history
// @Tags        StockHistory
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}  handlers.HistoryEntry
// @Router      /stock-history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	rows, err := h.history.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toHistoryEntries(rows))
}

// HistoryByItem godoc
// @ID          stockHistoryByItem
// @Summary     Stock history of one item
// @Tags        StockHistory
// @Produce     json
// @Security    BearerAuth
// @Param       itemId  path     string  true  "Item ID"  format(uuid)
// @Success     200     {array}  handlers.HistoryEntry
// @Router      /stock-history/item/{itemId} [get]
func (h *Handlers) HistoryByItem(c *gin.Context) {
	rows, err := h.history.ByItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toHistoryEntries(rows))
}

// HistoryByReason godoc
// @ID          stockHistoryByReason
// @Summary     Stock history logged under a reason
// @Tags        StockHistory
// @Produce     json
// @Security    BearerAuth
// @Param       reason  path      string  true  "Change reason"
// @Success     200     {array}   handlers.HistoryEntry
// @Failure     400     {object}  errhandler.ErrorResponse  "Unknown reason"
// @Router      /stock-history/reason/{reason} [get]
func (h *Handlers) HistoryByReason(c *gin.Context) {
	reason, err := domain.ParseStockChangeReason(c.Param("reason"))
	if err != nil {
		fail(c, apperr.TypeMismatch("reason", err))
		return
	}
	rows, err := h.history.ByReason(c.Request.Context(), reason)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toHistoryEntries(rows))
}

// SearchHistory godoc
// @ID          searchStockHistory
// @Summary     Search stock history
// @Tags        StockHistory
// @Produce     json
// @Security    BearerAuth
// @Param       startDate   query     string  false  "RFC 3339 lower bound"  format(date-time)
// @Param       endDate     query     string  false  "RFC 3339 upper bound"  format(date-time)
// @Param       itemName    query     string  false  "Item name fragment"
// @Param       supplierId  query     string  false  "Supplier ID"
// @Param       page        query     int     false  "Zero-based page"  minimum(0) default(0)
// @Param       size        query     int     false  "Page size"        minimum(1) default(20)
// @Success     200         {object}  handlers.HistoryPage
// @Failure     400         {object}  errhandler.ErrorResponse
// @Router      /stock-history/search [get]
func (h *Handlers) SearchHistory(c *gin.Context) {
	start, err := timeParam(c, "startDate")
	if err != nil {
		fail(c, err)
		return
	}
	end, err := timeParam(c, "endDate")
	if err != nil {
		fail(c, err)
		return
	}
	p, err := h.page(c)
	if err != nil {
		fail(c, err)
		return
	}
	q := services.HistoryQuery{
		Start:      start,
		End:        end,
		ItemName:   c.Query("itemName"),
		SupplierID: c.Query("supplierId"),
	}
	res, err := h.history.Search(c.Request.Context(), q, p)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, HistoryPage{
		Content:       toHistoryEntries(res.Content),
		TotalElements: res.TotalElements,
		Page:          res.Page,
		Size:          res.Size,
	})
}

// timeParam parses an optional RFC 3339 query parameter.
func timeParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.TypeMismatch(name, err)
	}
	return &t, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Summary godoc
// @ID          analyticsSummary
// @Summary     Dashboard summary
// @Description Supplier and item counts, total units, total stock value and low-stock items.
// @Tags        Analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  services.Summary
// @Router      /analytics/summary [get]
func (h *Handlers) Summary(c *gin.Context) {
	out, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// StockPerSupplier godoc
// @ID          stockPerSupplier
// @Summary     Units in stock per supplier
// @Tags        Analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}  repo.SupplierStock
// @Router      /analytics/stock-per-supplier [get]
func (h *Handlers) StockPerSupplier(c *gin.Context) {
	out, err := h.analytics.StockPerSupplier(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// LowStock godoc
// @ID          lowStockItems
// @Summary     Items below their minimum quantity
// @Tags        Analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}  services.LowStockItem
// @Router      /analytics/low-stock-items [get]
func (h *Handlers) LowStock(c *gin.Context) {
	out, err := h.analytics.LowStock(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// Me godoc
// @ID          me
// @Summary     The authenticated caller
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  domain.Principal
// @Failure     401  {object}  errhandler.ErrorResponse
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	ok(c, http.StatusOK, principal(c))
}

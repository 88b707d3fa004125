// Supplier HTTP handlers.
//
// This file exposes REST endpoints for supplier resources:
//   - GET    /suppliers              (list)
//   - GET    /suppliers/{id}         (read)
//   - GET    /suppliers/search       (by name fragment)
//   - POST   /suppliers              (create, Idempotency-Key aware)
//   - PUT    /suppliers/{id}         (update with optimistic version)
//   - DELETE /suppliers/{id}         (delete when no items are linked)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/services"
)

// SupplierRequest is the JSON payload for creating a supplier.
type SupplierRequest struct {
	Name        string `json:"name"        binding:"required,max=255"         example:"Acme Corp"`
	ContactName string `json:"contactName" binding:"max=255"                  example:"Jane Roe"`
	Phone       string `json:"phone"       binding:"max=64"                   example:"+44 20 7946 0000"`
	Email       string `json:"email"       binding:"omitempty,email,max=255"  example:"sales@acme.example"`
}

func (r SupplierRequest) input() services.SupplierInput {
	return services.SupplierInput{Name: r.Name, ContactName: r.ContactName, Phone: r.Phone, Email: r.Email}
}

// UpdateSupplierRequest is the JSON payload for updating a supplier. Version
// must equal the stored version.
type UpdateSupplierRequest struct {
	SupplierRequest
	Version int64 `json:"version" binding:"required,min=1" example:"1"`
}

// ListSuppliers godoc
// @ID          listSuppliers
// @Summary     List suppliers
// @Tags        Suppliers
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.Supplier
// @Failure     401  {object}  errhandler.ErrorResponse
// @Router      /suppliers [get]
func (h *Handlers) ListSuppliers(c *gin.Context) {
	out, err := h.suppliers.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetSupplier godoc
// @ID          getSupplier
// @Summary     Get a supplier
// @Tags        Suppliers
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Supplier ID"  format(uuid)
// @Success     200  {object}  domain.Supplier
// @Failure     404  {object}  errhandler.ErrorResponse  "Supplier not found"
// @Router      /suppliers/{id} [get]
func (h *Handlers) GetSupplier(c *gin.Context) {
	s, err := h.suppliers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s)
}

// SearchSuppliers godoc
// @ID          searchSuppliers
// @Summary     Search suppliers by name
// @Tags        Suppliers
// @Produce     json
// @Security    BearerAuth
// @Param       name  query     string  true  "Name fragment"  maxlength(255)
// @Success     200   {array}   domain.Supplier
// @Failure     400   {object}  errhandler.ErrorResponse  "Missing or invalid name"
// @Router      /suppliers/search [get]
func (h *Handlers) SearchSuppliers(c *gin.Context) {
	name, present := c.GetQuery("name")
	if !present {
		fail(c, apperr.MissingParameter("name"))
		return
	}
	out, err := h.suppliers.Search(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// CreateSupplier godoc
// @ID          createSupplier
// @Summary     Create a supplier
// @Description Names are unique regardless of case. A repeated request with the same Idempotency-Key returns the supplier created first.
// @Tags        Suppliers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header    string                    false  "Client retry key"
// @Param       body             body      handlers.SupplierRequest  true   "Supplier"
// @Success     201              {object}  domain.Supplier
// @Failure     400              {object}  errhandler.ErrorResponse
// @Failure     403              {object}  errhandler.ErrorResponse
// @Failure     409              {object}  errhandler.ErrorResponse  "Duplicate name"
// @Router      /suppliers [post]
func (h *Handlers) CreateSupplier(c *gin.Context) {
	if replay(c, h.idem, h.loadSupplier) {
		return
	}
	var req SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.suppliers.Create(c.Request.Context(), principal(c).Email, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	remember(c, h.idem, s.ID, http.StatusCreated)
	ok(c, http.StatusCreated, s)
}

// UpdateSupplier godoc
// @ID          updateSupplier
// @Summary     Update a supplier
// @Tags        Suppliers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                          true  "Supplier ID"  format(uuid)
// @Param       body  body      handlers.UpdateSupplierRequest  true  "Supplier with current version"
// @Success     200   {object}  domain.Supplier
// @Failure     404   {object}  errhandler.ErrorResponse
// @Failure     409   {object}  errhandler.ErrorResponse  "Duplicate name or stale version"
// @Router      /suppliers/{id} [put]
func (h *Handlers) UpdateSupplier(c *gin.Context) {
	var req UpdateSupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.suppliers.Update(c.Request.Context(), c.Param("id"), req.Version, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s)
}

// DeleteSupplier godoc
// @ID          deleteSupplier
// @Summary     Delete a supplier
// @Tags        Suppliers
// @Security    BearerAuth
// @Param       id   path  string  true  "Supplier ID"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  errhandler.ErrorResponse
// @Failure     409  {object}  errhandler.ErrorResponse  "Supplier still has items"
// @Router      /suppliers/{id} [delete]
func (h *Handlers) DeleteSupplier(c *gin.Context) {
	if err := h.suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *Handlers) loadSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	return h.suppliers.Get(ctx, id)
}

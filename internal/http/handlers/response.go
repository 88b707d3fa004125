// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers shared by every endpoint. Handlers
// never write error bodies themselves: failures are attached to the gin
// context with fail() and rendered by errhandler.ErrorHandler, so every error
// leaves the service in the same five-field shape.
//
// Example success response:
//
//	HTTP/1.1 201 Created
//	{ "id": "9b2c...", "name": "Acme Corp", "version": 1 }
package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/http/errhandler"
)

// fail hands err to the error chain and stops the handler chain.
func fail(c *gin.Context, err error) { errhandler.Fail(c, err) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// bindJSON decodes the request body into dst and runs the binding
// validators. Validator failures are passed through untouched so the chain
// can name the field; an oversized body becomes 413 and anything else an
// unreadable-body error. It reports whether the handler may continue.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verrs):
		fail(c, err)
	case errors.As(err, &tooLarge):
		fail(c, apperr.Status(http.StatusRequestEntityTooLarge, "Request body too large").WithCause(err))
	default:
		fail(c, apperr.UnreadableBody(err))
	}
	return false
}

var registerOnce sync.Once

// RegisterValidation makes the gin validator report JSON field names
// ("supplierId") instead of Go field names ("SupplierID"). Safe to call more
// than once.
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// Package services holds the inventory business logic: suppliers, inventory
// items, stock history and analytics.
//
// Services return *apperr.Error values for every predictable failure so the
// HTTP error chain can translate them without knowing the service. Storage
// failures that carry no business meaning are wrapped and passed through.
package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/observability"
	"github.com/smartsupply/inventory-service/internal/repo"
)

// Business messages shared by handlers and tests.
const (
	MsgSupplierBlank       = "Supplier name must not be blank"
	MsgSupplierHasItems    = "Cannot delete supplier with linked items"
	MsgSupplierMissing     = "Supplier does not exist"
	MsgUserFieldsOnly      = "Users are only allowed to change quantity or price."
	MsgInvalidDeleteReason = "Invalid reason for deletion"
	MsgNegativeStock       = "resulting stock cannot be negative"
	MsgZeroChange          = "Change amount must be non-zero"
	MsgPriceNotPositive    = "Price must be positive"
	MsgEndBeforeStart      = "endDate must be >= startDate"
	MsgValidationFailed    = "Validation failed"
	searchNameRule         = "max=255"
	supplierResource       = "Supplier"
	inventoryItemResource  = "InventoryItem"
)

// notFound maps repo.ErrNotFound to a NotFound error with the given message
// and wraps anything else.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFoundf(format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

// staleOr maps repo.ErrStaleVersion to an optimistic lock failure and
// repo.ErrNotFound to NotFound.
func staleOr(err error, resource, id, notFoundFormat string) error {
	switch {
	case errors.Is(err, repo.ErrStaleVersion):
		return apperr.OptimisticLock(resource, id)
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFoundf(notFoundFormat, id)
	}
	return errors.Wrapf(err, "update %s %s", resource, id)
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return observability.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
